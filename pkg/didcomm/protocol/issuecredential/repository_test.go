/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
	storemocks "github.com/hyperledger/aries-issuecredential-go/pkg/internal/gomocks/spi/storage"
)

type failingProvider struct {
	storage.Provider
	err error
}

func (p *failingProvider) OpenStore(string) (storage.Store, error) {
	return nil, p.err
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(mem.NewProvider())
	require.NoError(t, err)

	return repo
}

func TestNewRepository(t *testing.T) {
	_, err := NewRepository(&failingProvider{err: errors.New("boom")})
	require.EqualError(t, err, "open store issue-credential: boom")
}

func TestRepository_Commit(t *testing.T) {
	repo := newTestRepository(t)

	rec := &Record{
		ID:           "record-1",
		ThreadID:     "did:example:thread:1",
		ConnectionID: "conn-1",
		State:        StateOfferSent,
		Role:         RoleIssuer,
		FormatKeys:   []string{"ldproof"},
		Revision:     1,
	}

	msg := &StoredMessage{
		RecordID:    rec.ID,
		MessageType: OfferCredentialMsgTypeV2,
		Role:        MessageSent,
		Revision:    1,
		Message:     service.DIDCommMsgMap{"@id": "msg-1", "@type": OfferCredentialMsgTypeV2},
	}

	require.NoError(t, repo.Commit(&Change{Record: rec, Message: msg}))

	t.Run("new record twice", func(t *testing.T) {
		require.ErrorIs(t, repo.Save(rec), ErrRecordConflict)
	})

	t.Run("stale prior", func(t *testing.T) {
		next := rec.Clone()
		next.Revision = 2
		next.State = StateRequestReceived

		stale := rec.Clone()
		stale.Revision = 0

		require.ErrorIs(t, repo.Update(stale, next), ErrRecordConflict)
	})

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(rec.ID)
		require.NoError(t, err)
		require.Equal(t, rec.ThreadID, got.ThreadID)

		_, err = repo.GetByID("unknown")
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("query by thread id containing colons", func(t *testing.T) {
		got, err := repo.GetSingleByQuery(&Query{ThreadID: rec.ThreadID})
		require.NoError(t, err)
		require.Equal(t, rec.ID, got.ID)

		none, err := repo.FindSingleByQuery(&Query{ThreadID: rec.ThreadID, State: StateDone})
		require.NoError(t, err)
		require.Nil(t, none)

		_, err = repo.GetSingleByQuery(&Query{ThreadID: "other"})
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("stored message", func(t *testing.T) {
		got, err := repo.GetAgentMessage(rec.ID, OfferCredentialMsgTypeV2)
		require.NoError(t, err)
		require.Equal(t, "msg-1", got.Message.ID())

		missing, err := repo.FindAgentMessage(rec.ID, RequestCredentialMsgTypeV2)
		require.NoError(t, err)
		require.Nil(t, missing)

		_, err = repo.GetAgentMessage(rec.ID, RequestCredentialMsgTypeV2)
		require.ErrorIs(t, err, ErrMessageNotFound)

		last, err := repo.lastMessage(rec.ID, MessageSent)
		require.NoError(t, err)
		require.Equal(t, OfferCredentialMsgTypeV2, last.MessageType)

		last, err = repo.lastMessage(rec.ID, MessageReceived)
		require.NoError(t, err)
		require.Nil(t, last)
	})
}

func TestRepository_Query(t *testing.T) {
	repo := newTestRepository(t)

	records := []*Record{
		{ID: "1", ThreadID: "t1", ConnectionID: "c1", State: StateOfferSent, Role: RoleIssuer, FormatKeys: []string{"a"}},
		{ID: "2", ThreadID: "t1", ConnectionID: "c1", State: StateDone, Role: RoleIssuer},
		{ID: "3", ThreadID: "t2", ConnectionID: "c2", State: StateRequestSent, Role: RoleHolder, FormatKeys: []string{"a"}},
	}

	for _, rec := range records {
		require.NoError(t, repo.Save(rec))
	}

	for _, tc := range []struct {
		name     string
		query    *Query
		expected []string
	}{
		{name: "all", query: &Query{}, expected: []string{"1", "2", "3"}},
		{name: "thread", query: &Query{ThreadID: "t1"}, expected: []string{"1", "2"}},
		{name: "active thread", query: &Query{ThreadID: "t1", ActiveOnly: true}, expected: []string{"1"}},
		{name: "connection", query: &Query{ConnectionID: "c2"}, expected: []string{"3"}},
		{name: "state", query: &Query{State: StateDone}, expected: []string{"2"}},
		{name: "role", query: &Query{Role: RoleHolder}, expected: []string{"3"}},
		{name: "format", query: &Query{FormatKey: "a"}, expected: []string{"1", "3"}},
	} {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.Query(tc.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(found))
			for _, r := range found {
				ids = append(ids, r.ID)
			}

			require.ElementsMatch(t, tc.expected, ids)
		})
	}

	t.Run("ambiguous", func(t *testing.T) {
		_, err := repo.FindSingleByQuery(&Query{ThreadID: "t1"})
		require.ErrorIs(t, err, ErrAmbiguousRecord)
	})
}

func mockRepository(t *testing.T) (*Repository, *storemocks.MockStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := storemocks.NewMockStore(ctrl)

	provider := storemocks.NewMockProvider(ctrl)
	provider.EXPECT().OpenStore(Name).Return(store, nil)
	provider.EXPECT().SetStoreConfig(Name, gomock.Any()).Return(nil)

	repo, err := NewRepository(provider)
	require.NoError(t, err)

	return repo, store
}

func TestRepository_StoreFailures(t *testing.T) {
	rec := &Record{ID: "record-1", ThreadID: "thread-1", State: StateOfferSent, Role: RoleIssuer, Revision: 1}

	t.Run("store config", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		provider := storemocks.NewMockProvider(ctrl)
		provider.EXPECT().OpenStore(Name).Return(storemocks.NewMockStore(ctrl), nil)
		provider.EXPECT().SetStoreConfig(Name, gomock.Any()).Return(errors.New("config failed"))

		_, err := NewRepository(provider)
		require.EqualError(t, err, "failed to set store config: config failed")
	})

	t.Run("batch", func(t *testing.T) {
		repo, store := mockRepository(t)

		store.EXPECT().Get(recordKeyPrefix+rec.ID).Return(nil, storage.ErrDataNotFound)
		store.EXPECT().Batch(gomock.Len(1)).Return(errors.New("batch failed"))

		err := repo.Save(rec)
		require.EqualError(t, err, "commit record record-1: batch failed")
	})

	t.Run("record and message in one batch", func(t *testing.T) {
		repo, store := mockRepository(t)

		store.EXPECT().Get(recordKeyPrefix+rec.ID).Return(nil, storage.ErrDataNotFound)
		store.EXPECT().Batch(gomock.Len(2)).Return(nil)

		require.NoError(t, repo.Commit(&Change{
			Record: rec,
			Message: &StoredMessage{
				RecordID:    rec.ID,
				MessageType: OfferCredentialMsgTypeV2,
				Role:        MessageSent,
				Message:     service.DIDCommMsgMap{"@id": "m1", "@type": OfferCredentialMsgTypeV2},
			},
		}))
	})

	t.Run("get", func(t *testing.T) {
		repo, store := mockRepository(t)

		store.EXPECT().Get(recordKeyPrefix+rec.ID).Return(nil, errors.New("disk failed"))

		_, err := repo.GetByID(rec.ID)
		require.EqualError(t, err, "get record record-1: disk failed")
		require.NotErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("query", func(t *testing.T) {
		repo, store := mockRepository(t)

		store.EXPECT().Query(gomock.Any()).Return(nil, errors.New("query failed"))

		_, err := repo.Query(&Query{ThreadID: rec.ThreadID})
		require.Error(t, err)
		require.Contains(t, err.Error(), "query failed")
	})
}
