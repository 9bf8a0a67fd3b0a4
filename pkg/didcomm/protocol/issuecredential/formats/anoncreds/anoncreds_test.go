/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
)

const (
	testCredDef = "did:example:issuer/anoncreds/v0/CLAIM_DEF/1/tag"
	testSchema  = "did:example:issuer/anoncreds/v0/SCHEMA/degree/1.0"
)

type fakeIssuer struct {
	values map[string]AttributeValue
	err    error
}

func (f *fakeIssuer) CreateCredentialOffer(_ context.Context, credDefID string) (*CredentialOffer, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &CredentialOffer{
		SchemaID:            testSchema,
		CredDefID:           credDefID,
		Nonce:               "1234567890",
		KeyCorrectnessProof: map[string]interface{}{"c": "1"},
	}, nil
}

func (f *fakeIssuer) CreateCredential(_ context.Context, offer *CredentialOffer, _ *CredentialRequest,
	values map[string]AttributeValue) (*Credential, error) {
	f.values = values

	return &Credential{
		SchemaID:                  offer.SchemaID,
		CredDefID:                 offer.CredDefID,
		Values:                    values,
		Signature:                 map[string]interface{}{"p_credential": map[string]interface{}{}},
		SignatureCorrectnessProof: map[string]interface{}{"se": "1"},
	}, nil
}

type fakeHolder struct {
	stored *Credential
	meta   map[string]interface{}
}

func (f *fakeHolder) CreateCredentialRequest(_ context.Context, offer *CredentialOffer) (*CredentialRequest,
	map[string]interface{}, error) {
	return &CredentialRequest{
		ProverDID:                 "did:example:holder",
		CredDefID:                 offer.CredDefID,
		BlindedMS:                 map[string]interface{}{"u": "1"},
		BlindedMSCorrectnessProof: map[string]interface{}{"c": "1"},
		Nonce:                     "987654321",
	}, map[string]interface{}{"master_secret_name": "default"}, nil
}

func (f *fakeHolder) StoreCredential(_ context.Context, credential *Credential,
	requestMetadata map[string]interface{}) (string, error) {
	f.stored = credential
	f.meta = requestMetadata

	return "wallet-credential-1", nil
}

func TestEncodeValue(t *testing.T) {
	require.Equal(t, "87", EncodeValue("87"))
	require.Equal(t, "-2", EncodeValue("-2"))
	require.Equal(t,
		"101327353979588246869873249766058188995681113722618593621043638294296500696424",
		EncodeValue("SLC"))
	// out of the 32-bit range, so hashed
	require.NotEqual(t, "4294967296", EncodeValue("4294967296"))
	require.Len(t, EncodeValues(map[string]string{"a": "1", "b": "x"}), 2)
}

func TestService_Formats(t *testing.T) {
	s := New()
	require.Equal(t, FormatKey, s.FormatKey())
	require.True(t, s.SupportsPreview())

	for _, f := range []string{
		FilterFormat, OfferFormat, RequestFormat, CredentialFormat,
		LegacyFilterFormat, LegacyOfferFormat, LegacyRequestFormat, LegacyCredentialFormat,
	} {
		require.True(t, s.SupportsFormat(f), f)
	}

	require.False(t, s.SupportsFormat("aries/ld-proof-vc@v1.0"))
}

func TestService_Flow(t *testing.T) {
	ctx := context.Background()
	issuer := &fakeIssuer{}
	holder := &fakeHolder{}
	issuerSvc := New(WithIssuer(issuer))
	holderSvc := New(WithHolder(holder))

	issuerRec := &issuecredential.Record{ID: "issuer"}
	holderRec := &issuecredential.Record{ID: "holder"}

	proposal, err := holderSvc.CreateProposal(ctx, holderRec, issuecredential.FormatCreateInput{
		AttachmentID: "proposal",
		Options:      map[string]interface{}{"filter": map[string]interface{}{"cred_def_id": testCredDef}},
	})
	require.NoError(t, err)
	require.Equal(t, FilterFormat, proposal.Format.Format)
	require.NoError(t, issuerSvc.ProcessProposal(ctx, issuerRec, proposal))

	offer, err := issuerSvc.CreateOffer(ctx, issuerRec, issuecredential.FormatCreateInput{
		AttachmentID: "offer",
		Proposal:     proposal,
	})
	require.NoError(t, err)
	require.Equal(t, OfferFormat, offer.Format.Format)

	ok, err := issuerSvc.ShouldAutoRespondToProposal(ctx, issuerRec, issuecredential.AutoRespondInput{
		Proposal: proposal,
		Offer:    offer,
	})
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, holderSvc.ProcessOffer(ctx, holderRec, offer))

	request, err := holderSvc.CreateRequest(ctx, holderRec, issuecredential.FormatCreateInput{
		AttachmentID: "request",
		Offer:        offer,
	})
	require.NoError(t, err)
	require.Equal(t, RequestFormat, request.Format.Format)

	require.NoError(t, issuerSvc.ProcessRequest(ctx, issuerRec, request))

	ok, err = issuerSvc.ShouldAutoRespondToRequest(ctx, issuerRec, issuecredential.AutoRespondInput{
		Offer:   offer,
		Request: request,
	})
	require.NoError(t, err)
	require.True(t, ok)

	credential, err := issuerSvc.CreateCredential(ctx, issuerRec, issuecredential.FormatCreateInput{
		AttachmentID: "credential",
		Offer:        offer,
		Request:      request,
		Preview: &issuecredential.PreviewCredential{Attributes: []issuecredential.Attribute{
			{Name: "name", Value: "Alice"}, {Name: "age", Value: "28"},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, CredentialFormat, credential.Format.Format)
	require.Equal(t, AttributeValue{Raw: "28", Encoded: "28"}, issuer.values["age"])

	require.NoError(t, holderSvc.ProcessCredential(ctx, holderRec, credential))
	require.NotNil(t, holder.stored)
	require.Equal(t, "default", holder.meta["master_secret_name"])

	md := &metadata{}
	found, err := holderRec.DecodeMetadata(FormatKey, md)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testCredDef, md.CredDefID)
	require.Equal(t, testSchema, md.SchemaID)
	require.Equal(t, "wallet-credential-1", md.CredentialID)

	ok, err = holderSvc.ShouldAutoRespondToCredential(ctx, holderRec, issuecredential.AutoRespondInput{
		Request:    request,
		Credential: credential,
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestService_LegacyFormats(t *testing.T) {
	ctx := context.Background()
	s := New(WithIssuer(&fakeIssuer{}), WithHolder(&fakeHolder{}))

	offer, err := s.CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
		AttachmentID: "offer",
		Options:      &OfferOptions{CredDefID: testCredDef, Legacy: true},
	})
	require.NoError(t, err)
	require.Equal(t, LegacyOfferFormat, offer.Format.Format)

	// the request mirrors the family of the offer it answers
	request, err := s.CreateRequest(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
		AttachmentID: "request",
		Offer:        offer,
	})
	require.NoError(t, err)
	require.Equal(t, LegacyRequestFormat, request.Format.Format)

	proposal, err := s.CreateProposal(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
		AttachmentID: "proposal",
		Offer:        offer,
		Options:      map[string]interface{}{"legacy": true},
	})
	require.NoError(t, err)
	require.Equal(t, LegacyFilterFormat, proposal.Format.Format)

	ok, err := s.ShouldAutoRespondToOffer(ctx, &issuecredential.Record{}, issuecredential.AutoRespondInput{
		Proposal: proposal,
		Offer:    offer,
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestService_AutoRespond(t *testing.T) {
	ctx := context.Background()
	s := New(WithIssuer(&fakeIssuer{}))

	offer, err := s.CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
		Options: map[string]interface{}{"cred_def_id": testCredDef},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter map[string]interface{}
		want   bool
	}{
		{"same definition", map[string]interface{}{"cred_def_id": testCredDef}, true},
		{"same definition and schema", map[string]interface{}{"cred_def_id": testCredDef, "schema_id": testSchema}, true},
		{"other definition", map[string]interface{}{"cred_def_id": "other"}, false},
		{"other schema", map[string]interface{}{"cred_def_id": testCredDef, "schema_id": "other"}, false},
		{"schema only", map[string]interface{}{"schema_id": testSchema}, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			proposal, err := s.CreateProposal(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
				Options: map[string]interface{}{"filter": tc.filter},
			})
			require.NoError(t, err)

			ok, err := s.ShouldAutoRespondToProposal(ctx, &issuecredential.Record{}, issuecredential.AutoRespondInput{
				Proposal: proposal,
				Offer:    offer,
			})
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
		})
	}

	ok, err := s.ShouldAutoRespondToRequest(ctx, &issuecredential.Record{}, issuecredential.AutoRespondInput{
		Offer: offer,
	})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("offer without definition", func(t *testing.T) {
		_, err := New(WithIssuer(&fakeIssuer{})).CreateOffer(ctx, &issuecredential.Record{},
			issuecredential.FormatCreateInput{})
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})

	t.Run("offer without issuer", func(t *testing.T) {
		_, err := New().CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Options: map[string]interface{}{"cred_def_id": testCredDef},
		})
		require.EqualError(t, err, "anoncreds offer: no prepared offer given and no issuer configured")
	})

	t.Run("issuer failure", func(t *testing.T) {
		_, err := New(WithIssuer(&fakeIssuer{err: errors.New("ledger down")})).CreateOffer(ctx,
			&issuecredential.Record{}, issuecredential.FormatCreateInput{
				Options: map[string]interface{}{"cred_def_id": testCredDef},
			})
		require.EqualError(t, err, "create anoncreds offer: ledger down")
	})

	t.Run("prepared offer fails schema", func(t *testing.T) {
		_, err := New().CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Options: &OfferOptions{Offer: &CredentialOffer{CredDefID: testCredDef, SchemaID: testSchema, Nonce: "x"}},
		})
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})

	t.Run("request without offer", func(t *testing.T) {
		_, err := New(WithHolder(&fakeHolder{})).CreateRequest(ctx, &issuecredential.Record{},
			issuecredential.FormatCreateInput{})
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})

	t.Run("request for another definition", func(t *testing.T) {
		s := New(WithIssuer(&fakeIssuer{}), WithHolder(&fakeHolder{}))
		rec := &issuecredential.Record{}

		offer, err := s.CreateOffer(ctx, rec, issuecredential.FormatCreateInput{
			Options: map[string]interface{}{"cred_def_id": "other"},
		})
		require.NoError(t, err)

		request, err := s.CreateRequest(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Offer: offer,
		})
		require.NoError(t, err)

		rec.SetMetadata(FormatKey, map[string]interface{}{"credentialDefinitionId": testCredDef})
		err = s.ProcessRequest(ctx, rec, request)
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})

	t.Run("attachment of another kind", func(t *testing.T) {
		s := New(WithIssuer(&fakeIssuer{}))

		offer, err := s.CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Options: map[string]interface{}{"cred_def_id": testCredDef},
		})
		require.NoError(t, err)

		err = s.ProcessRequest(ctx, &issuecredential.Record{}, offer)
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})

	t.Run("credential with tampered encoding", func(t *testing.T) {
		s := New()
		credential := &Credential{
			SchemaID:  testSchema,
			CredDefID: testCredDef,
			Values: map[string]AttributeValue{
				"age": {Raw: "28", Encoded: "29"},
			},
			Signature:                 map[string]interface{}{},
			SignatureCorrectnessProof: map[string]interface{}{},
		}

		att, err := s.encode(issuecredential.FormatCreateInput{}, credentialKind, false, credential)
		require.NoError(t, err)

		err = s.ProcessCredential(ctx, &issuecredential.Record{}, att)
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
		require.True(t, strings.Contains(err.Error(), "attribute age"))
	})

	t.Run("credential without values", func(t *testing.T) {
		s := New(WithIssuer(&fakeIssuer{}), WithHolder(&fakeHolder{}))

		offer, err := s.CreateOffer(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Options: map[string]interface{}{"cred_def_id": testCredDef},
		})
		require.NoError(t, err)

		request, err := s.CreateRequest(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Offer: offer,
		})
		require.NoError(t, err)

		_, err = s.CreateCredential(ctx, &issuecredential.Record{}, issuecredential.FormatCreateInput{
			Offer:   offer,
			Request: request,
		})
		require.ErrorIs(t, err, issuecredential.ErrFormatValidation)
	})
}
