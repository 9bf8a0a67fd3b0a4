/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/multiformats/go-multibase"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
)

const (
	recordKeyPrefix  = "record_"
	messageKeyPrefix = "message_"

	tagRecord          = "record"
	tagThreadID        = "thread_id"
	tagConnectionID    = "connection_id"
	tagState           = "state"
	tagRole            = "role"
	tagFormatPrefix    = "format_"
	tagMessageRecordID = "message_record_id"
	tagMessageType     = "message_type"
)

// MessageRole tells whether a stored message was sent or received by this agent.
type MessageRole string

const (
	// MessageSent the agent sent the message.
	MessageSent MessageRole = "sent"
	// MessageReceived the agent received the message.
	MessageReceived MessageRole = "received"
)

// StoredMessage is a protocol message persisted against an exchange record.
// Only the latest message of each type is kept per record.
type StoredMessage struct {
	RecordID    string                `json:"record_id"`
	MessageType string                `json:"message_type"`
	Role        MessageRole           `json:"role"`
	Revision    int                   `json:"revision"`
	MyDID       string                `json:"my_did,omitempty"`
	TheirDID    string                `json:"their_did,omitempty"`
	Message     service.DIDCommMsgMap `json:"message"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Query selects exchange records. Empty fields match anything.
type Query struct {
	ThreadID     string
	ConnectionID string
	State        string
	Role         Role
	FormatKey    string
	// ActiveOnly skips records in a terminal state.
	ActiveOnly bool
}

func (q *Query) matches(r *Record) bool {
	switch {
	case q.ThreadID != "" && r.ThreadID != q.ThreadID,
		q.ConnectionID != "" && r.ConnectionID != q.ConnectionID,
		q.State != "" && r.State != q.State,
		q.Role != "" && r.Role != q.Role,
		q.ActiveOnly && r.Terminal():
		return false
	}

	if q.FormatKey == "" {
		return true
	}

	for _, k := range r.FormatKeys {
		if k == q.FormatKey {
			return true
		}
	}

	return false
}

// Change is one committed protocol step: the new record value and the message that caused it.
type Change struct {
	// Prior is the record the step started from, nil when the step creates the record.
	Prior   *Record
	Record  *Record
	Message *StoredMessage
}

// Repository persists exchange records and their messages in an aries storage store.
type Repository struct {
	store storage.Store
}

// NewRepository opens the protocol store of the provider.
func NewRepository(p storage.Provider) (*Repository, error) {
	store, err := p.OpenStore(Name)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", Name, err)
	}

	err = p.SetStoreConfig(Name, storage.StoreConfiguration{TagNames: []string{
		tagRecord, tagThreadID, tagConnectionID, tagState, tagRole, tagMessageRecordID, tagMessageType,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store config: %w", err)
	}

	return &Repository{store: store}, nil
}

// Save stores a new record.
func (r *Repository) Save(rec *Record) error {
	return r.Commit(&Change{Record: rec})
}

// Update stores rec over prior. It fails with ErrRecordConflict when the stored record is not prior.
func (r *Repository) Update(prior, rec *Record) error {
	return r.Commit(&Change{Prior: prior, Record: rec})
}

// Commit writes the record and its message in a single batch.
func (r *Repository) Commit(ch *Change) error {
	if ch.Record == nil {
		return errors.New("commit: record is nil")
	}

	if err := r.checkRevision(ch.Prior, ch.Record); err != nil {
		return err
	}

	recBytes, err := json.Marshal(ch.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	ops := []storage.Operation{{
		Key:   recordKeyPrefix + ch.Record.ID,
		Value: recBytes,
		Tags:  ch.Record.Tags(),
	}}

	if ch.Message != nil {
		op, err := messageOperation(ch.Message)
		if err != nil {
			return err
		}

		ops = append(ops, op)
	}

	if err = r.store.Batch(ops); err != nil {
		return fmt.Errorf("commit record %s: %w", ch.Record.ID, err)
	}

	return nil
}

func (r *Repository) checkRevision(prior, rec *Record) error {
	stored, err := r.GetByID(rec.ID)

	switch {
	case prior == nil && err == nil:
		return fmt.Errorf("%w: record %s already exists", ErrRecordConflict, rec.ID)
	case prior == nil && errors.Is(err, ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case stored.Revision != prior.Revision:
		return fmt.Errorf("%w: record %s is at revision %d, expected %d",
			ErrRecordConflict, rec.ID, stored.Revision, prior.Revision)
	}

	return nil
}

// GetByID returns the record with the given id.
func (r *Repository) GetByID(id string) (*Record, error) {
	src, err := r.store.Get(recordKeyPrefix + id)
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}

	rec := &Record{}
	if err = json.Unmarshal(src, rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}

	return rec, nil
}

// Query returns the records matching q.
func (r *Repository) Query(q *Query) ([]*Record, error) {
	iter, err := r.store.Query(q.expression())
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	defer storage.Close(iter, logger)

	var records []*Record

	for {
		ok, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("query records: %w", err)
		}

		if !ok {
			break
		}

		src, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("query records: %w", err)
		}

		rec := &Record{}
		if err = json.Unmarshal(src, rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}

		if q.matches(rec) {
			records = append(records, rec)
		}
	}

	return records, nil
}

// FindSingleByQuery returns the single record matching q, nil when none matches.
func (r *Repository) FindSingleByQuery(q *Query) (*Record, error) {
	records, err := r.Query(q)
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%w: %d records for thread %q", ErrAmbiguousRecord, len(records), q.ThreadID)
	}
}

// GetSingleByQuery returns the single record matching q.
func (r *Repository) GetSingleByQuery(q *Query) (*Record, error) {
	rec, err := r.FindSingleByQuery(q)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return nil, fmt.Errorf("%w: thread %q", ErrRecordNotFound, q.ThreadID)
	}

	return rec, nil
}

// SaveAgentMessage stores msg, replacing an earlier message of the same type for the record.
func (r *Repository) SaveAgentMessage(msg *StoredMessage) error {
	op, err := messageOperation(msg)
	if err != nil {
		return err
	}

	if err = r.store.Put(op.Key, op.Value, op.Tags...); err != nil {
		return fmt.Errorf("save message %s: %w", msg.MessageType, err)
	}

	return nil
}

// FindAgentMessage returns the message of the given type stored for the record, nil when none is stored.
func (r *Repository) FindAgentMessage(recordID, msgType string) (*StoredMessage, error) {
	src, err := r.store.Get(messageKey(recordID, msgType))
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", msgType, err)
	}

	msg := &StoredMessage{}
	if err = json.Unmarshal(src, msg); err != nil {
		return nil, fmt.Errorf("unmarshal message %s: %w", msgType, err)
	}

	return msg, nil
}

// GetAgentMessage returns the message of the given type stored for the record.
func (r *Repository) GetAgentMessage(recordID, msgType string) (*StoredMessage, error) {
	msg, err := r.FindAgentMessage(recordID, msgType)
	if err != nil {
		return nil, err
	}

	if msg == nil {
		return nil, fmt.Errorf("%w: %s for record %s", ErrMessageNotFound, msgType, recordID)
	}

	return msg, nil
}

// lastMessage returns the latest message the agent sent or received for the record.
func (r *Repository) lastMessage(recordID string, role MessageRole) (*StoredMessage, error) {
	var last *StoredMessage

	for _, msgType := range messageTypesV2 {
		msg, err := r.FindAgentMessage(recordID, msgType)
		if err != nil {
			return nil, err
		}

		if msg != nil && msg.Role == role && (last == nil || msg.Revision > last.Revision) {
			last = msg
		}
	}

	return last, nil
}

// Tags returns the queryable tags of the record.
func (r *Record) Tags() []storage.Tag {
	tags := []storage.Tag{
		{Name: tagRecord},
		{Name: tagThreadID, Value: encodeTagValue(r.ThreadID)},
		{Name: tagState, Value: encodeTagValue(r.State)},
		{Name: tagRole, Value: encodeTagValue(string(r.Role))},
	}

	if r.ConnectionID != "" {
		tags = append(tags, storage.Tag{Name: tagConnectionID, Value: encodeTagValue(r.ConnectionID)})
	}

	for _, k := range r.FormatKeys {
		tags = append(tags, storage.Tag{Name: tagFormatPrefix + k})
	}

	return tags
}

// expression picks the most selective tag of the query; the remaining fields are matched on decoded records.
func (q *Query) expression() string {
	switch {
	case q.ThreadID != "":
		return tagThreadID + ":" + encodeTagValue(q.ThreadID)
	case q.ConnectionID != "":
		return tagConnectionID + ":" + encodeTagValue(q.ConnectionID)
	case q.State != "":
		return tagState + ":" + encodeTagValue(q.State)
	case q.Role != "":
		return tagRole + ":" + encodeTagValue(string(q.Role))
	default:
		return tagRecord
	}
}

func messageOperation(msg *StoredMessage) (storage.Operation, error) {
	bits, err := json.Marshal(msg)
	if err != nil {
		return storage.Operation{}, fmt.Errorf("marshal message %s: %w", msg.MessageType, err)
	}

	return storage.Operation{
		Key:   messageKey(msg.RecordID, msg.MessageType),
		Value: bits,
		Tags: []storage.Tag{
			{Name: tagMessageRecordID, Value: encodeTagValue(msg.RecordID)},
			{Name: tagMessageType, Value: encodeTagValue(msg.MessageType)},
		},
	}, nil
}

func messageKey(recordID, msgType string) string {
	return messageKeyPrefix + recordID + "_" + strings.TrimPrefix(msgType, SpecV2)
}

// nolint: gochecknoglobals
var tagEncoder = multibase.MustNewEncoder(multibase.Base58BTC)

// encodeTagValue makes v safe as a tag value: stores reserve ':' as the query separator.
func encodeTagValue(v string) string {
	return tagEncoder.Encode([]byte(v))
}
