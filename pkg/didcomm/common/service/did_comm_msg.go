/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	jsonID             = "@id"
	jsonType           = "@type"
	jsonThread         = "~thread"
	jsonThreadID       = "thid"
	jsonParentThreadID = "pthid"
	jsonMetadata       = "_internal_metadata"
)

var (
	// ErrThreadIDNotFound thread id not found error.
	ErrThreadIDNotFound = errors.New("threadID not found")
	// ErrInvalidMessage invalid message error.
	ErrInvalidMessage = errors.New("invalid message")
)

// DIDCommMsgMap did comm msg.
type DIDCommMsgMap map[string]interface{}

// ParseDIDCommMsgMap returns DIDCommMsg with Header.
func ParseDIDCommMsgMap(payload []byte) (DIDCommMsgMap, error) {
	var msg DIDCommMsgMap

	err := json.Unmarshal(payload, &msg)
	if err != nil {
		return nil, fmt.Errorf("invalid payload data format: %w", err)
	}

	return msg, nil
}

// NewDIDCommMsgMap converts a structure to DIDCommMsgMap.
// The structure must have an `@type` field; `@id` is kept as provided.
func NewDIDCommMsgMap(v interface{}) DIDCommMsgMap {
	bits, err := json.Marshal(v)
	if err != nil {
		return DIDCommMsgMap{}
	}

	msg := DIDCommMsgMap{}

	if err = json.Unmarshal(bits, &msg); err != nil {
		return DIDCommMsgMap{}
	}

	return msg
}

// ThreadID returns msg ~thread.thid if there is no ~thread.thid returns msg @id
// message is invalid if ~thread.thid exist and @id is absent.
func (m DIDCommMsgMap) ThreadID() (string, error) {
	if m == nil {
		return "", ErrThreadIDNotFound
	}

	msgID := m.ID()
	thread, ok := m[jsonThread].(map[string]interface{})

	if ok && thread[jsonThreadID] != nil {
		thID, ok := thread[jsonThreadID].(string)
		if ok && thID != "" {
			// if message has ~thread.thid but @id is absent this is invalid message
			if msgID == "" {
				return "", ErrInvalidMessage
			}

			return thID, nil
		}
	}

	if msgID != "" {
		return msgID, nil
	}

	return "", ErrThreadIDNotFound
}

// Metadata returns message metadata.
func (m DIDCommMsgMap) Metadata() map[string]interface{} {
	if m[jsonMetadata] == nil {
		return map[string]interface{}{}
	}

	metadata, ok := m[jsonMetadata].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}

	return metadata
}

// Type returns the message type.
func (m DIDCommMsgMap) Type() string {
	if m == nil || m[jsonType] == nil {
		return ""
	}

	res, ok := m[jsonType].(string)
	if !ok {
		return ""
	}

	return res
}

// ParentThreadID returns the message parent threadID.
func (m DIDCommMsgMap) ParentThreadID() string {
	if m == nil || m[jsonThread] == nil {
		return ""
	}

	if thread, ok := m[jsonThread].(map[string]interface{}); ok && thread != nil {
		if pthID, ok := thread[jsonParentThreadID].(string); ok && pthID != "" {
			return pthID
		}
	}

	return ""
}

// ID returns the message id.
func (m DIDCommMsgMap) ID() string {
	if m == nil || m[jsonID] == nil {
		return ""
	}

	res, ok := m[jsonID].(string)
	if !ok {
		return ""
	}

	return res
}

// SetID sets the message id.
func (m DIDCommMsgMap) SetID(id string) {
	if m == nil {
		return
	}

	m[jsonID] = id
}

// SetThread sets the message thread and parent thread ids.
func (m DIDCommMsgMap) SetThread(thid, pthid string) {
	if m == nil || thid == "" {
		return
	}

	thread := map[string]interface{}{jsonThreadID: thid}
	if pthid != "" {
		thread[jsonParentThreadID] = pthid
	}

	m[jsonThread] = thread
}

// Decode converts message to struct.
func (m DIDCommMsgMap) Decode(v interface{}) error {
	bits, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return json.Unmarshal(bits, v)
}

// Clone copies first level keys-values into another map (DIDCommMsgMap).
func (m DIDCommMsgMap) Clone() DIDCommMsgMap {
	if m == nil {
		return nil
	}

	msg := DIDCommMsgMap{}
	for k, v := range m {
		msg[k] = v
	}

	return msg
}
