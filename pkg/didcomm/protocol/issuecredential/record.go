/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Role is the part a party plays in the exchange.
type Role string

const (
	// RoleIssuer issues the credential.
	RoleIssuer Role = "issuer"
	// RoleHolder receives the credential.
	RoleHolder Role = "holder"
)

// AutoAcceptPolicy decides whether the engine advances a protocol step without caller approval.
type AutoAcceptPolicy string

const (
	// AutoAcceptAlways always auto-advances.
	AutoAcceptAlways AutoAcceptPolicy = "always"
	// AutoAcceptContentApproved auto-advances when every format service and the previews agree.
	AutoAcceptContentApproved AutoAcceptPolicy = "content-approved"
	// AutoAcceptNever never auto-advances.
	AutoAcceptNever AutoAcceptPolicy = "never"
)

// ParseAutoAcceptPolicy parses a policy name. An empty name yields no policy.
func ParseAutoAcceptPolicy(name string) (AutoAcceptPolicy, error) {
	switch p := AutoAcceptPolicy(name); p {
	case "", AutoAcceptAlways, AutoAcceptContentApproved, AutoAcceptNever:
		return p, nil
	default:
		return "", fmt.Errorf("unknown auto-accept policy %q", name)
	}
}

// Record is the durable state of one credential exchange.
// A Record is a value: transitions produce a new Record and never change the prior one.
type Record struct {
	ID               string                 `json:"id"`
	ThreadID         string                 `json:"thread_id"`
	ParentThreadID   string                 `json:"parent_thread_id,omitempty"`
	ConnectionID     string                 `json:"connection_id,omitempty"`
	ProtocolVersion  string                 `json:"protocol_version"`
	State            string                 `json:"state"`
	Role             Role                   `json:"role"`
	AutoAcceptPolicy AutoAcceptPolicy       `json:"auto_accept_policy,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	FormatKeys       []string               `json:"format_keys,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	Revision         int                    `json:"revision"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Terminal reports whether the record reached done or abandoned.
func (r *Record) Terminal() bool {
	return r.State == StateDone || r.State == StateAbandoned
}

// Clone returns a copy of the record that shares no mutable state with r.
func (r *Record) Clone() *Record {
	c := *r
	c.FormatKeys = slices.Clone(r.FormatKeys)
	c.Metadata = cloneMetadata(r.Metadata)

	return &c
}

// SetMetadata stores format-specific derived state under key.
func (r *Record) SetMetadata(key string, value interface{}) {
	if r.Metadata == nil {
		r.Metadata = map[string]interface{}{}
	}

	r.Metadata[key] = value
}

// DecodeMetadata decodes the metadata stored under key into v.
// It reports false when no metadata is stored under key.
func (r *Record) DecodeMetadata(key string, v interface{}) (bool, error) {
	raw, ok := r.Metadata[key]
	if !ok {
		return false, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           v,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return false, fmt.Errorf("new metadata decoder: %w", err)
	}

	if err = decoder.Decode(raw); err != nil {
		return false, fmt.Errorf("decode metadata %q: %w", key, err)
	}

	return true, nil
}

// addFormatKeys records the format keys in use, keeping them sorted and unique.
func (r *Record) addFormatKeys(keys ...string) {
	for _, k := range keys {
		if !slices.Contains(r.FormatKeys, k) {
			r.FormatKeys = append(r.FormatKeys, k)
		}
	}

	slices.Sort(r.FormatKeys)
}

func cloneMetadata(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}

	dst := make(map[string]interface{}, len(src))

	for _, k := range maps.Keys(src) {
		dst[k] = cloneValue(src[k])
	}

	return dst
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMetadata(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}

		return out
	default:
		return v
	}
}
