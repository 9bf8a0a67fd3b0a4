/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import "errors"

var (
	// ErrUnsupportedFormat no format service could be resolved for a message or caller request.
	ErrUnsupportedFormat = errors.New("no supported credential format")
	// ErrFormatValidation a format service rejected attachment content.
	ErrFormatValidation = errors.New("credential format validation failed")
	// ErrMissingConnection the operation requires an exchange bound to a connection.
	ErrMissingConnection = errors.New("exchange is not bound to a connection")
	// ErrInvalidState the message or operation is not legal in the record's current state.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrVersionMismatch the message belongs to a different protocol generation than the record.
	ErrVersionMismatch = errors.New("protocol version mismatch")
	// ErrContinuity the message arrived on a channel that does not match the exchange.
	ErrContinuity = errors.New("message continuity check failed")
	// ErrRecordNotFound no exchange record matched.
	ErrRecordNotFound = errors.New("exchange record not found")
	// ErrAmbiguousRecord more than one exchange record matched a single-record query.
	ErrAmbiguousRecord = errors.New("more than one exchange record matched")
	// ErrRecordConflict the record changed since it was read.
	ErrRecordConflict = errors.New("exchange record was modified concurrently")
	// ErrMessageNotFound no agent message is stored for the record and message type.
	ErrMessageNotFound = errors.New("agent message not found")
	// ErrInvalidMessage the inbound message could not be decoded.
	ErrInvalidMessage = errors.New("invalid message")
)
