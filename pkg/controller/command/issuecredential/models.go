/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
	protocol "github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
)

// SendProposalArgs model
//
// This is used for starting an exchange with a proposal.
type SendProposalArgs struct {
	// ConnectionID is empty for connection-less exchanges.
	ConnectionID   string `json:"connection_id,omitempty"`
	ParentThreadID string `json:"parent_thread_id,omitempty"`
	// Formats are the format options keyed by format key, e.g. "ldproof".
	Formats    map[string]interface{}      `json:"formats"`
	Preview    *protocol.PreviewCredential `json:"credential_preview,omitempty"`
	Comment    string                      `json:"comment,omitempty"`
	AutoAccept string                      `json:"auto_accept,omitempty"`
}

// SendOfferArgs model
//
// This is used for starting an exchange with an offer.
type SendOfferArgs struct {
	// ConnectionID is empty for out-of-band offers.
	ConnectionID   string                      `json:"connection_id,omitempty"`
	ParentThreadID string                      `json:"parent_thread_id,omitempty"`
	Formats        map[string]interface{}      `json:"formats"`
	Preview        *protocol.PreviewCredential `json:"credential_preview,omitempty"`
	Comment        string                      `json:"comment,omitempty"`
	AutoAccept     string                      `json:"auto_accept,omitempty"`
}

// SendRequestArgs model
//
// This is used for starting an exchange with a request.
type SendRequestArgs struct {
	ConnectionID   string                 `json:"connection_id"`
	ParentThreadID string                 `json:"parent_thread_id,omitempty"`
	Formats        map[string]interface{} `json:"formats"`
	Comment        string                 `json:"comment,omitempty"`
	AutoAccept     string                 `json:"auto_accept,omitempty"`
}

// RespondArgs model
//
// This is used for answering the last message of an exchange. Formats and preview are optional
// and default to those of the message being answered.
type RespondArgs struct {
	RecordID string                      `json:"record_id"`
	Formats  map[string]interface{}      `json:"formats,omitempty"`
	Preview  *protocol.PreviewCredential `json:"credential_preview,omitempty"`
	Comment  string                      `json:"comment,omitempty"`
}

// RecordArgs model
//
// This is used for operations on a single exchange record.
type RecordArgs struct {
	RecordID string `json:"record_id"`
}

// ProblemReportArgs model
//
// This is used for building a problem report, or abandoning an exchange with a reason.
type ProblemReportArgs struct {
	RecordID    string `json:"record_id"`
	Description string `json:"description"`
}

// HandleInboundArgs model
//
// This is used for handing an inbound protocol message to the engine.
type HandleInboundArgs struct {
	Message      service.DIDCommMsgMap `json:"message"`
	ConnectionID string                `json:"connection_id,omitempty"`
	MyDID        string                `json:"my_did,omitempty"`
	TheirDID     string                `json:"their_did,omitempty"`
}

// RecordsArgs model
//
// This is used for listing exchange records. Empty fields match anything.
type RecordsArgs struct {
	ThreadID     string `json:"thread_id,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
	State        string `json:"state,omitempty"`
	Role         string `json:"role,omitempty"`
	FormatKey    string `json:"format_key,omitempty"`
	ActiveOnly   bool   `json:"active_only,omitempty"`
}

// ExchangeResponse model
//
// Represents the record after an outbound step and the message to deliver to the peer.
type ExchangeResponse struct {
	Record  *protocol.Record      `json:"record"`
	Message service.DIDCommMsgMap `json:"message"`
}

// ProblemReportResponse model
//
// Represents a problem report to deliver to the peer.
type ProblemReportResponse struct {
	Message *protocol.ProblemReportV2 `json:"message"`
}

// HandleInboundResponse model
//
// Represents the automatic reply to an inbound message, if any.
type HandleInboundResponse struct {
	Reply service.DIDCommMsgMap `json:"reply,omitempty"`
}

// RecordsResponse model
//
// Represents a list of exchange records.
type RecordsResponse struct {
	Records []*protocol.Record `json:"records"`
}

// RecordResponse model
//
// Represents a single exchange record.
type RecordResponse struct {
	Record *protocol.Record `json:"record"`
}

// FormatDataResponse model
//
// Represents the decoded attachments of an exchange.
type FormatDataResponse struct {
	FormatData *protocol.FormatData `json:"format_data"`
}
