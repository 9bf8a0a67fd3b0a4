/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	command "github.com/hyperledger/aries-issuecredential-go/pkg/controller/command/issuecredential"
	protocol "github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
)

// issueCredentialSendProposalRequest model
//
// This is used for operation to send a proposal
//
// swagger:parameters issueCredentialSendProposal
type issueCredentialSendProposalRequest struct { // nolint: unused,deadcode
	// in: body
	Params command.SendProposalArgs
}

// issueCredentialSendOfferRequest model
//
// This is used for operation to send an offer
//
// swagger:parameters issueCredentialSendOffer
type issueCredentialSendOfferRequest struct { // nolint: unused,deadcode
	// in: body
	Params command.SendOfferArgs
}

// issueCredentialSendRequestRequest model
//
// This is used for operation to send a request
//
// swagger:parameters issueCredentialSendRequest
type issueCredentialSendRequestRequest struct { // nolint: unused,deadcode
	// in: body
	Params command.SendRequestArgs
}

// issueCredentialRespondRequest model
//
// This is used for the operations answering the last message of an exchange
//
// swagger:parameters issueCredentialAcceptProposal issueCredentialNegotiateProposal issueCredentialAcceptOffer
// swagger:parameters issueCredentialNegotiateOffer issueCredentialAcceptRequest issueCredentialAcceptCredential
type issueCredentialRespondRequest struct { // nolint: unused,deadcode
	// Exchange record ID
	//
	// in: path
	// required: true
	ID string `json:"id"`

	// in: body
	Params struct {
		Formats protocol.FormatOptions      `json:"formats,omitempty"`
		Preview *protocol.PreviewCredential `json:"credential_preview,omitempty"`
		Comment string                      `json:"comment,omitempty"`
	}
}

// issueCredentialProblemReportRequest model
//
// This is used for operation to report a problem or to abandon an exchange
//
// swagger:parameters issueCredentialProblemReport issueCredentialAbandon
type issueCredentialProblemReportRequest struct { // nolint: unused,deadcode
	// Exchange record ID
	//
	// in: path
	// required: true
	ID string `json:"id"`

	// in: body
	Params struct {
		Description string `json:"description"`
	}
}

// issueCredentialHandleInboundRequest model
//
// This is used for operation to hand an inbound message to the engine
//
// swagger:parameters issueCredentialHandleInbound
type issueCredentialHandleInboundRequest struct { // nolint: unused,deadcode
	// in: body
	Params command.HandleInboundArgs
}

// issueCredentialRecordsRequest model
//
// swagger:parameters issueCredentialRecords
type issueCredentialRecordsRequest struct { // nolint: unused,deadcode
	// in: query
	ThreadID string `json:"thread_id"`
	// in: query
	ConnectionID string `json:"connection_id"`
	// in: query
	State string `json:"state"`
	// in: query
	Role string `json:"role"`
	// in: query
	FormatKey string `json:"format_key"`
	// in: query
	ActiveOnly bool `json:"active_only"`
}

// issueCredentialRecordRequest model
//
// swagger:parameters issueCredentialRecord issueCredentialFormatData
type issueCredentialRecordRequest struct { // nolint: unused,deadcode
	// Exchange record ID
	//
	// in: path
	// required: true
	ID string `json:"id"`
}

// issueCredentialExchangeResponse model
//
// The new state of the exchange and the message to send to the peer
//
// swagger:response issueCredentialExchangeResponse
type issueCredentialExchangeResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.ExchangeResponse
}

// issueCredentialProblemReportResponse model
//
// swagger:response issueCredentialProblemReportResponse
type issueCredentialProblemReportResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.ProblemReportResponse
}

// issueCredentialHandleInboundResponse model
//
// swagger:response issueCredentialHandleInboundResponse
type issueCredentialHandleInboundResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.HandleInboundResponse
}

// issueCredentialRecordsResponse model
//
// swagger:response issueCredentialRecordsResponse
type issueCredentialRecordsResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.RecordsResponse
}

// issueCredentialRecordResponse model
//
// swagger:response issueCredentialRecordResponse
type issueCredentialRecordResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.RecordResponse
}

// issueCredentialFormatDataResponse model
//
// swagger:response issueCredentialFormatDataResponse
type issueCredentialFormatDataResponse struct { // nolint: unused,deadcode
	// in: body
	Body command.FormatDataResponse
}
