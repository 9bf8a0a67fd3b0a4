/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

// CreateProposalParams are the inputs of a holder-initiated exchange.
type CreateProposalParams struct {
	// ConnectionID is empty for connection-less exchanges.
	ConnectionID     string
	ParentThreadID   string
	Formats          FormatOptions
	Preview          *PreviewCredential
	Comment          string
	AutoAcceptPolicy AutoAcceptPolicy
}

// CreateOfferParams are the inputs of an issuer-initiated exchange.
type CreateOfferParams struct {
	// ConnectionID is empty for out-of-band offers.
	ConnectionID     string
	ParentThreadID   string
	Formats          FormatOptions
	Preview          *PreviewCredential
	Comment          string
	AutoAcceptPolicy AutoAcceptPolicy
}

// CreateRequestParams are the inputs of an exchange the holder starts with a request.
type CreateRequestParams struct {
	ConnectionID     string
	ParentThreadID   string
	Formats          FormatOptions
	Comment          string
	AutoAcceptPolicy AutoAcceptPolicy
}

// AcceptProposalParams answer a received proposal with an offer.
// Formats and Preview default to those of the proposal.
type AcceptProposalParams struct {
	RecordID string
	Formats  FormatOptions
	Preview  *PreviewCredential
	Comment  string
}

// NegotiateProposalParams answer a received proposal with a counter-offer.
type NegotiateProposalParams struct {
	RecordID string
	Formats  FormatOptions
	Preview  *PreviewCredential
	Comment  string
}

// AcceptOfferParams answer a received offer with a request.
type AcceptOfferParams struct {
	RecordID string
	Formats  FormatOptions
	Comment  string
}

// NegotiateOfferParams answer a received offer with a counter-proposal.
type NegotiateOfferParams struct {
	RecordID string
	Formats  FormatOptions
	Preview  *PreviewCredential
	Comment  string
}

// AcceptRequestParams answer a received request with the credential.
type AcceptRequestParams struct {
	RecordID string
	Formats  FormatOptions
	Comment  string
}

// AcceptCredentialParams acknowledge a received credential.
type AcceptCredentialParams struct {
	RecordID string
}
