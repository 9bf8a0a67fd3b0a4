/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import "github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"

// ProposeCredentialV2 is an optional message sent by the potential Holder to the Issuer
// to initiate the protocol or in response to a offer-credential message when the Holder
// wants some adjustments made to the credential data offered by Issuer.
type ProposeCredentialV2 struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	// Comment is an optional field that provides human readable information about this Credential Proposal.
	Comment string `json:"comment,omitempty"`
	// CredentialProposal is an optional object that represents
	// the credential data that the Prover wants to receive.
	CredentialProposal *PreviewCredential `json:"credential_proposal,omitempty"`
	// Formats contains an entry for each filters~attach array entry, providing the the value of the attachment @id
	// and the verifiable credential format and version of the attachment.
	Formats []Format `json:"formats,omitempty"`
	// FiltersAttach is an array of attachments that further define the credential being proposed.
	// This might be used to clarify which formats or format versions are wanted.
	FiltersAttach []decorator.Attachment `json:"filters~attach,omitempty"`
}

// Format contains the value of the attachment @id and the verifiable credential format of the attachment.
type Format struct {
	AttachID string `json:"attach_id,omitempty"`
	Format   string `json:"format,omitempty"`
}

// OfferCredentialV2 is a message sent by the Issuer to the potential Holder,
// describing the credential they intend to offer.
type OfferCredentialV2 struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	// Comment is an optional field that provides human readable information about this Credential Offer,
	// so the offer can be evaluated by human judgment.
	Comment string `json:"comment,omitempty"`
	// CredentialPreview represents the credential data that Issuer is willing to issue.
	CredentialPreview *PreviewCredential `json:"credential_preview,omitempty"`
	// Formats contains an entry for each offers~attach array entry, providing the the value
	// of the attachment @id and the verifiable credential format and version of the attachment.
	Formats []Format `json:"formats,omitempty"`
	// OffersAttach is a slice of attachments that further define the credential being offered.
	OffersAttach []decorator.Attachment `json:"offers~attach,omitempty"`
}

// RequestCredentialV2 is a message sent by the potential Holder to the Issuer,
// to request the issuance of a credential. Where circumstances do not require
// a preceding Offer Credential message this message initiates the protocol.
type RequestCredentialV2 struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	// Comment is an optional field that provides human readable information about this Credential Request.
	Comment string `json:"comment,omitempty"`
	// Formats contains an entry for each requests~attach array entry, providing the the value
	// of the attachment @id and the verifiable credential format and version of the attachment.
	Formats []Format `json:"formats,omitempty"`
	// RequestsAttach is a slice of attachments defining the requested formats for the credential.
	RequestsAttach []decorator.Attachment `json:"requests~attach,omitempty"`
}

// IssueCredentialV2 contains as attached payload the credentials being issued and is
// sent in response to a valid Request Credential message.
type IssueCredentialV2 struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	// Comment is an optional field that provides human readable information about this Credential.
	Comment string `json:"comment,omitempty"`
	// Formats contains an entry for each credentials~attach array entry, providing the value
	// of the attachment @id and the verifiable credential format and version of the attachment.
	Formats []Format `json:"formats,omitempty"`
	// CredentialsAttach is a slice of attachments containing the issued credentials.
	CredentialsAttach []decorator.Attachment `json:"credentials~attach,omitempty"`
}

// AckV2 acknowledges receipt of the issued credential.
type AckV2 struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Status string            `json:"status,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
}

// ProblemReportV2 reports a problem that makes the exchange impossible to continue.
type ProblemReportV2 struct {
	ID          string               `json:"@id,omitempty"`
	Type        string               `json:"@type,omitempty"`
	Thread      *decorator.Thread    `json:"~thread,omitempty"`
	Description ProblemReportSubject `json:"description"`
}

// ProblemReportSubject is the machine and human readable reason of a problem report.
type ProblemReportSubject struct {
	Code string `json:"code"`
	En   string `json:"en,omitempty"`
}

// PreviewCredential is used to construct a preview of the data for the credential that is to be issued.
type PreviewCredential struct {
	Type       string      `json:"@type,omitempty"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute describes an attribute for a Preview Credential.
type Attribute struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value,omitempty"`
}
