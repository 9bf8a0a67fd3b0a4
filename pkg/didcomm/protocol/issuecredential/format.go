/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

//go:generate mockgen -destination=../../../internal/gomocks/didcomm/protocol/issuecredential/mocks.gen.go -self_package mocks -package mocks . FormatService

import (
	"context"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
)

// FormatAttachment pairs a format spec with the attachment it labels.
type FormatAttachment struct {
	Format     Format
	Attachment decorator.Attachment
}

// FormatOptions are caller options keyed by format key.
// The value under a key is handed unchanged to the format service with that key.
type FormatOptions map[string]interface{}

// FormatCreateInput is what a format service gets to build its part of an outbound message.
// Proposal, Offer and Request are the service's own attachments from earlier messages of the
// exchange, nil when that message is absent or carries nothing for the service.
// Preview is the credential preview of the message being built, or of the offer when building a credential.
type FormatCreateInput struct {
	AttachmentID string
	Options      interface{}
	Preview      *PreviewCredential
	Proposal     *FormatAttachment
	Offer        *FormatAttachment
	Request      *FormatAttachment
}

// AutoRespondInput holds the attachments available for an auto-accept decision.
// A nil entry means the message is absent from the exchange or carries nothing for the service.
type AutoRespondInput struct {
	Proposal   *FormatAttachment
	Offer      *FormatAttachment
	Request    *FormatAttachment
	Credential *FormatAttachment
}

// FormatService implements the payload logic of one credential encoding.
// Implementations only touch the record they are given; they never persist or send anything.
type FormatService interface {
	// FormatKey is the stable key callers use to select this format.
	FormatKey() string
	// SupportsFormat reports whether the wire format identifier belongs to this format.
	SupportsFormat(format string) bool
	// SupportsPreview reports whether messages of this format may carry a credential preview.
	SupportsPreview() bool

	CreateProposal(ctx context.Context, rec *Record, in FormatCreateInput) (*FormatAttachment, error)
	ProcessProposal(ctx context.Context, rec *Record, att *FormatAttachment) error
	CreateOffer(ctx context.Context, rec *Record, in FormatCreateInput) (*FormatAttachment, error)
	ProcessOffer(ctx context.Context, rec *Record, att *FormatAttachment) error
	CreateRequest(ctx context.Context, rec *Record, in FormatCreateInput) (*FormatAttachment, error)
	ProcessRequest(ctx context.Context, rec *Record, att *FormatAttachment) error
	CreateCredential(ctx context.Context, rec *Record, in FormatCreateInput) (*FormatAttachment, error)
	ProcessCredential(ctx context.Context, rec *Record, att *FormatAttachment) error

	ShouldAutoRespondToProposal(ctx context.Context, rec *Record, in AutoRespondInput) (bool, error)
	ShouldAutoRespondToOffer(ctx context.Context, rec *Record, in AutoRespondInput) (bool, error)
	ShouldAutoRespondToRequest(ctx context.Context, rec *Record, in AutoRespondInput) (bool, error)
	ShouldAutoRespondToCredential(ctx context.Context, rec *Record, in AutoRespondInput) (bool, error)
}
