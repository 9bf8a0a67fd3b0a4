/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
)

// createArgs are the caller inputs for building one outbound message.
type createArgs struct {
	options FormatOptions
	comment string
	preview *PreviewCredential
	// earlier messages of the exchange, nil when absent
	proposal *ProposeCredentialV2
	offer    *OfferCredentialV2
	request  *RequestCredentialV2
}

type createFunc func(FormatService) func(context.Context, *Record, FormatCreateInput) (*FormatAttachment, error)

type processFunc func(FormatService) func(context.Context, *Record, *FormatAttachment) error

// Coordinator fans message creation and processing out to the format services of a message.
type Coordinator struct {
	newID func() string
}

// NewCoordinator returns a format coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{newID: uuid.NewString}
}

// CreateProposal builds a propose-credential message from the given format services.
func (c *Coordinator) CreateProposal(ctx context.Context, services []FormatService, rec *Record,
	args *createArgs) (*ProposeCredentialV2, error) {
	formats, attachments, err := c.create(ctx, services, rec, args,
		func(svc FormatService) func(context.Context, *Record, FormatCreateInput) (*FormatAttachment, error) {
			return svc.CreateProposal
		})
	if err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	preview, err := previewFor(services, args.preview)
	if err != nil {
		return nil, err
	}

	return &ProposeCredentialV2{
		ID:                 c.newID(),
		Type:               ProposeCredentialMsgTypeV2,
		Thread:             threadOf(rec),
		Comment:            args.comment,
		CredentialProposal: preview,
		Formats:            formats,
		FiltersAttach:      attachments,
	}, nil
}

// CreateOffer builds an offer-credential message from the given format services.
func (c *Coordinator) CreateOffer(ctx context.Context, services []FormatService, rec *Record,
	args *createArgs) (*OfferCredentialV2, error) {
	formats, attachments, err := c.create(ctx, services, rec, args,
		func(svc FormatService) func(context.Context, *Record, FormatCreateInput) (*FormatAttachment, error) {
			return svc.CreateOffer
		})
	if err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	preview, err := previewFor(services, args.preview)
	if err != nil {
		return nil, err
	}

	return &OfferCredentialV2{
		ID:                c.newID(),
		Type:              OfferCredentialMsgTypeV2,
		Thread:            threadOf(rec),
		Comment:           args.comment,
		CredentialPreview: preview,
		Formats:           formats,
		OffersAttach:      attachments,
	}, nil
}

// CreateRequest builds a request-credential message from the given format services.
func (c *Coordinator) CreateRequest(ctx context.Context, services []FormatService, rec *Record,
	args *createArgs) (*RequestCredentialV2, error) {
	formats, attachments, err := c.create(ctx, services, rec, args,
		func(svc FormatService) func(context.Context, *Record, FormatCreateInput) (*FormatAttachment, error) {
			return svc.CreateRequest
		})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return &RequestCredentialV2{
		ID:             c.newID(),
		Type:           RequestCredentialMsgTypeV2,
		Thread:         threadOf(rec),
		Comment:        args.comment,
		Formats:        formats,
		RequestsAttach: attachments,
	}, nil
}

// CreateCredential builds an issue-credential message from the given format services.
func (c *Coordinator) CreateCredential(ctx context.Context, services []FormatService, rec *Record,
	args *createArgs) (*IssueCredentialV2, error) {
	formats, attachments, err := c.create(ctx, services, rec, args,
		func(svc FormatService) func(context.Context, *Record, FormatCreateInput) (*FormatAttachment, error) {
			return svc.CreateCredential
		})
	if err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	return &IssueCredentialV2{
		ID:                c.newID(),
		Type:              IssueCredentialMsgTypeV2,
		Thread:            threadOf(rec),
		Comment:           args.comment,
		Formats:           formats,
		CredentialsAttach: attachments,
	}, nil
}

// ProcessProposal hands every format service its attachment of the proposal.
func (c *Coordinator) ProcessProposal(ctx context.Context, rec *Record, services []FormatService,
	msg *ProposeCredentialV2) error {
	return c.process(ctx, rec, services, msg.Formats, msg.FiltersAttach,
		func(svc FormatService) func(context.Context, *Record, *FormatAttachment) error {
			return svc.ProcessProposal
		})
}

// ProcessOffer hands every format service its attachment of the offer.
func (c *Coordinator) ProcessOffer(ctx context.Context, rec *Record, services []FormatService,
	msg *OfferCredentialV2) error {
	return c.process(ctx, rec, services, msg.Formats, msg.OffersAttach,
		func(svc FormatService) func(context.Context, *Record, *FormatAttachment) error {
			return svc.ProcessOffer
		})
}

// ProcessRequest hands every format service its attachment of the request.
func (c *Coordinator) ProcessRequest(ctx context.Context, rec *Record, services []FormatService,
	msg *RequestCredentialV2) error {
	return c.process(ctx, rec, services, msg.Formats, msg.RequestsAttach,
		func(svc FormatService) func(context.Context, *Record, *FormatAttachment) error {
			return svc.ProcessRequest
		})
}

// ProcessCredential hands every format service its attachment of the issued credential.
func (c *Coordinator) ProcessCredential(ctx context.Context, rec *Record, services []FormatService,
	msg *IssueCredentialV2) error {
	return c.process(ctx, rec, services, msg.Formats, msg.CredentialsAttach,
		func(svc FormatService) func(context.Context, *Record, *FormatAttachment) error {
			return svc.ProcessCredential
		})
}

func (c *Coordinator) create(ctx context.Context, services []FormatService, rec *Record, args *createArgs,
	fn createFunc) ([]Format, []decorator.Attachment, error) {
	if len(services) == 0 {
		return nil, nil, ErrUnsupportedFormat
	}

	formats := make([]Format, 0, len(services))
	attachments := make([]decorator.Attachment, 0, len(services))

	for _, svc := range services {
		in := FormatCreateInput{
			AttachmentID: c.newID(),
			Options:      args.options[svc.FormatKey()],
			Preview:      args.preview,
		}

		if in.Preview == nil && args.offer != nil {
			in.Preview = args.offer.CredentialPreview
		}

		var err error

		if args.proposal != nil {
			in.Proposal, err = FindAttachmentForService(svc, args.proposal.Formats, args.proposal.FiltersAttach)
		}

		if err == nil && args.offer != nil {
			in.Offer, err = FindAttachmentForService(svc, args.offer.Formats, args.offer.OffersAttach)
		}

		if err == nil && args.request != nil {
			in.Request, err = FindAttachmentForService(svc, args.request.Formats, args.request.RequestsAttach)
		}

		if err != nil {
			return nil, nil, err
		}

		att, err := fn(svc)(ctx, rec, in)
		if err != nil {
			return nil, nil, fmt.Errorf("format %s: %w", svc.FormatKey(), err)
		}

		if att == nil {
			return nil, nil, fmt.Errorf("format %s: no attachment created", svc.FormatKey())
		}

		att.Format.AttachID = in.AttachmentID
		att.Attachment.ID = in.AttachmentID

		formats = append(formats, att.Format)
		attachments = append(attachments, att.Attachment)
	}

	rec.addFormatKeys(formatKeys(services)...)

	return formats, attachments, nil
}

func (c *Coordinator) process(ctx context.Context, rec *Record, services []FormatService, formats []Format,
	attachments []decorator.Attachment, fn processFunc) error {
	if err := checkAttachmentIDs(formats, attachments); err != nil {
		return err
	}

	for _, svc := range services {
		att, err := GetAttachmentForService(svc, formats, attachments)
		if err != nil {
			return err
		}

		if err = fn(svc)(ctx, rec, att); err != nil {
			return fmt.Errorf("format %s: %w", svc.FormatKey(), err)
		}
	}

	rec.addFormatKeys(formatKeys(services)...)

	return nil
}

// GetAttachmentForService returns the attachment of the first format spec the service supports.
// It fails when no spec matches the service or the matching attachment is missing.
func GetAttachmentForService(svc FormatService, formats []Format,
	attachments []decorator.Attachment) (*FormatAttachment, error) {
	att, err := FindAttachmentForService(svc, formats, attachments)
	if err != nil {
		return nil, err
	}

	if att == nil {
		return nil, fmt.Errorf("%w: no %s attachment in message", ErrInvalidMessage, svc.FormatKey())
	}

	return att, nil
}

// FindAttachmentForService is GetAttachmentForService that returns nil when no format spec matches the service.
func FindAttachmentForService(svc FormatService, formats []Format,
	attachments []decorator.Attachment) (*FormatAttachment, error) {
	for _, f := range formats {
		if !svc.SupportsFormat(f.Format) {
			continue
		}

		for i := range attachments {
			if attachments[i].ID == f.AttachID {
				return &FormatAttachment{Format: f, Attachment: attachments[i]}, nil
			}
		}

		return nil, fmt.Errorf("%w: attachment %q of format %s is missing", ErrInvalidMessage, f.AttachID, f.Format)
	}

	return nil, nil
}

// DecodeAttachment decodes the attachment content as structured data.
func DecodeAttachment(att *decorator.Attachment) (interface{}, error) {
	bits, err := att.Data.Fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %s: %w", att.ID, err)
	}

	var v interface{}

	if err = json.Unmarshal(bits, &v); err != nil {
		return nil, fmt.Errorf("decode attachment %s: %w", att.ID, err)
	}

	return v, nil
}

func checkAttachmentIDs(formats []Format, attachments []decorator.Attachment) error {
	seen := make(map[string]bool, len(formats))

	for _, f := range formats {
		if seen[f.AttachID] {
			return fmt.Errorf("%w: duplicate format attach_id %q", ErrInvalidMessage, f.AttachID)
		}

		seen[f.AttachID] = true
	}

	ids := make(map[string]bool, len(attachments))

	for i := range attachments {
		if ids[attachments[i].ID] {
			return fmt.Errorf("%w: duplicate attachment @id %q", ErrInvalidMessage, attachments[i].ID)
		}

		ids[attachments[i].ID] = true
	}

	return nil
}

func previewFor(services []FormatService, preview *PreviewCredential) (*PreviewCredential, error) {
	if preview == nil {
		return nil, nil
	}

	for _, svc := range services {
		if svc.SupportsPreview() {
			p := *preview
			if p.Type == "" {
				p.Type = CredentialPreviewMsgTypeV2
			}

			return &p, nil
		}
	}

	return nil, fmt.Errorf("%w: formats %v do not carry a credential preview", ErrUnsupportedFormat,
		formatKeys(services))
}

func threadOf(rec *Record) *decorator.Thread {
	return &decorator.Thread{ID: rec.ThreadID, PID: rec.ParentThreadID}
}
