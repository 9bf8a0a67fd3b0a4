/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
)

// stubFormat echoes caller options into JSON attachments.
type stubFormat struct {
	key     string
	wire    []string
	preview bool
	calls   int
}

func (s *stubFormat) FormatKey() string { return s.key }

func (s *stubFormat) SupportsFormat(format string) bool {
	s.calls++

	for _, w := range s.wire {
		if w == format {
			return true
		}
	}

	return false
}

func (s *stubFormat) SupportsPreview() bool { return s.preview }

func (s *stubFormat) create(in FormatCreateInput) (*FormatAttachment, error) {
	att, err := decorator.NewJSONAttachment(in.AttachmentID, map[string]interface{}{"options": in.Options})
	if err != nil {
		return nil, err
	}

	return &FormatAttachment{Format: Format{Format: s.wire[0]}, Attachment: *att}, nil
}

func (s *stubFormat) CreateProposal(_ context.Context, _ *Record, in FormatCreateInput) (*FormatAttachment, error) {
	return s.create(in)
}

func (s *stubFormat) CreateOffer(_ context.Context, _ *Record, in FormatCreateInput) (*FormatAttachment, error) {
	return s.create(in)
}

func (s *stubFormat) CreateRequest(_ context.Context, _ *Record, in FormatCreateInput) (*FormatAttachment, error) {
	return s.create(in)
}

func (s *stubFormat) CreateCredential(_ context.Context, _ *Record, in FormatCreateInput) (*FormatAttachment, error) {
	return s.create(in)
}

func (s *stubFormat) ProcessProposal(context.Context, *Record, *FormatAttachment) error   { return nil }
func (s *stubFormat) ProcessOffer(context.Context, *Record, *FormatAttachment) error      { return nil }
func (s *stubFormat) ProcessRequest(context.Context, *Record, *FormatAttachment) error    { return nil }
func (s *stubFormat) ProcessCredential(context.Context, *Record, *FormatAttachment) error { return nil }

func (s *stubFormat) ShouldAutoRespondToProposal(context.Context, *Record, AutoRespondInput) (bool, error) {
	return true, nil
}

func (s *stubFormat) ShouldAutoRespondToOffer(context.Context, *Record, AutoRespondInput) (bool, error) {
	return true, nil
}

func (s *stubFormat) ShouldAutoRespondToRequest(context.Context, *Record, AutoRespondInput) (bool, error) {
	return true, nil
}

func (s *stubFormat) ShouldAutoRespondToCredential(context.Context, *Record, AutoRespondInput) (bool, error) {
	return true, nil
}
