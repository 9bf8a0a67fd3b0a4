/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"fmt"
)

// autoRespondFunc is the per-message-type predicate of a format service.
type autoRespondFunc func(svc FormatService) func(context.Context, *Record, AutoRespondInput) (bool, error)

// EffectivePolicy returns the record's auto-accept override, or the service default when it has none.
func (s *Service) EffectivePolicy(rec *Record) AutoAcceptPolicy {
	if rec.AutoAcceptPolicy != "" {
		return rec.AutoAcceptPolicy
	}

	return s.policy
}

// ShouldAutoRespondToProposal decides whether a received proposal is answered with an offer without
// caller approval. Under content-approved the proposal must match the offer this agent sent earlier.
func (s *Service) ShouldAutoRespondToProposal(ctx context.Context, rec *Record) (bool, error) {
	if decided, ok := s.policyDecision(rec); ok {
		return decided, nil
	}

	proposal := &ProposeCredentialV2{}
	offer := &OfferCredentialV2{}

	ok, err := s.loadAll(rec.ID, ProposeCredentialMsgTypeV2, proposal, OfferCredentialMsgTypeV2, offer)
	if err != nil || !ok {
		return false, err
	}

	if !previewsAgree(proposal.CredentialProposal, offer.CredentialPreview) {
		return false, nil
	}

	return s.foldServices(ctx, rec, s.registry.ResolveFromFormats(offer.Formats),
		func(svc FormatService) (AutoRespondInput, error) {
			return s.respondInput(svc, proposal, offer, nil, nil)
		},
		func(svc FormatService) func(context.Context, *Record, AutoRespondInput) (bool, error) {
			return svc.ShouldAutoRespondToProposal
		})
}

// ShouldAutoRespondToOffer decides whether a received offer is answered with a request without
// caller approval. Under content-approved the offer must match the proposal this agent sent earlier.
func (s *Service) ShouldAutoRespondToOffer(ctx context.Context, rec *Record) (bool, error) {
	if decided, ok := s.policyDecision(rec); ok {
		return decided, nil
	}

	proposal := &ProposeCredentialV2{}
	offer := &OfferCredentialV2{}

	ok, err := s.loadAll(rec.ID, ProposeCredentialMsgTypeV2, proposal, OfferCredentialMsgTypeV2, offer)
	if err != nil || !ok {
		return false, err
	}

	if !previewsAgree(proposal.CredentialProposal, offer.CredentialPreview) {
		return false, nil
	}

	return s.foldServices(ctx, rec, s.registry.ResolveFromFormats(proposal.Formats),
		func(svc FormatService) (AutoRespondInput, error) {
			return s.respondInput(svc, proposal, offer, nil, nil)
		},
		func(svc FormatService) func(context.Context, *Record, AutoRespondInput) (bool, error) {
			return svc.ShouldAutoRespondToOffer
		})
}

// ShouldAutoRespondToRequest decides whether a received request is answered with the credential
// without caller approval. Under content-approved the request must match the offer this agent sent.
func (s *Service) ShouldAutoRespondToRequest(ctx context.Context, rec *Record) (bool, error) {
	if decided, ok := s.policyDecision(rec); ok {
		return decided, nil
	}

	request := &RequestCredentialV2{}
	offer := &OfferCredentialV2{}

	ok, err := s.loadAll(rec.ID, RequestCredentialMsgTypeV2, request, OfferCredentialMsgTypeV2, offer)
	if err != nil || !ok {
		return false, err
	}

	proposal, err := s.optionalProposal(rec.ID)
	if err != nil {
		return false, err
	}

	return s.foldServices(ctx, rec, s.registry.ResolveFromFormats(offer.Formats),
		func(svc FormatService) (AutoRespondInput, error) {
			return s.respondInput(svc, proposal, offer, request, nil)
		},
		func(svc FormatService) func(context.Context, *Record, AutoRespondInput) (bool, error) {
			return svc.ShouldAutoRespondToRequest
		})
}

// ShouldAutoRespondToCredential decides whether a received credential is acknowledged without
// caller approval. Under content-approved the credential must match the request this agent sent.
func (s *Service) ShouldAutoRespondToCredential(ctx context.Context, rec *Record) (bool, error) {
	if decided, ok := s.policyDecision(rec); ok {
		return decided, nil
	}

	credential := &IssueCredentialV2{}
	request := &RequestCredentialV2{}

	ok, err := s.loadAll(rec.ID, IssueCredentialMsgTypeV2, credential, RequestCredentialMsgTypeV2, request)
	if err != nil || !ok {
		return false, err
	}

	offer, err := s.optionalOffer(rec.ID)
	if err != nil {
		return false, err
	}

	return s.foldServices(ctx, rec, s.registry.ResolveFromFormats(request.Formats),
		func(svc FormatService) (AutoRespondInput, error) {
			return s.respondInput(svc, nil, offer, request, credential)
		},
		func(svc FormatService) func(context.Context, *Record, AutoRespondInput) (bool, error) {
			return svc.ShouldAutoRespondToCredential
		})
}

// policyDecision settles Always and Never without looking at any message.
func (s *Service) policyDecision(rec *Record) (decided, ok bool) {
	switch s.EffectivePolicy(rec) {
	case AutoAcceptAlways:
		return true, true
	case AutoAcceptContentApproved:
		return false, false
	default:
		return false, true
	}
}

// loadAll loads two stored messages of the record. It reports false when either is missing.
func (s *Service) loadAll(recordID, firstType string, first interface{}, secondType string,
	second interface{}) (bool, error) {
	ok, err := s.loadMessage(recordID, firstType, first)
	if err != nil || !ok {
		return false, err
	}

	return s.loadMessage(recordID, secondType, second)
}

// foldServices asks every service in turn and stops at the first false.
// An empty service set never approves.
func (s *Service) foldServices(ctx context.Context, rec *Record, services []FormatService,
	input func(FormatService) (AutoRespondInput, error), ask autoRespondFunc) (bool, error) {
	if len(services) == 0 {
		return false, nil
	}

	for _, svc := range services {
		in, err := input(svc)
		if err != nil {
			return false, err
		}

		ok, err := ask(svc)(ctx, rec, in)
		if err != nil {
			return false, fmt.Errorf("format %s auto-accept: %w", svc.FormatKey(), err)
		}

		if !ok {
			logger.Debugf("record %s: format %s declined auto-accept", rec.ID, svc.FormatKey())

			return false, nil
		}
	}

	return true, nil
}

func (s *Service) respondInput(svc FormatService, proposal *ProposeCredentialV2, offer *OfferCredentialV2,
	request *RequestCredentialV2, credential *IssueCredentialV2) (AutoRespondInput, error) {
	var (
		in  AutoRespondInput
		err error
	)

	if proposal != nil {
		if in.Proposal, err = FindAttachmentForService(svc, proposal.Formats, proposal.FiltersAttach); err != nil {
			return in, err
		}
	}

	if offer != nil {
		if in.Offer, err = FindAttachmentForService(svc, offer.Formats, offer.OffersAttach); err != nil {
			return in, err
		}
	}

	if request != nil {
		if in.Request, err = FindAttachmentForService(svc, request.Formats, request.RequestsAttach); err != nil {
			return in, err
		}
	}

	if credential != nil {
		in.Credential, err = FindAttachmentForService(svc, credential.Formats, credential.CredentialsAttach)
	}

	return in, err
}

// previewsAgree compares two previews as sets of name/value pairs. Two absent previews agree;
// one absent preview never agrees with a present one.
func previewsAgree(a, b *PreviewCredential) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	}

	return attributeSet(a.Attributes).equal(attributeSet(b.Attributes))
}

type attributePair struct {
	name  string
	value string
}

type attributes map[attributePair]bool

func attributeSet(attrs []Attribute) attributes {
	set := make(attributes, len(attrs))
	for _, a := range attrs {
		set[attributePair{name: a.Name, value: a.Value}] = true
	}

	return set
}

func (a attributes) equal(b attributes) bool {
	if len(a) != len(b) {
		return false
	}

	for k := range a {
		if !b[k] {
			return false
		}
	}

	return true
}
