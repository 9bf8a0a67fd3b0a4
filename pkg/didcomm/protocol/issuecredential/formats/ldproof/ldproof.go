/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ldproof implements the issue-credential format for W3C credentials secured by linked-data proofs.
package ldproof

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential/formats/formatutil"
)

const (
	// FormatKey selects this format in caller options.
	FormatKey = "ldproof"
	// DetailFormat is the wire format of proposals, offers and requests.
	DetailFormat = "aries/ld-proof-vc-detail@v1.0"
	// CredentialFormat is the wire format of issued credentials.
	CredentialFormat = "aries/ld-proof-vc@v1.0"

	detailSchemaURL     = "https://aries.hyperledger.org/issuecredential/ld-proof-vc-detail.json"
	credentialSchemaURL = "https://aries.hyperledger.org/issuecredential/ld-proof-vc.json"
)

var logger = log.New("aries-framework/issuecredential/formats/ldproof")

// Signer puts a linked-data proof on a credential.
type Signer interface {
	Sign(ctx context.Context, credential map[string]interface{}, options *ProofOptions) (map[string]interface{}, error)
}

// Opt configures the format service.
type Opt func(s *Service)

// WithSigner issues credentials with signer when the caller brings no signed credential.
func WithSigner(signer Signer) Opt {
	return func(s *Service) {
		s.signer = signer
	}
}

// Service is the ld-proof credential format service.
type Service struct {
	signer     Signer
	detail     *formatutil.Schema
	credential *formatutil.Schema
}

// New returns the ld-proof format service.
func New(opts ...Opt) *Service {
	s := &Service{
		detail:     formatutil.MustCompileSchema(detailSchemaURL, detailSchema),
		credential: formatutil.MustCompileSchema(credentialSchemaURL, credentialSchema),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FormatKey implements issuecredential.FormatService.
func (s *Service) FormatKey() string {
	return FormatKey
}

// SupportsFormat implements issuecredential.FormatService.
func (s *Service) SupportsFormat(format string) bool {
	return format == DetailFormat || format == CredentialFormat
}

// SupportsPreview implements issuecredential.FormatService. Linked-data credentials carry their claims
// in the detail itself.
func (s *Service) SupportsPreview() bool {
	return false
}

// CreateProposal implements issuecredential.FormatService.
func (s *Service) CreateProposal(_ context.Context, _ *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	detail, err := s.detailFromOptions(in.Options)
	if err != nil {
		return nil, err
	}

	if detail == nil {
		if detail, err = s.detailFrom(in.Offer); err != nil {
			return nil, err
		}
	}

	if detail == nil {
		return nil, fmt.Errorf("%w: ld-proof proposal needs a credential detail", issuecredential.ErrFormatValidation)
	}

	return formatutil.EncodeAttachment(in.AttachmentID, DetailFormat, detail)
}

// ProcessProposal implements issuecredential.FormatService.
func (s *Service) ProcessProposal(_ context.Context, _ *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	_, err := s.decodeDetail(att)

	return err
}

// CreateOffer implements issuecredential.FormatService. Without caller options the proposed detail is offered.
func (s *Service) CreateOffer(_ context.Context, _ *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	detail, err := s.detailFromOptions(in.Options)
	if err != nil {
		return nil, err
	}

	if detail == nil {
		if detail, err = s.detailFrom(in.Proposal); err != nil {
			return nil, err
		}
	}

	if detail == nil {
		return nil, fmt.Errorf("%w: ld-proof offer needs a credential detail", issuecredential.ErrFormatValidation)
	}

	return formatutil.EncodeAttachment(in.AttachmentID, DetailFormat, detail)
}

// ProcessOffer implements issuecredential.FormatService.
func (s *Service) ProcessOffer(_ context.Context, _ *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	_, err := s.decodeDetail(att)

	return err
}

// CreateRequest implements issuecredential.FormatService. Without caller options the offered detail,
// or failing that the proposed one, is requested.
func (s *Service) CreateRequest(_ context.Context, rec *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	detail, err := s.detailFromOptions(in.Options)
	if err != nil {
		return nil, err
	}

	for _, earlier := range []*issuecredential.FormatAttachment{in.Offer, in.Proposal} {
		if detail != nil {
			break
		}

		if detail, err = s.detailFrom(earlier); err != nil {
			return nil, err
		}
	}

	if detail == nil {
		return nil, fmt.Errorf("%w: ld-proof request needs a credential detail", issuecredential.ErrFormatValidation)
	}

	setRequestMetadata(rec, detail)

	return formatutil.EncodeAttachment(in.AttachmentID, DetailFormat, detail)
}

// ProcessRequest implements issuecredential.FormatService.
func (s *Service) ProcessRequest(_ context.Context, rec *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	detail, err := s.decodeDetail(att)
	if err != nil {
		return err
	}

	setRequestMetadata(rec, detail)

	return nil
}

// CreateCredential implements issuecredential.FormatService.
func (s *Service) CreateCredential(ctx context.Context, rec *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	if in.Request == nil {
		return nil, fmt.Errorf("%w: ld-proof credential needs a request", issuecredential.ErrFormatValidation)
	}

	detail, err := s.decodeDetail(in.Request)
	if err != nil {
		return nil, err
	}

	opts := &IssueOptions{}
	if in.Options != nil {
		if err = formatutil.DecodeInto(in.Options, opts); err != nil {
			return nil, fmt.Errorf("%w: ld-proof credential options: %v", issuecredential.ErrFormatValidation, err)
		}
	}

	credential := opts.Credential

	if credential == nil {
		if s.signer == nil {
			return nil, errors.New("ld-proof credential: no signed credential given and no signer configured")
		}

		if credential, err = s.signer.Sign(ctx, detail.Credential, detail.Options); err != nil {
			return nil, fmt.Errorf("sign ld-proof credential: %w", err)
		}
	}

	normalized, err := formatutil.Normalize(credential)
	if err != nil {
		return nil, err
	}

	if err = s.credential.Validate(normalized); err != nil {
		return nil, err
	}

	ok, err := matchesDetail(normalized, detail)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: credential does not match the requested detail", issuecredential.ErrFormatValidation)
	}

	setCredentialMetadata(rec, credential)

	return formatutil.EncodeAttachment(in.AttachmentID, CredentialFormat, credential)
}

// ProcessCredential implements issuecredential.FormatService. The credential must carry the proof type
// the holder requested.
func (s *Service) ProcessCredential(_ context.Context, rec *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	v, err := formatutil.DecodeAttachment(att, s.credential)
	if err != nil {
		return err
	}

	credential, ok := v.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: credential is not an object", issuecredential.ErrFormatValidation)
	}

	md := &metadata{}

	found, err := rec.DecodeMetadata(FormatKey, md)
	if err != nil {
		return err
	}

	if found {
		proofType, err := proofTypeOf(credential)
		if err != nil {
			return err
		}

		if proofType != md.ProofType {
			return fmt.Errorf("%w: requested proof type %s, got %s",
				issuecredential.ErrFormatValidation, md.ProofType, proofType)
		}
	}

	setCredentialMetadata(rec, credential)

	return nil
}

// ShouldAutoRespondToProposal implements issuecredential.FormatService: the proposal must restate the offer.
func (s *Service) ShouldAutoRespondToProposal(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.sameDetail(in.Proposal, in.Offer)
}

// ShouldAutoRespondToOffer implements issuecredential.FormatService: the offer must restate the proposal.
func (s *Service) ShouldAutoRespondToOffer(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.sameDetail(in.Offer, in.Proposal)
}

// ShouldAutoRespondToRequest implements issuecredential.FormatService: the request must restate the offer.
func (s *Service) ShouldAutoRespondToRequest(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.sameDetail(in.Request, in.Offer)
}

// ShouldAutoRespondToCredential implements issuecredential.FormatService: the credential must be the one requested.
func (s *Service) ShouldAutoRespondToCredential(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	if in.Credential == nil || in.Request == nil {
		return false, nil
	}

	detail, err := s.decodeDetail(in.Request)
	if err != nil {
		return false, err
	}

	v, err := formatutil.DecodeAttachment(in.Credential, s.credential)
	if err != nil {
		return false, err
	}

	return matchesDetail(v, detail)
}

func (s *Service) sameDetail(a, b *issuecredential.FormatAttachment) (bool, error) {
	if a == nil || b == nil {
		return false, nil
	}

	da, err := formatutil.DecodeAttachment(a, s.detail)
	if err != nil {
		return false, err
	}

	db, err := formatutil.DecodeAttachment(b, s.detail)
	if err != nil {
		return false, err
	}

	return formatutil.CanonicalEqual(da, db)
}

func (s *Service) detailFromOptions(options interface{}) (*CredentialDetail, error) {
	var detail *CredentialDetail

	switch opts := options.(type) {
	case nil:
		return nil, nil
	case *CredentialDetail:
		detail = opts
	case CredentialDetail:
		detail = &opts
	default:
		detail = &CredentialDetail{}
		if err := formatutil.DecodeInto(options, detail); err != nil {
			return nil, fmt.Errorf("%w: ld-proof options: %v", issuecredential.ErrFormatValidation, err)
		}
	}

	// validate the wire shape the detail will have
	att, err := formatutil.EncodeAttachment("", DetailFormat, detail)
	if err != nil {
		return nil, err
	}

	if _, err = formatutil.DecodeAttachment(att, s.detail); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *Service) detailFrom(att *issuecredential.FormatAttachment) (*CredentialDetail, error) {
	if att == nil {
		return nil, nil
	}

	return s.decodeDetail(att)
}

func (s *Service) decodeDetail(att *issuecredential.FormatAttachment) (*CredentialDetail, error) {
	if att.Format.Format != DetailFormat {
		return nil, fmt.Errorf("%w: expected %s attachment, got %s",
			issuecredential.ErrFormatValidation, DetailFormat, att.Format.Format)
	}

	v, err := formatutil.DecodeAttachment(att, s.detail)
	if err != nil {
		return nil, err
	}

	detail := &CredentialDetail{}
	if err = formatutil.DecodeInto(v, detail); err != nil {
		return nil, fmt.Errorf("%w: ld-proof detail: %v", issuecredential.ErrFormatValidation, err)
	}

	return detail, nil
}

// matchesDetail reports whether the credential carries the requested types, subject and proof type.
func matchesDetail(credential interface{}, detail *CredentialDetail) (bool, error) {
	for _, path := range []string{"$.type", "$.credentialSubject"} {
		got, err := formatutil.Select(path, credential)
		if err != nil {
			return false, nil
		}

		want, err := formatutil.Select(path, detail.Credential)
		if err != nil {
			return false, nil
		}

		equal, err := formatutil.CanonicalEqual(got, want)
		if err != nil || !equal {
			return false, err
		}
	}

	proofType, err := proofTypeOf(credential)
	if err != nil {
		return false, err
	}

	return proofType == detail.Options.ProofType, nil
}

func proofTypeOf(credential interface{}) (string, error) {
	proof, err := formatutil.Select("$.proof", credential)
	if err != nil {
		return "", fmt.Errorf("%w: credential has no proof", issuecredential.ErrFormatValidation)
	}

	// multiple proofs: the first one is the issuer's
	if proofs, ok := proof.([]interface{}); ok && len(proofs) > 0 {
		proof = proofs[0]
	}

	proofType, err := formatutil.SelectString("$.type", proof)
	if err != nil {
		return "", fmt.Errorf("%w: %v", issuecredential.ErrFormatValidation, err)
	}

	return proofType, nil
}

func setRequestMetadata(rec *issuecredential.Record, detail *CredentialDetail) {
	md := metadata{ProofType: detail.Options.ProofType}

	if types, ok := detail.Credential["type"].([]interface{}); ok {
		for _, t := range types {
			if s, ok := t.(string); ok {
				md.CredentialTypes = append(md.CredentialTypes, s)
			}
		}
	}

	rec.SetMetadata(FormatKey, map[string]interface{}{
		"proofType":       md.ProofType,
		"credentialTypes": md.CredentialTypes,
	})
}

func setCredentialMetadata(rec *issuecredential.Record, credential map[string]interface{}) {
	md := &metadata{}
	if _, err := rec.DecodeMetadata(FormatKey, md); err != nil {
		logger.Warnf("record %s: decode ld-proof metadata: %v", rec.ID, err)
	}

	id, _ := credential["id"].(string)

	rec.SetMetadata(FormatKey, map[string]interface{}{
		"proofType":       md.ProofType,
		"credentialTypes": md.CredentialTypes,
		"credentialId":    id,
	})
}
