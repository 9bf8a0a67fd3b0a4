/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anoncreds implements the issue-credential format for anoncreds credentials, including the
// legacy hlindy identifiers.
package anoncreds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential/formats/formatutil"
)

// FormatKey selects this format in caller options.
const FormatKey = "anoncreds"

// Wire format identifiers.
const (
	FilterFormat     = "anoncreds/credential-filter@v1.0"
	OfferFormat      = "anoncreds/credential-offer@v1.0"
	RequestFormat    = "anoncreds/credential-request@v1.0"
	CredentialFormat = "anoncreds/credential@v1.0"

	LegacyFilterFormat     = "hlindy/cred-filter@v2.0"
	LegacyOfferFormat      = "hlindy/cred-abstract@v2.0"
	LegacyRequestFormat    = "hlindy/cred-req@v2.0"
	LegacyCredentialFormat = "hlindy/cred@v2.0"

	legacyPrefix = "hlindy/"
	schemaURL    = "https://aries.hyperledger.org/issuecredential/anoncreds/"
)

var logger = log.New("aries-framework/issuecredential/formats/anoncreds")

type kind int

const (
	filterKind kind = iota
	offerKind
	requestKind
	credentialKind
)

// nolint:gochecknoglobals
var (
	currentFormats = map[kind]string{
		filterKind: FilterFormat, offerKind: OfferFormat, requestKind: RequestFormat, credentialKind: CredentialFormat,
	}
	legacyFormats = map[kind]string{
		filterKind:     LegacyFilterFormat,
		offerKind:      LegacyOfferFormat,
		requestKind:    LegacyRequestFormat,
		credentialKind: LegacyCredentialFormat,
	}
)

// Issuer creates issuer-side anoncreds payloads.
type Issuer interface {
	CreateCredentialOffer(ctx context.Context, credDefID string) (*CredentialOffer, error)
	CreateCredential(ctx context.Context, offer *CredentialOffer, request *CredentialRequest,
		values map[string]AttributeValue) (*Credential, error)
}

// Holder creates holder-side anoncreds payloads and keeps issued credentials.
type Holder interface {
	CreateCredentialRequest(ctx context.Context, offer *CredentialOffer) (*CredentialRequest,
		map[string]interface{}, error)
	StoreCredential(ctx context.Context, credential *Credential, requestMetadata map[string]interface{}) (string, error)
}

// Opt configures the format service.
type Opt func(s *Service)

// WithIssuer sets the issuer collaborator.
func WithIssuer(issuer Issuer) Opt {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithHolder sets the holder collaborator.
func WithHolder(holder Holder) Opt {
	return func(s *Service) {
		s.holder = holder
	}
}

// Service is the anoncreds credential format service.
// Without an Issuer or Holder, callers pass prepared payloads in the format options.
type Service struct {
	issuer  Issuer
	holder  Holder
	schemas map[kind]*formatutil.Schema
}

// New returns the anoncreds format service.
func New(opts ...Opt) *Service {
	s := &Service{
		schemas: map[kind]*formatutil.Schema{
			filterKind:     formatutil.MustCompileSchema(schemaURL+"filter.json", filterSchema),
			offerKind:      formatutil.MustCompileSchema(schemaURL+"offer.json", offerSchema),
			requestKind:    formatutil.MustCompileSchema(schemaURL+"request.json", requestSchema),
			credentialKind: formatutil.MustCompileSchema(schemaURL+"credential.json", credentialSchema),
		},
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
	_, ok := kindOf(format)

	return ok
}

// SupportsPreview implements issuecredential.FormatService.
func (s *Service) SupportsPreview() bool {
	return true
}

// CreateProposal implements issuecredential.FormatService. Without a caller filter, a counter-proposal
// filters on the credential definition of the offer.
func (s *Service) CreateProposal(_ context.Context, _ *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	opts := &ProposalOptions{}
	if err := decodeOptions(in.Options, opts); err != nil {
		return nil, err
	}

	filter := opts.Filter

	if filter == nil && in.Offer != nil {
		offer := &CredentialOffer{}
		if err := s.decode(in.Offer, offerKind, offer); err != nil {
			return nil, err
		}

		filter = &CredentialFilter{CredDefID: offer.CredDefID, SchemaID: offer.SchemaID}
	}

	if filter == nil {
		filter = &CredentialFilter{}
	}

	return s.encode(in, filterKind, opts.Legacy, filter)
}

// ProcessProposal implements issuecredential.FormatService.
func (s *Service) ProcessProposal(_ context.Context, _ *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	return s.decode(att, filterKind, &CredentialFilter{})
}

// CreateOffer implements issuecredential.FormatService.
func (s *Service) CreateOffer(ctx context.Context, rec *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	opts := &OfferOptions{}
	if err := decodeOptions(in.Options, opts); err != nil {
		return nil, err
	}

	offer := opts.Offer

	if offer == nil {
		credDefID := opts.CredDefID

		if credDefID == "" && in.Proposal != nil {
			filter := &CredentialFilter{}
			if err := s.decode(in.Proposal, filterKind, filter); err != nil {
				return nil, err
			}

			credDefID = filter.CredDefID
		}

		if credDefID == "" {
			return nil, fmt.Errorf("%w: anoncreds offer needs a credential definition", issuecredential.ErrFormatValidation)
		}

		if s.issuer == nil {
			return nil, errors.New("anoncreds offer: no prepared offer given and no issuer configured")
		}

		var err error

		if offer, err = s.issuer.CreateCredentialOffer(ctx, credDefID); err != nil {
			return nil, fmt.Errorf("create anoncreds offer: %w", err)
		}
	}

	att, err := s.encode(in, offerKind, opts.Legacy, offer)
	if err != nil {
		return nil, err
	}

	updateMetadata(rec, func(md *metadata) {
		md.CredDefID = offer.CredDefID
		md.SchemaID = offer.SchemaID
	})

	return att, nil
}

// ProcessOffer implements issuecredential.FormatService.
func (s *Service) ProcessOffer(_ context.Context, rec *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	offer := &CredentialOffer{}
	if err := s.decode(att, offerKind, offer); err != nil {
		return err
	}

	updateMetadata(rec, func(md *metadata) {
		md.CredDefID = offer.CredDefID
		md.SchemaID = offer.SchemaID
	})

	return nil
}

// CreateRequest implements issuecredential.FormatService. A request always answers an offer.
func (s *Service) CreateRequest(ctx context.Context, rec *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	if in.Offer == nil {
		return nil, fmt.Errorf("%w: anoncreds request needs an offer", issuecredential.ErrFormatValidation)
	}

	offer := &CredentialOffer{}
	if err := s.decode(in.Offer, offerKind, offer); err != nil {
		return nil, err
	}

	opts := &RequestOptions{}
	if err := decodeOptions(in.Options, opts); err != nil {
		return nil, err
	}

	request := opts.Request

	var requestMetadata map[string]interface{}

	if request == nil {
		if s.holder == nil {
			return nil, errors.New("anoncreds request: no prepared request given and no holder configured")
		}

		var err error

		if request, requestMetadata, err = s.holder.CreateCredentialRequest(ctx, offer); err != nil {
			return nil, fmt.Errorf("create anoncreds request: %w", err)
		}
	}

	if request.CredDefID != offer.CredDefID {
		return nil, fmt.Errorf("%w: request for %s answers an offer for %s",
			issuecredential.ErrFormatValidation, request.CredDefID, offer.CredDefID)
	}

	att, err := s.encode(in, requestKind, isLegacy(in.Offer), request)
	if err != nil {
		return nil, err
	}

	updateMetadata(rec, func(md *metadata) {
		md.RequestMetadata = requestMetadata
	})

	return att, nil
}

// ProcessRequest implements issuecredential.FormatService.
func (s *Service) ProcessRequest(_ context.Context, rec *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	request := &CredentialRequest{}
	if err := s.decode(att, requestKind, request); err != nil {
		return err
	}

	return checkCredDef(rec, request.CredDefID)
}

// CreateCredential implements issuecredential.FormatService. Attribute values come from the caller
// options, else from the offered preview.
func (s *Service) CreateCredential(ctx context.Context, rec *issuecredential.Record,
	in issuecredential.FormatCreateInput) (*issuecredential.FormatAttachment, error) {
	if in.Request == nil || in.Offer == nil {
		return nil, fmt.Errorf("%w: anoncreds credential needs an offer and a request",
			issuecredential.ErrFormatValidation)
	}

	opts := &CredentialOptions{}
	if err := decodeOptions(in.Options, opts); err != nil {
		return nil, err
	}

	credential := opts.Credential

	if credential == nil {
		offer := &CredentialOffer{}
		if err := s.decode(in.Offer, offerKind, offer); err != nil {
			return nil, err
		}

		request := &CredentialRequest{}
		if err := s.decode(in.Request, requestKind, request); err != nil {
			return nil, err
		}

		raw := opts.Values
		if raw == nil {
			raw = previewValues(in.Preview)
		}

		if len(raw) == 0 {
			return nil, fmt.Errorf("%w: anoncreds credential has no attribute values", issuecredential.ErrFormatValidation)
		}

		if s.issuer == nil {
			return nil, errors.New("anoncreds credential: no prepared credential given and no issuer configured")
		}

		var err error

		if credential, err = s.issuer.CreateCredential(ctx, offer, request, EncodeValues(raw)); err != nil {
			return nil, fmt.Errorf("create anoncreds credential: %w", err)
		}
	}

	if err := checkCredDef(rec, credential.CredDefID); err != nil {
		return nil, err
	}

	att, err := s.encode(in, credentialKind, isLegacy(in.Request), credential)
	if err != nil {
		return nil, err
	}

	updateMetadata(rec, func(md *metadata) {
		md.RevocationRegistryID = credential.RevRegID
	})

	return att, nil
}

// ProcessCredential implements issuecredential.FormatService.
func (s *Service) ProcessCredential(ctx context.Context, rec *issuecredential.Record,
	att *issuecredential.FormatAttachment) error {
	credential := &Credential{}
	if err := s.decode(att, credentialKind, credential); err != nil {
		return err
	}

	if err := checkCredDef(rec, credential.CredDefID); err != nil {
		return err
	}

	for name, v := range credential.Values {
		if EncodeValue(v.Raw) != v.Encoded {
			return fmt.Errorf("%w: attribute %s is not encoded from its raw value", issuecredential.ErrFormatValidation, name)
		}
	}

	md := &metadata{}
	if _, err := rec.DecodeMetadata(FormatKey, md); err != nil {
		return err
	}

	credentialID := ""

	if s.holder != nil {
		var err error

		if credentialID, err = s.holder.StoreCredential(ctx, credential, md.RequestMetadata); err != nil {
			return fmt.Errorf("store anoncreds credential: %w", err)
		}
	}

	updateMetadata(rec, func(md *metadata) {
		md.CredentialID = credentialID
		md.RevocationRegistryID = credential.RevRegID
	})

	return nil
}

// ShouldAutoRespondToProposal implements issuecredential.FormatService: the proposal filter must
// select the offered credential definition.
func (s *Service) ShouldAutoRespondToProposal(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.filterMatchesOffer(in.Proposal, in.Offer)
}

// ShouldAutoRespondToOffer implements issuecredential.FormatService: the offer must be for the
// credential definition the proposal asked for.
func (s *Service) ShouldAutoRespondToOffer(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.filterMatchesOffer(in.Proposal, in.Offer)
}

// ShouldAutoRespondToRequest implements issuecredential.FormatService.
func (s *Service) ShouldAutoRespondToRequest(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.sameCredDef(in.Offer, in.Request)
}

// ShouldAutoRespondToCredential implements issuecredential.FormatService.
func (s *Service) ShouldAutoRespondToCredential(_ context.Context, _ *issuecredential.Record,
	in issuecredential.AutoRespondInput) (bool, error) {
	return s.sameCredDef(in.Request, in.Credential)
}

func (s *Service) filterMatchesOffer(proposal, offer *issuecredential.FormatAttachment) (bool, error) {
	if proposal == nil || offer == nil {
		return false, nil
	}

	filter := &CredentialFilter{}
	if err := s.decode(proposal, filterKind, filter); err != nil {
		return false, err
	}

	o := &CredentialOffer{}
	if err := s.decode(offer, offerKind, o); err != nil {
		return false, err
	}

	switch {
	case filter.CredDefID == "" || filter.CredDefID != o.CredDefID:
		return false, nil
	case filter.SchemaID != "" && filter.SchemaID != o.SchemaID:
		return false, nil
	default:
		return true, nil
	}
}

// sameCredDef compares the credential definition of two attachments by path, whatever their kind.
func (s *Service) sameCredDef(a, b *issuecredential.FormatAttachment) (bool, error) {
	if a == nil || b == nil {
		return false, nil
	}

	ids := make([]string, 0, 2)

	for _, att := range []*issuecredential.FormatAttachment{a, b} {
		k, ok := kindOf(att.Format.Format)
		if !ok {
			return false, nil
		}

		v, err := formatutil.DecodeAttachment(att, s.schemas[k])
		if err != nil {
			return false, err
		}

		id, err := formatutil.SelectString("$.cred_def_id", v)
		if err != nil {
			return false, err
		}

		ids = append(ids, id)
	}

	return ids[0] != "" && ids[0] == ids[1], nil
}

func (s *Service) encode(in issuecredential.FormatCreateInput, k kind, legacy bool,
	payload interface{}) (*issuecredential.FormatAttachment, error) {
	format := currentFormats[k]
	if legacy {
		format = legacyFormats[k]
	}

	att, err := formatutil.EncodeAttachment(in.AttachmentID, format, payload)
	if err != nil {
		return nil, err
	}

	if _, err = formatutil.DecodeAttachment(att, s.schemas[k]); err != nil {
		return nil, err
	}

	return att, nil
}

func (s *Service) decode(att *issuecredential.FormatAttachment, want kind, v interface{}) error {
	if k, ok := kindOf(att.Format.Format); !ok || k != want {
		return fmt.Errorf("%w: unexpected anoncreds attachment format %s",
			issuecredential.ErrFormatValidation, att.Format.Format)
	}

	raw, err := formatutil.DecodeAttachment(att, s.schemas[want])
	if err != nil {
		return err
	}

	if err = formatutil.DecodeInto(raw, v); err != nil {
		return fmt.Errorf("%w: %v", issuecredential.ErrFormatValidation, err)
	}

	return nil
}

func kindOf(format string) (kind, bool) {
	for _, formats := range []map[kind]string{currentFormats, legacyFormats} {
		for k, f := range formats {
			if f == format {
				return k, true
			}
		}
	}

	return 0, false
}

func isLegacy(att *issuecredential.FormatAttachment) bool {
	return att != nil && strings.HasPrefix(att.Format.Format, legacyPrefix)
}

func decodeOptions(options, out interface{}) error {
	if options == nil {
		return nil
	}

	if err := formatutil.DecodeInto(options, out); err != nil {
		return fmt.Errorf("%w: anoncreds options: %v", issuecredential.ErrFormatValidation, err)
	}

	return nil
}

func previewValues(preview *issuecredential.PreviewCredential) map[string]string {
	if preview == nil {
		return nil
	}

	values := make(map[string]string, len(preview.Attributes))
	for _, a := range preview.Attributes {
		values[a.Name] = a.Value
	}

	return values
}

// checkCredDef fails when the record already settled on another credential definition.
func checkCredDef(rec *issuecredential.Record, credDefID string) error {
	md := &metadata{}

	found, err := rec.DecodeMetadata(FormatKey, md)
	if err != nil {
		return err
	}

	if found && md.CredDefID != "" && md.CredDefID != credDefID {
		return fmt.Errorf("%w: credential definition %s, exchange uses %s",
			issuecredential.ErrFormatValidation, credDefID, md.CredDefID)
	}

	return nil
}

func updateMetadata(rec *issuecredential.Record, update func(md *metadata)) {
	md := &metadata{}
	if _, err := rec.DecodeMetadata(FormatKey, md); err != nil {
		logger.Warnf("record %s: decode anoncreds metadata: %v", rec.ID, err)
	}

	update(md)

	rec.SetMetadata(FormatKey, map[string]interface{}{
		"credentialDefinitionId":    md.CredDefID,
		"schemaId":                  md.SchemaID,
		"credentialRequestMetadata": md.RequestMetadata,
		"credentialId":              md.CredentialID,
		"revocationRegistryId":      md.RevocationRegistryID,
	})
}
