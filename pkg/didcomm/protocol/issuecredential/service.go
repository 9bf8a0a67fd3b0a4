/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
)

const (
	// Name defines the protocol name.
	Name = "issue-credential"
	// SpecV2 defines the protocol spec V2.
	SpecV2 = "https://didcomm.org/issue-credential/2.0/"
	// ProposeCredentialMsgTypeV2 defines the protocol propose-credential message type.
	ProposeCredentialMsgTypeV2 = SpecV2 + "propose-credential"
	// OfferCredentialMsgTypeV2 defines the protocol offer-credential message type.
	OfferCredentialMsgTypeV2 = SpecV2 + "offer-credential"
	// RequestCredentialMsgTypeV2 defines the protocol request-credential message type.
	RequestCredentialMsgTypeV2 = SpecV2 + "request-credential"
	// IssueCredentialMsgTypeV2 defines the protocol issue-credential message type.
	IssueCredentialMsgTypeV2 = SpecV2 + "issue-credential"
	// AckMsgTypeV2 defines the protocol ack message type.
	AckMsgTypeV2 = SpecV2 + "ack"
	// ProblemReportMsgTypeV2 defines the protocol problem-report message type.
	ProblemReportMsgTypeV2 = SpecV2 + "problem-report"
	// CredentialPreviewMsgTypeV2 defines the protocol credential-preview inner object type.
	CredentialPreviewMsgTypeV2 = SpecV2 + "credential-preview"

	// ProtocolVersionV2 tags records created by the V2 protocol.
	ProtocolVersionV2 = "v2"
)

const (
	ackStatusOK = "OK"
	// ProblemCodeAbandoned is the problem report code sent when an exchange is abandoned.
	ProblemCodeAbandoned = "issuance-abandoned"
	// ProblemReasonUnspecified is recorded when a received problem report carries neither code nor description.
	ProblemReasonUnspecified = "problem report received without a reason"
)

// nolint:gochecknoglobals
var (
	logger = log.New("aries-framework/issuecredential/service")

	messageTypesV2 = []string{
		ProposeCredentialMsgTypeV2,
		OfferCredentialMsgTypeV2,
		RequestCredentialMsgTypeV2,
		IssueCredentialMsgTypeV2,
		AckMsgTypeV2,
		ProblemReportMsgTypeV2,
	}
)

// Provider contains dependencies for the protocol.
type Provider interface {
	StorageProvider() storage.Provider
}

type options struct {
	formats    []FormatService
	policy     AutoAcceptPolicy
	continuity ContinuityChecker
	now        func() time.Time
}

// Opt configures the Service.
type Opt func(opts *options)

// WithFormatServices registers the credential format services.
func WithFormatServices(services ...FormatService) Opt {
	return func(opts *options) {
		opts.formats = append(opts.formats, services...)
	}
}

// WithAutoAcceptPolicy sets the process-wide default auto-accept policy.
// An empty policy keeps the default, AutoAcceptNever.
func WithAutoAcceptPolicy(policy AutoAcceptPolicy) Opt {
	return func(opts *options) {
		if policy != "" {
			opts.policy = policy
		}
	}
}

// WithContinuityChecker replaces the default DID continuity check.
func WithContinuityChecker(checker ContinuityChecker) Opt {
	return func(opts *options) {
		opts.continuity = checker
	}
}

// WithNow sets the clock used for record timestamps.
func WithNow(now func() time.Time) Opt {
	return func(opts *options) {
		opts.now = now
	}
}

// Exchange is the outcome of an outbound operation: the new record and the message to send.
type Exchange struct {
	Record  *Record
	Message service.DIDCommMsgMap
}

// Service for the issuecredential protocol.
type Service struct {
	service.Message
	repo        *Repository
	registry    *Registry
	coordinator *Coordinator
	continuity  ContinuityChecker
	policy      AutoAcceptPolicy
	version     string
	now         func() time.Time
	newID       func() string
	handlers    map[string]*inboundHandler
}

// New returns the issuecredential service.
func New(p Provider, opts ...Opt) (*Service, error) {
	o := &options{
		policy:     AutoAcceptNever,
		continuity: DIDContinuityChecker{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	if _, err := ParseAutoAcceptPolicy(string(o.policy)); err != nil || o.policy == "" {
		return nil, fmt.Errorf("invalid default auto-accept policy %q", o.policy)
	}

	registry, err := NewRegistry(o.formats...)
	if err != nil {
		return nil, fmt.Errorf("format registry: %w", err)
	}

	repo, err := NewRepository(p.StorageProvider())
	if err != nil {
		return nil, err
	}

	s := &Service{
		repo:        repo,
		registry:    registry,
		coordinator: NewCoordinator(),
		continuity:  o.continuity,
		policy:      o.policy,
		version:     ProtocolVersionV2,
		now:         o.now,
		newID:       uuid.NewString,
	}

	s.handlers = s.handlerTable()

	return s, nil
}

// Name returns the name of this protocol service.
func (s *Service) Name() string {
	return Name
}

// Accept msg checks the msg type.
func (s *Service) Accept(msgType string) bool {
	_, ok := s.handlers[msgType]

	return ok
}

// Registry returns the format service registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// CreateProposal starts an exchange as holder with a proposal.
func (s *Service) CreateProposal(ctx context.Context, p *CreateProposalParams) (*Exchange, error) {
	services, err := s.initiatingServices(p.Formats)
	if err != nil {
		return nil, err
	}

	next, err := s.newRecord(RoleHolder, p.ConnectionID, p.ParentThreadID, p.AutoAcceptPolicy)
	if err != nil {
		return nil, err
	}

	msg, err := s.coordinator.CreateProposal(ctx, services, next, &createArgs{
		options: p.Formats,
		comment: p.Comment,
		preview: p.Preview,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateProposalSent

	return s.commitOutbound(nil, next, msg)
}

// CreateOffer starts an exchange as issuer with an offer.
func (s *Service) CreateOffer(ctx context.Context, p *CreateOfferParams) (*Exchange, error) {
	services, err := s.initiatingServices(p.Formats)
	if err != nil {
		return nil, err
	}

	next, err := s.newRecord(RoleIssuer, p.ConnectionID, p.ParentThreadID, p.AutoAcceptPolicy)
	if err != nil {
		return nil, err
	}

	msg, err := s.coordinator.CreateOffer(ctx, services, next, &createArgs{
		options: p.Formats,
		comment: p.Comment,
		preview: p.Preview,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateOfferSent

	return s.commitOutbound(nil, next, msg)
}

// CreateRequest starts an exchange as holder with a request.
func (s *Service) CreateRequest(ctx context.Context, p *CreateRequestParams) (*Exchange, error) {
	services, err := s.initiatingServices(p.Formats)
	if err != nil {
		return nil, err
	}

	next, err := s.newRecord(RoleHolder, p.ConnectionID, p.ParentThreadID, p.AutoAcceptPolicy)
	if err != nil {
		return nil, err
	}

	msg, err := s.coordinator.CreateRequest(ctx, services, next, &createArgs{
		options: p.Formats,
		comment: p.Comment,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateRequestSent

	return s.commitOutbound(nil, next, msg)
}

// AcceptProposal answers a received proposal with an offer on the proposed terms.
func (s *Service) AcceptProposal(ctx context.Context, p *AcceptProposalParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateProposalReceived, false)
	if err != nil {
		return nil, err
	}

	proposal := &ProposeCredentialV2{}
	if err = s.requireMessage(prior.ID, ProposeCredentialMsgTypeV2, proposal); err != nil {
		return nil, err
	}

	services, err := s.respondingServices(p.Formats, proposal.Formats, true)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()

	msg, err := s.coordinator.CreateOffer(ctx, services, next, &createArgs{
		options:  p.Formats,
		comment:  p.Comment,
		preview:  inheritPreview(services, p.Preview, proposal.CredentialProposal),
		proposal: proposal,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateOfferSent

	return s.commitOutbound(prior, next, msg)
}

// NegotiateProposal answers a received proposal with a counter-offer.
func (s *Service) NegotiateProposal(ctx context.Context, p *NegotiateProposalParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateProposalReceived, true)
	if err != nil {
		return nil, err
	}

	proposal := &ProposeCredentialV2{}
	if err = s.requireMessage(prior.ID, ProposeCredentialMsgTypeV2, proposal); err != nil {
		return nil, err
	}

	services, err := s.respondingServices(p.Formats, proposal.Formats, false)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()

	msg, err := s.coordinator.CreateOffer(ctx, services, next, &createArgs{
		options:  p.Formats,
		comment:  p.Comment,
		preview:  inheritPreview(services, p.Preview, proposal.CredentialProposal),
		proposal: proposal,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateOfferSent

	return s.commitOutbound(prior, next, msg)
}

// AcceptOffer answers a received offer with a request.
func (s *Service) AcceptOffer(ctx context.Context, p *AcceptOfferParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateOfferReceived, false)
	if err != nil {
		return nil, err
	}

	offer := &OfferCredentialV2{}
	if err = s.requireMessage(prior.ID, OfferCredentialMsgTypeV2, offer); err != nil {
		return nil, err
	}

	proposal, err := s.optionalProposal(prior.ID)
	if err != nil {
		return nil, err
	}

	services, err := s.respondingServices(p.Formats, offer.Formats, true)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()

	msg, err := s.coordinator.CreateRequest(ctx, services, next, &createArgs{
		options:  p.Formats,
		comment:  p.Comment,
		proposal: proposal,
		offer:    offer,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateRequestSent

	return s.commitOutbound(prior, next, msg)
}

// NegotiateOffer answers a received offer with a counter-proposal.
func (s *Service) NegotiateOffer(ctx context.Context, p *NegotiateOfferParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateOfferReceived, true)
	if err != nil {
		return nil, err
	}

	offer := &OfferCredentialV2{}
	if err = s.requireMessage(prior.ID, OfferCredentialMsgTypeV2, offer); err != nil {
		return nil, err
	}

	services, err := s.respondingServices(p.Formats, offer.Formats, false)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()

	msg, err := s.coordinator.CreateProposal(ctx, services, next, &createArgs{
		options: p.Formats,
		comment: p.Comment,
		preview: inheritPreview(services, p.Preview, offer.CredentialPreview),
		offer:   offer,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateProposalSent

	return s.commitOutbound(prior, next, msg)
}

// AcceptRequest answers a received request with the credential.
func (s *Service) AcceptRequest(ctx context.Context, p *AcceptRequestParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateRequestReceived, false)
	if err != nil {
		return nil, err
	}

	request := &RequestCredentialV2{}
	if err = s.requireMessage(prior.ID, RequestCredentialMsgTypeV2, request); err != nil {
		return nil, err
	}

	proposal, err := s.optionalProposal(prior.ID)
	if err != nil {
		return nil, err
	}

	offer, err := s.optionalOffer(prior.ID)
	if err != nil {
		return nil, err
	}

	services, err := s.respondingServices(p.Formats, request.Formats, true)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()

	msg, err := s.coordinator.CreateCredential(ctx, services, next, &createArgs{
		options:  p.Formats,
		comment:  p.Comment,
		proposal: proposal,
		offer:    offer,
		request:  request,
	})
	if err != nil {
		return nil, err
	}

	next.State = StateCredentialIssued

	return s.commitOutbound(prior, next, msg)
}

// AcceptCredential acknowledges a received credential and completes the exchange.
func (s *Service) AcceptCredential(_ context.Context, p *AcceptCredentialParams) (*Exchange, error) {
	prior, err := s.respondingRecord(p.RecordID, StateCredentialReceived, false)
	if err != nil {
		return nil, err
	}

	next := prior.Clone()
	next.State = StateDone

	return s.commitOutbound(prior, next, &AckV2{
		ID:     s.newID(),
		Type:   AckMsgTypeV2,
		Status: ackStatusOK,
		Thread: threadOf(prior),
	})
}

// ProcessProposal handles an inbound propose-credential message.
func (s *Service) ProcessProposal(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	proposal := &ProposeCredentialV2{}
	if err := decodeMessage(msg, ProposeCredentialMsgTypeV2, proposal); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &proposalRule, proposal.Formats,
		func(rec *Record, services []FormatService) error {
			return s.coordinator.ProcessProposal(ctx, rec, services, proposal)
		})
}

// ProcessOffer handles an inbound offer-credential message.
func (s *Service) ProcessOffer(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	offer := &OfferCredentialV2{}
	if err := decodeMessage(msg, OfferCredentialMsgTypeV2, offer); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &offerRule, offer.Formats,
		func(rec *Record, services []FormatService) error {
			return s.coordinator.ProcessOffer(ctx, rec, services, offer)
		})
}

// ProcessRequest handles an inbound request-credential message.
func (s *Service) ProcessRequest(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	request := &RequestCredentialV2{}
	if err := decodeMessage(msg, RequestCredentialMsgTypeV2, request); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &requestRule, request.Formats,
		func(rec *Record, services []FormatService) error {
			return s.coordinator.ProcessRequest(ctx, rec, services, request)
		})
}

// ProcessCredential handles an inbound issue-credential message.
func (s *Service) ProcessCredential(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	credential := &IssueCredentialV2{}
	if err := decodeMessage(msg, IssueCredentialMsgTypeV2, credential); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &credentialRule, credential.Formats,
		func(rec *Record, services []FormatService) error {
			return s.coordinator.ProcessCredential(ctx, rec, services, credential)
		})
}

// ProcessAck handles an inbound ack message.
func (s *Service) ProcessAck(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	if err := decodeMessage(msg, AckMsgTypeV2, &AckV2{}); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &ackRule, nil, nil)
}

// ProcessProblemReport handles an inbound problem-report message. It is legal in every active state.
func (s *Service) ProcessProblemReport(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (*Record, error) {
	report := &ProblemReportV2{}
	if err := decodeMessage(msg, ProblemReportMsgTypeV2, report); err != nil {
		return nil, err
	}

	return s.processInbound(ctx, msg, didCtx, &problemReportRule, nil,
		func(rec *Record, _ []FormatService) error {
			rec.ErrorMessage = problemReason(report.Description)

			return nil
		})
}

// Abandon moves an active exchange to abandoned and returns the problem report to send to the peer.
func (s *Service) Abandon(_ context.Context, recordID, reason string) (*Exchange, error) {
	prior, err := s.repo.GetByID(recordID)
	if err != nil {
		return nil, err
	}

	if prior.Terminal() {
		return nil, fmt.Errorf("%w: record %s is %s", ErrInvalidState, prior.ID, prior.State)
	}

	next := prior.Clone()
	next.State = StateAbandoned
	next.ErrorMessage = reason

	report := NewProblemReport(prior.ThreadID, reason)
	report.Thread.PID = prior.ParentThreadID

	return s.commitOutbound(prior, next, report)
}

// CreateProblemReport builds a problem report for the exchange without changing its state.
func (s *Service) CreateProblemReport(_ context.Context, recordID, description string) (*ProblemReportV2, error) {
	rec, err := s.repo.GetByID(recordID)
	if err != nil {
		return nil, err
	}

	report := NewProblemReport(rec.ThreadID, description)
	report.Thread.PID = rec.ParentThreadID

	return report, nil
}

// problemReason is the abandon reason recorded for an inbound problem report.
func problemReason(d ProblemReportSubject) string {
	switch {
	case d.En != "":
		return d.En
	case d.Code != "":
		return d.Code
	default:
		return ProblemReasonUnspecified
	}
}

// NewProblemReport builds a problem report on the given thread.
func NewProblemReport(threadID, description string) *ProblemReportV2 {
	return &ProblemReportV2{
		ID:          uuid.NewString(),
		Type:        ProblemReportMsgTypeV2,
		Thread:      &decorator.Thread{ID: threadID},
		Description: ProblemReportSubject{Code: ProblemCodeAbandoned, En: description},
	}
}

// GetRecord returns the exchange record with the given id.
func (s *Service) GetRecord(_ context.Context, recordID string) (*Record, error) {
	return s.repo.GetByID(recordID)
}

// Records returns the exchange records matching q.
func (s *Service) Records(_ context.Context, q *Query) ([]*Record, error) {
	if q == nil {
		q = &Query{}
	}

	return s.repo.Query(q)
}

// inboundRule describes where an inbound message type may land.
type inboundRule struct {
	// predecessor is the state an existing record must be in, empty when any active state is legal.
	predecessor string
	// firstContact is the state of a record created by the message, empty when a record must exist.
	firstContact string
	next         string
	role         Role
}

// nolint:gochecknoglobals
var (
	proposalRule = inboundRule{
		predecessor:  StateOfferSent,
		firstContact: StateProposalReceived,
		next:         StateProposalReceived,
		role:         RoleIssuer,
	}
	offerRule = inboundRule{
		predecessor:  StateProposalSent,
		firstContact: StateOfferReceived,
		next:         StateOfferReceived,
		role:         RoleHolder,
	}
	requestRule = inboundRule{
		predecessor:  StateOfferSent,
		firstContact: StateRequestReceived,
		next:         StateRequestReceived,
		role:         RoleIssuer,
	}
	credentialRule    = inboundRule{predecessor: StateRequestSent, next: StateCredentialReceived}
	ackRule           = inboundRule{predecessor: StateCredentialIssued, next: StateDone}
	problemReportRule = inboundRule{next: StateAbandoned}
)

// processInbound resolves the record of an inbound message, asserts it may take the message,
// lets process derive the new record value and commits it.
// formats are only resolved to format services when process is given and the rule is not a problem report.
func (s *Service) processInbound(ctx context.Context, msg service.DIDCommMsg, didCtx service.DIDCommContext,
	rule *inboundRule, formats []Format, process func(rec *Record, services []FormatService) error) (*Record, error) {
	logger.Debugf("handling inbound: %s", msg.Type())

	if didCtx == nil {
		didCtx = service.EmptyDIDCommContext()
	}

	thid, err := msg.ThreadID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	prior, err := s.findActive(thid, didCtx.ConnectionID())
	if err != nil {
		return nil, err
	}

	var next *Record

	if prior == nil {
		if rule.firstContact == "" {
			return nil, fmt.Errorf("%w: no active exchange for thread %s", ErrRecordNotFound, thid)
		}

		next, err = s.newRecord(rule.role, didCtx.ConnectionID(), msg.ParentThreadID(), "")
		if err != nil {
			return nil, err
		}

		next.ThreadID = thid
	} else {
		if err = s.assertInbound(ctx, prior, msg, didCtx, rule); err != nil {
			return nil, err
		}

		next = prior.Clone()
		if next.ConnectionID == "" {
			next.ConnectionID = didCtx.ConnectionID()
		}
	}

	if process != nil {
		var services []FormatService

		if rule != &problemReportRule {
			services = s.registry.ResolveFromFormats(formats)
			if len(services) == 0 {
				return nil, fmt.Errorf("%w: %s carries no supported format", ErrUnsupportedFormat, msg.Type())
			}
		}

		if err = process(next, services); err != nil {
			return nil, err
		}
	}

	next.State = rule.next

	return s.commit(&transition{
		prior:  prior,
		next:   next,
		msg:    msg.Clone(),
		role:   MessageReceived,
		didCtx: didCtx,
	})
}

func (s *Service) assertInbound(ctx context.Context, prior *Record, msg service.DIDCommMsg,
	didCtx service.DIDCommContext, rule *inboundRule) error {
	if prior.ProtocolVersion != s.version {
		return fmt.Errorf("%w: record %s is %s, message is %s",
			ErrVersionMismatch, prior.ID, prior.ProtocolVersion, s.version)
	}

	if rule.predecessor != "" && prior.State != rule.predecessor {
		return fmt.Errorf("%w: %s requires state %s, record %s is %s",
			ErrInvalidState, msg.Type(), rule.predecessor, prior.ID, prior.State)
	}

	lastSent, err := s.repo.lastMessage(prior.ID, MessageSent)
	if err != nil {
		return err
	}

	lastReceived, err := s.repo.lastMessage(prior.ID, MessageReceived)
	if err != nil {
		return err
	}

	err = s.continuity.AssertContinuity(ctx, &ContinuityInput{
		Record:       prior,
		Message:      msg,
		Context:      didCtx,
		LastSent:     lastSent,
		LastReceived: lastReceived,
	})
	if err != nil {
		if !errors.Is(err, ErrContinuity) {
			err = fmt.Errorf("%w: %v", ErrContinuity, err)
		}

		return err
	}

	return nil
}

// findActive returns the active record of a thread. A record bound to the given connection wins;
// otherwise a connection-less record of the thread matches.
func (s *Service) findActive(thid, connectionID string) (*Record, error) {
	records, err := s.repo.Query(&Query{ThreadID: thid, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	candidates := records

	if connectionID != "" {
		candidates = filterRecords(records, func(r *Record) bool { return r.ConnectionID == connectionID })
		if len(candidates) == 0 {
			candidates = filterRecords(records, func(r *Record) bool { return r.ConnectionID == "" })
		}
	}

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return candidates[0], nil
	default:
		return nil, fmt.Errorf("%w: %d active records for thread %s", ErrAmbiguousRecord, len(candidates), thid)
	}
}

func (s *Service) respondingRecord(recordID, predecessor string, needsConnection bool) (*Record, error) {
	rec, err := s.repo.GetByID(recordID)
	if err != nil {
		return nil, err
	}

	if rec.ProtocolVersion != s.version {
		return nil, fmt.Errorf("%w: record %s is %s", ErrVersionMismatch, rec.ID, rec.ProtocolVersion)
	}

	if rec.State != predecessor {
		return nil, fmt.Errorf("%w: operation requires state %s, record %s is %s",
			ErrInvalidState, predecessor, rec.ID, rec.State)
	}

	if needsConnection && rec.ConnectionID == "" {
		return nil, fmt.Errorf("%w: record %s cannot be negotiated", ErrMissingConnection, rec.ID)
	}

	return rec, nil
}

func (s *Service) initiatingServices(formats FormatOptions) ([]FormatService, error) {
	services := s.registry.ResolveFromOptions(formats)
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: no registered format among %v", ErrUnsupportedFormat, optionKeys(formats))
	}

	return services, nil
}

// respondingServices resolves the formats of a response. Caller formats win; without them the
// formats of the message being answered are used. When narrow is set caller formats must all
// appear on that message.
func (s *Service) respondingServices(formats FormatOptions, counterpart []Format,
	narrow bool) ([]FormatService, error) {
	available := s.registry.ResolveFromFormats(counterpart)
	services := s.registry.ResolveFromOptions(formats)

	if len(services) == 0 {
		services = available
	} else if narrow {
		for _, svc := range services {
			if !containsService(available, svc) {
				return nil, fmt.Errorf("%w: format %s is not on the message being answered",
					ErrUnsupportedFormat, svc.FormatKey())
			}
		}
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("%w: nothing to answer with", ErrUnsupportedFormat)
	}

	return services, nil
}

func (s *Service) newRecord(role Role, connectionID, pthid string, policy AutoAcceptPolicy) (*Record, error) {
	if _, err := ParseAutoAcceptPolicy(string(policy)); err != nil {
		return nil, err
	}

	now := s.now()

	return &Record{
		ID:               s.newID(),
		ThreadID:         s.newID(),
		ParentThreadID:   pthid,
		ConnectionID:     connectionID,
		ProtocolVersion:  s.version,
		Role:             role,
		AutoAcceptPolicy: policy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// transition is one protocol step: the new record value derived from prior plus the message to
// persist with it. The state-changed event is emitted once the step is committed.
type transition struct {
	prior  *Record
	next   *Record
	msg    service.DIDCommMsgMap
	role   MessageRole
	didCtx service.DIDCommContext
}

func (s *Service) commit(t *transition) (*Record, error) {
	from := stateNameStart
	if t.prior != nil {
		from = t.prior.State
	}

	if err := canTransition(from, t.next.State); err != nil {
		return nil, err
	}

	t.next.Revision = 1
	if t.prior != nil {
		t.next.Revision = t.prior.Revision + 1
	}

	t.next.UpdatedAt = s.now()

	stored := &StoredMessage{
		RecordID:    t.next.ID,
		MessageType: t.msg.Type(),
		Role:        t.role,
		Revision:    t.next.Revision,
		Message:     t.msg,
		CreatedAt:   t.next.UpdatedAt,
	}

	if t.didCtx != nil {
		stored.MyDID = t.didCtx.MyDID()
		stored.TheirDID = t.didCtx.TheirDID()
	}

	if err := s.repo.Commit(&Change{Prior: t.prior, Record: t.next, Message: stored}); err != nil {
		return nil, err
	}

	previous := ""
	if t.prior != nil {
		previous = t.prior.State
	}

	logger.Infof("record %s thread %s: %s -> %s", t.next.ID, t.next.ThreadID, from, t.next.State)

	s.emit(previous, t.next, t.msg)

	return t.next, nil
}

func (s *Service) commitOutbound(prior, next *Record, msg interface{}) (*Exchange, error) {
	msgMap := service.NewDIDCommMsgMap(msg)

	rec, err := s.commit(&transition{prior: prior, next: next, msg: msgMap, role: MessageSent})
	if err != nil {
		return nil, err
	}

	return &Exchange{Record: rec, Message: msgMap}, nil
}

func (s *Service) emit(previous string, rec *Record, msg service.DIDCommMsgMap) {
	dropped := s.Publish(service.StateMsg{
		ProtocolName: Name,
		Type:         service.PostState,
		StateID:      rec.State,
		Msg:          msg.Clone(),
		Properties:   newEventProps(previous, rec.Clone()),
	})
	if dropped > 0 {
		logger.Warnf("record %s: %d subscribers missed state %s", rec.ID, dropped, rec.State)
	}
}

func (s *Service) requireMessage(recordID, msgType string, v interface{}) error {
	found, err := s.loadMessage(recordID, msgType, v)
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s for record %s", ErrMessageNotFound, msgType, recordID)
	}

	return nil
}

func (s *Service) loadMessage(recordID, msgType string, v interface{}) (bool, error) {
	stored, err := s.repo.FindAgentMessage(recordID, msgType)
	if err != nil || stored == nil {
		return false, err
	}

	if err = stored.Message.Decode(v); err != nil {
		return false, fmt.Errorf("decode stored %s: %w", msgType, err)
	}

	return true, nil
}

func (s *Service) optionalProposal(recordID string) (*ProposeCredentialV2, error) {
	proposal := &ProposeCredentialV2{}

	found, err := s.loadMessage(recordID, ProposeCredentialMsgTypeV2, proposal)
	if err != nil || !found {
		return nil, err
	}

	return proposal, nil
}

func (s *Service) optionalOffer(recordID string) (*OfferCredentialV2, error) {
	offer := &OfferCredentialV2{}

	found, err := s.loadMessage(recordID, OfferCredentialMsgTypeV2, offer)
	if err != nil || !found {
		return nil, err
	}

	return offer, nil
}

func decodeMessage(msg service.DIDCommMsg, msgType string, v interface{}) error {
	if msg.Type() != msgType {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidMessage, msgType, msg.Type())
	}

	if err := msg.Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidMessage, msgType, err)
	}

	return nil
}

func inheritPreview(services []FormatService, preview, counterpart *PreviewCredential) *PreviewCredential {
	if preview != nil {
		return preview
	}

	for _, svc := range services {
		if svc.SupportsPreview() {
			return counterpart
		}
	}

	return nil
}

func containsService(services []FormatService, svc FormatService) bool {
	for _, s := range services {
		if s.FormatKey() == svc.FormatKey() {
			return true
		}
	}

	return false
}

func filterRecords(records []*Record, keep func(*Record) bool) []*Record {
	var result []*Record

	for _, r := range records {
		if keep(r) {
			result = append(result, r)
		}
	}

	return result
}

func optionKeys(formats FormatOptions) []string {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}

	return keys
}
