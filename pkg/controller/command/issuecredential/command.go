/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/command"
	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/webnotifier"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
	protocol "github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-issuecredential-go/pkg/internal/logutil"
)

var logger = log.New("aries-framework/controller/issuecredential")

const (
	// InvalidRequestErrorCode is typically a code for validation errors
	// for invalid issue credential controller requests.
	InvalidRequestErrorCode = command.Code(iota + command.IssueCredential)
	// SendProposalErrorCode failures in send proposal command.
	SendProposalErrorCode
	// SendOfferErrorCode failures in send offer command.
	SendOfferErrorCode
	// SendRequestErrorCode failures in send request command.
	SendRequestErrorCode
	// AcceptProposalErrorCode is for failures in accept proposal command.
	AcceptProposalErrorCode
	// NegotiateProposalErrorCode is for failures in negotiate proposal command.
	NegotiateProposalErrorCode
	// AcceptOfferErrorCode is for failures in accept offer command.
	AcceptOfferErrorCode
	// NegotiateOfferErrorCode is for failures in negotiate offer command.
	NegotiateOfferErrorCode
	// AcceptRequestErrorCode is for failures in accept request command.
	AcceptRequestErrorCode
	// AcceptCredentialErrorCode is for failures in accept credential command.
	AcceptCredentialErrorCode
	// ProblemReportErrorCode is for failures in problem report command.
	ProblemReportErrorCode
	// AbandonErrorCode is for failures in abandon command.
	AbandonErrorCode
	// HandleInboundErrorCode is for failures in handle inbound command.
	HandleInboundErrorCode
	// RecordsErrorCode is for failures in records command.
	RecordsErrorCode
	// RecordErrorCode is for failures in record command.
	RecordErrorCode
	// FormatDataErrorCode is for failures in format data command.
	FormatDataErrorCode
)

// constants for issue credential commands.
const (
	// command name.
	CommandName = "issuecredential"

	SendProposal      = "SendProposal"
	SendOffer         = "SendOffer"
	SendRequest       = "SendRequest"
	AcceptProposal    = "AcceptProposal"
	NegotiateProposal = "NegotiateProposal"
	AcceptOffer       = "AcceptOffer"
	NegotiateOffer    = "NegotiateOffer"
	AcceptRequest     = "AcceptRequest"
	AcceptCredential  = "AcceptCredential"
	SendProblemReport = "SendProblemReport"
	Abandon           = "Abandon"
	HandleInbound     = "HandleInbound"
	Records           = "Records"
	Record            = "Record"
	FormatData        = "FormatData"

	// StatesTopic is the notification topic of exchange state events.
	StatesTopic = "issuecredential_states"
)

const (
	// error messages.
	errEmptyRecordID     = "empty record ID"
	errEmptyFormats      = "empty formats"
	errEmptyConnectionID = "empty connection ID"
	errEmptyMessage      = "empty message"
	errEmptyDescription  = "empty description"
	// log constants.
	successString = "success"

	stateEventBuffer = 100
)

// ProtocolService is the issue credential engine the commands drive.
type ProtocolService interface {
	service.Event
	service.InboundHandler
	CreateProposal(ctx context.Context, p *protocol.CreateProposalParams) (*protocol.Exchange, error)
	CreateOffer(ctx context.Context, p *protocol.CreateOfferParams) (*protocol.Exchange, error)
	CreateRequest(ctx context.Context, p *protocol.CreateRequestParams) (*protocol.Exchange, error)
	AcceptProposal(ctx context.Context, p *protocol.AcceptProposalParams) (*protocol.Exchange, error)
	NegotiateProposal(ctx context.Context, p *protocol.NegotiateProposalParams) (*protocol.Exchange, error)
	AcceptOffer(ctx context.Context, p *protocol.AcceptOfferParams) (*protocol.Exchange, error)
	NegotiateOffer(ctx context.Context, p *protocol.NegotiateOfferParams) (*protocol.Exchange, error)
	AcceptRequest(ctx context.Context, p *protocol.AcceptRequestParams) (*protocol.Exchange, error)
	AcceptCredential(ctx context.Context, p *protocol.AcceptCredentialParams) (*protocol.Exchange, error)
	CreateProblemReport(ctx context.Context, recordID, description string) (*protocol.ProblemReportV2, error)
	Abandon(ctx context.Context, recordID, reason string) (*protocol.Exchange, error)
	Records(ctx context.Context, q *protocol.Query) ([]*protocol.Record, error)
	GetRecord(ctx context.Context, recordID string) (*protocol.Record, error)
	GetFormatData(ctx context.Context, recordID string) (*protocol.FormatData, error)
}

// Options contains configuration options.
type Options struct {
	inbound service.InboundHandler
}

// Option modifies Options.
type Option func(*Options)

// WithInboundHandler routes HandleInbound through h, typically the dispatcher, instead of the
// protocol service itself.
func WithInboundHandler(h service.InboundHandler) Option {
	return func(o *Options) {
		o.inbound = h
	}
}

// Command is controller command for issue credential.
type Command struct {
	svc     ProtocolService
	inbound service.InboundHandler
}

// New returns new issue credential controller command instance. State events of the service are
// forwarded to notifier under StatesTopic.
func New(svc ProtocolService, notifier command.Notifier, options ...Option) (*Command, error) {
	opts := &Options{inbound: svc}

	for i := range options {
		options[i](opts)
	}

	states := make(chan service.StateMsg, stateEventBuffer)

	if err := svc.RegisterMsgEvent(states); err != nil {
		return nil, fmt.Errorf("register msg event: %w", err)
	}

	if notifier != nil {
		webnotifier.NewObserver(notifier).RegisterStateMsg(StatesTopic, states)
	} else {
		go drain(states)
	}

	return &Command{svc: svc, inbound: opts.inbound}, nil
}

func drain(ch <-chan service.StateMsg) {
	for range ch { // nolint:revive
	}
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		command.NewHandler(CommandName, SendProposal, c.SendProposal),
		command.NewHandler(CommandName, SendOffer, c.SendOffer),
		command.NewHandler(CommandName, SendRequest, c.SendRequest),
		command.NewHandler(CommandName, AcceptProposal, c.AcceptProposal),
		command.NewHandler(CommandName, NegotiateProposal, c.NegotiateProposal),
		command.NewHandler(CommandName, AcceptOffer, c.AcceptOffer),
		command.NewHandler(CommandName, NegotiateOffer, c.NegotiateOffer),
		command.NewHandler(CommandName, AcceptRequest, c.AcceptRequest),
		command.NewHandler(CommandName, AcceptCredential, c.AcceptCredential),
		command.NewHandler(CommandName, SendProblemReport, c.SendProblemReport),
		command.NewHandler(CommandName, Abandon, c.Abandon),
		command.NewHandler(CommandName, HandleInbound, c.HandleInbound),
		command.NewHandler(CommandName, Records, c.Records),
		command.NewHandler(CommandName, Record, c.Record),
		command.NewHandler(CommandName, FormatData, c.FormatData),
	}
}

// SendProposal is used by the Holder to start an exchange with a proposal.
func (c *Command) SendProposal(rw io.Writer, req io.Reader) command.Error {
	var args SendProposalArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, SendProposal, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if len(args.Formats) == 0 {
		return validationError(SendProposal, errEmptyFormats)
	}

	policy, err := protocol.ParseAutoAcceptPolicy(args.AutoAccept)
	if err != nil {
		return validationError(SendProposal, err.Error())
	}

	exchange, err := c.svc.CreateProposal(context.Background(), &protocol.CreateProposalParams{
		ConnectionID:     args.ConnectionID,
		ParentThreadID:   args.ParentThreadID,
		Formats:          args.Formats,
		Preview:          args.Preview,
		Comment:          args.Comment,
		AutoAcceptPolicy: policy,
	})

	return c.writeExchange(rw, SendProposal, SendProposalErrorCode, exchange, err)
}

// SendOffer is used by the Issuer to start an exchange with an offer.
func (c *Command) SendOffer(rw io.Writer, req io.Reader) command.Error {
	var args SendOfferArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, SendOffer, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if len(args.Formats) == 0 {
		return validationError(SendOffer, errEmptyFormats)
	}

	policy, err := protocol.ParseAutoAcceptPolicy(args.AutoAccept)
	if err != nil {
		return validationError(SendOffer, err.Error())
	}

	exchange, err := c.svc.CreateOffer(context.Background(), &protocol.CreateOfferParams{
		ConnectionID:     args.ConnectionID,
		ParentThreadID:   args.ParentThreadID,
		Formats:          args.Formats,
		Preview:          args.Preview,
		Comment:          args.Comment,
		AutoAcceptPolicy: policy,
	})

	return c.writeExchange(rw, SendOffer, SendOfferErrorCode, exchange, err)
}

// SendRequest is used by the Holder to start an exchange with a request.
func (c *Command) SendRequest(rw io.Writer, req io.Reader) command.Error {
	var args SendRequestArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, SendRequest, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if args.ConnectionID == "" {
		return validationError(SendRequest, errEmptyConnectionID)
	}

	if len(args.Formats) == 0 {
		return validationError(SendRequest, errEmptyFormats)
	}

	policy, err := protocol.ParseAutoAcceptPolicy(args.AutoAccept)
	if err != nil {
		return validationError(SendRequest, err.Error())
	}

	exchange, err := c.svc.CreateRequest(context.Background(), &protocol.CreateRequestParams{
		ConnectionID:     args.ConnectionID,
		ParentThreadID:   args.ParentThreadID,
		Formats:          args.Formats,
		Comment:          args.Comment,
		AutoAcceptPolicy: policy,
	})

	return c.writeExchange(rw, SendRequest, SendRequestErrorCode, exchange, err)
}

// AcceptProposal is used when the Issuer is willing to accept the proposal.
func (c *Command) AcceptProposal(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRespondArgs(req, AcceptProposal)
	if cmdErr != nil {
		return cmdErr
	}

	exchange, err := c.svc.AcceptProposal(context.Background(), &protocol.AcceptProposalParams{
		RecordID: args.RecordID,
		Formats:  args.Formats,
		Preview:  args.Preview,
		Comment:  args.Comment,
	})

	return c.writeExchange(rw, AcceptProposal, AcceptProposalErrorCode, exchange, err)
}

// NegotiateProposal is used when the Issuer answers a proposal with different terms.
func (c *Command) NegotiateProposal(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRespondArgs(req, NegotiateProposal)
	if cmdErr != nil {
		return cmdErr
	}

	if len(args.Formats) == 0 {
		return validationError(NegotiateProposal, errEmptyFormats)
	}

	exchange, err := c.svc.NegotiateProposal(context.Background(), &protocol.NegotiateProposalParams{
		RecordID: args.RecordID,
		Formats:  args.Formats,
		Preview:  args.Preview,
		Comment:  args.Comment,
	})

	return c.writeExchange(rw, NegotiateProposal, NegotiateProposalErrorCode, exchange, err)
}

// AcceptOffer is used when the Holder is willing to accept the offer.
func (c *Command) AcceptOffer(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRespondArgs(req, AcceptOffer)
	if cmdErr != nil {
		return cmdErr
	}

	exchange, err := c.svc.AcceptOffer(context.Background(), &protocol.AcceptOfferParams{
		RecordID: args.RecordID,
		Formats:  args.Formats,
		Comment:  args.Comment,
	})

	return c.writeExchange(rw, AcceptOffer, AcceptOfferErrorCode, exchange, err)
}

// NegotiateOffer is used when the Holder answers an offer with a counter-proposal.
func (c *Command) NegotiateOffer(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRespondArgs(req, NegotiateOffer)
	if cmdErr != nil {
		return cmdErr
	}

	if len(args.Formats) == 0 {
		return validationError(NegotiateOffer, errEmptyFormats)
	}

	exchange, err := c.svc.NegotiateOffer(context.Background(), &protocol.NegotiateOfferParams{
		RecordID: args.RecordID,
		Formats:  args.Formats,
		Preview:  args.Preview,
		Comment:  args.Comment,
	})

	return c.writeExchange(rw, NegotiateOffer, NegotiateOfferErrorCode, exchange, err)
}

// AcceptRequest is used when the Issuer is willing to issue the requested credential.
func (c *Command) AcceptRequest(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRespondArgs(req, AcceptRequest)
	if cmdErr != nil {
		return cmdErr
	}

	exchange, err := c.svc.AcceptRequest(context.Background(), &protocol.AcceptRequestParams{
		RecordID: args.RecordID,
		Formats:  args.Formats,
		Comment:  args.Comment,
	})

	return c.writeExchange(rw, AcceptRequest, AcceptRequestErrorCode, exchange, err)
}

// AcceptCredential is used when the Holder acknowledges the issued credential.
func (c *Command) AcceptCredential(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRecordArgs(req, AcceptCredential)
	if cmdErr != nil {
		return cmdErr
	}

	exchange, err := c.svc.AcceptCredential(context.Background(), &protocol.AcceptCredentialParams{
		RecordID: args.RecordID,
	})

	return c.writeExchange(rw, AcceptCredential, AcceptCredentialErrorCode, exchange, err)
}

// SendProblemReport builds a problem report for the exchange without changing it.
func (c *Command) SendProblemReport(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readProblemReportArgs(req, SendProblemReport)
	if cmdErr != nil {
		return cmdErr
	}

	if args.Description == "" {
		return validationError(SendProblemReport, errEmptyDescription)
	}

	report, err := c.svc.CreateProblemReport(context.Background(), args.RecordID, args.Description)
	if err != nil {
		logutil.LogError(logger, CommandName, SendProblemReport, err.Error(),
			logutil.CreateKeyValueString("recordID", args.RecordID))

		return command.NewExecuteError(ProblemReportErrorCode, err)
	}

	command.WriteNillableResponse(rw, &ProblemReportResponse{Message: report}, logger)

	logutil.LogDebug(logger, CommandName, SendProblemReport, successString)

	return nil
}

// Abandon moves the exchange to abandoned and returns the problem report for the peer.
func (c *Command) Abandon(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readProblemReportArgs(req, Abandon)
	if cmdErr != nil {
		return cmdErr
	}

	exchange, err := c.svc.Abandon(context.Background(), args.RecordID, args.Description)

	return c.writeExchange(rw, Abandon, AbandonErrorCode, exchange, err)
}

// HandleInbound hands an inbound protocol message to the engine and returns the automatic reply, if any.
func (c *Command) HandleInbound(rw io.Writer, req io.Reader) command.Error {
	var args HandleInboundArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, HandleInbound, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if len(args.Message) == 0 || args.Message.Type() == "" {
		return validationError(HandleInbound, errEmptyMessage)
	}

	didCtx := service.NewConnectionContext(args.ConnectionID, args.MyDID, args.TheirDID, nil)

	reply, err := c.inbound.HandleInbound(context.Background(), args.Message, didCtx)
	if err != nil {
		logutil.LogError(logger, CommandName, HandleInbound, err.Error(),
			logutil.CreateKeyValueString("msgType", args.Message.Type()))

		return command.NewExecuteError(HandleInboundErrorCode, err)
	}

	command.WriteNillableResponse(rw, &HandleInboundResponse{Reply: reply}, logger)

	logutil.LogDebug(logger, CommandName, HandleInbound, successString)

	return nil
}

// Records returns the exchange records matching the filter.
func (c *Command) Records(rw io.Writer, req io.Reader) command.Error {
	var args RecordsArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, Records, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	records, err := c.svc.Records(context.Background(), &protocol.Query{
		ThreadID:     args.ThreadID,
		ConnectionID: args.ConnectionID,
		State:        args.State,
		Role:         protocol.Role(args.Role),
		FormatKey:    args.FormatKey,
		ActiveOnly:   args.ActiveOnly,
	})
	if err != nil {
		logutil.LogError(logger, CommandName, Records, err.Error())
		return command.NewExecuteError(RecordsErrorCode, err)
	}

	if records == nil {
		records = []*protocol.Record{}
	}

	command.WriteNillableResponse(rw, &RecordsResponse{Records: records}, logger)

	logutil.LogDebug(logger, CommandName, Records, successString)

	return nil
}

// Record returns a single exchange record.
func (c *Command) Record(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRecordArgs(req, Record)
	if cmdErr != nil {
		return cmdErr
	}

	rec, err := c.svc.GetRecord(context.Background(), args.RecordID)
	if err != nil {
		logutil.LogError(logger, CommandName, Record, err.Error(),
			logutil.CreateKeyValueString("recordID", args.RecordID))

		return command.NewExecuteError(RecordErrorCode, err)
	}

	command.WriteNillableResponse(rw, &RecordResponse{Record: rec}, logger)

	logutil.LogDebug(logger, CommandName, Record, successString)

	return nil
}

// FormatData returns the decoded attachments of an exchange.
func (c *Command) FormatData(rw io.Writer, req io.Reader) command.Error {
	args, cmdErr := readRecordArgs(req, FormatData)
	if cmdErr != nil {
		return cmdErr
	}

	data, err := c.svc.GetFormatData(context.Background(), args.RecordID)
	if err != nil {
		logutil.LogError(logger, CommandName, FormatData, err.Error(),
			logutil.CreateKeyValueString("recordID", args.RecordID))

		return command.NewExecuteError(FormatDataErrorCode, err)
	}

	command.WriteNillableResponse(rw, &FormatDataResponse{FormatData: data}, logger)

	logutil.LogDebug(logger, CommandName, FormatData, successString)

	return nil
}

func (c *Command) writeExchange(rw io.Writer, action string, code command.Code, exchange *protocol.Exchange,
	err error) command.Error {
	if err != nil {
		logutil.LogError(logger, CommandName, action, err.Error())
		return command.NewExecuteError(code, err)
	}

	command.WriteNillableResponse(rw, &ExchangeResponse{Record: exchange.Record, Message: exchange.Message}, logger)

	logutil.LogDebug(logger, CommandName, action, successString,
		logutil.CreateKeyValueString("recordID", exchange.Record.ID),
		logutil.CreateKeyValueString("state", exchange.Record.State))

	return nil
}

func readRespondArgs(req io.Reader, action string) (*RespondArgs, command.Error) {
	var args RespondArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, action, err.Error())
		return nil, command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if args.RecordID == "" {
		return nil, validationError(action, errEmptyRecordID)
	}

	return &args, nil
}

func readRecordArgs(req io.Reader, action string) (*RecordArgs, command.Error) {
	var args RecordArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, action, err.Error())
		return nil, command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if args.RecordID == "" {
		return nil, validationError(action, errEmptyRecordID)
	}

	return &args, nil
}

func readProblemReportArgs(req io.Reader, action string) (*ProblemReportArgs, command.Error) {
	var args ProblemReportArgs

	if err := command.ReadArgs(req, &args); err != nil {
		logutil.LogInfo(logger, CommandName, action, err.Error())
		return nil, command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if args.RecordID == "" {
		return nil, validationError(action, errEmptyRecordID)
	}

	return &args, nil
}

func validationError(action, msg string) command.Error {
	logutil.LogDebug(logger, CommandName, action, msg)

	return command.NewValidationError(InvalidRequestErrorCode, errors.New(msg))
}
