/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"fmt"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
)

type inboundHandler struct {
	process func(context.Context, service.DIDCommMsg, service.DIDCommContext) (*Record, error)
	// autoRespond and respond are nil for messages that never get an automatic reply.
	autoRespond func(context.Context, *Record) (bool, error)
	respond     func(context.Context, *Record) (*Exchange, error)
}

func (s *Service) handlerTable() map[string]*inboundHandler {
	return map[string]*inboundHandler{
		ProposeCredentialMsgTypeV2: {
			process:     s.ProcessProposal,
			autoRespond: s.ShouldAutoRespondToProposal,
			respond: func(ctx context.Context, rec *Record) (*Exchange, error) {
				return s.AcceptProposal(ctx, &AcceptProposalParams{RecordID: rec.ID})
			},
		},
		OfferCredentialMsgTypeV2: {
			process:     s.ProcessOffer,
			autoRespond: s.ShouldAutoRespondToOffer,
			respond: func(ctx context.Context, rec *Record) (*Exchange, error) {
				return s.AcceptOffer(ctx, &AcceptOfferParams{RecordID: rec.ID})
			},
		},
		RequestCredentialMsgTypeV2: {
			process:     s.ProcessRequest,
			autoRespond: s.ShouldAutoRespondToRequest,
			respond: func(ctx context.Context, rec *Record) (*Exchange, error) {
				return s.AcceptRequest(ctx, &AcceptRequestParams{RecordID: rec.ID})
			},
		},
		IssueCredentialMsgTypeV2: {
			process:     s.ProcessCredential,
			autoRespond: s.ShouldAutoRespondToCredential,
			respond: func(ctx context.Context, rec *Record) (*Exchange, error) {
				return s.AcceptCredential(ctx, &AcceptCredentialParams{RecordID: rec.ID})
			},
		},
		AckMsgTypeV2:           {process: s.ProcessAck},
		ProblemReportMsgTypeV2: {process: s.ProcessProblemReport},
	}
}

// HandleInbound processes an inbound protocol message and returns the reply to send back on
// the same channel, or nil when the exchange waits for the caller.
// The inbound step stays committed when building the automatic reply fails.
func (s *Service) HandleInbound(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (service.DIDCommMsgMap, error) {
	h, ok := s.handlers[msg.Type()]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized msgType: %s", ErrInvalidMessage, msg.Type())
	}

	rec, err := h.process(ctx, msg, didCtx)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", msg.Type(), err)
	}

	if h.autoRespond == nil {
		return nil, nil
	}

	accept, err := h.autoRespond(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("auto-accept %s for record %s: %w", msg.Type(), rec.ID, err)
	}

	if !accept {
		return nil, nil
	}

	exchange, err := h.respond(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("auto-respond to %s for record %s: %w", msg.Type(), rec.ID, err)
	}

	logger.Debugf("record %s: auto-responded with %s", rec.ID, exchange.Message.Type())

	return exchange.Message, nil
}
