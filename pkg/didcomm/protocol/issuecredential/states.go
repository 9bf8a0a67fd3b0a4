/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import "fmt"

const (
	// StateProposalSent the holder sent a proposal.
	StateProposalSent = "proposal-sent"
	// StateProposalReceived the issuer received a proposal.
	StateProposalReceived = "proposal-received"
	// StateOfferSent the issuer sent an offer.
	StateOfferSent = "offer-sent"
	// StateOfferReceived the holder received an offer.
	StateOfferReceived = "offer-received"
	// StateRequestSent the holder sent a request.
	StateRequestSent = "request-sent"
	// StateRequestReceived the issuer received a request.
	StateRequestReceived = "request-received"
	// StateCredentialIssued the issuer sent the credential.
	StateCredentialIssued = "credential-issued"
	// StateCredentialReceived the holder received the credential.
	StateCredentialReceived = "credential-received"
	// StateDone the exchange completed.
	StateDone = "done"
	// StateAbandoned the exchange was aborted.
	StateAbandoned = "abandoned"

	// stateNameStart is the pseudo state of an exchange that has no record yet.
	stateNameStart = "start"
)

// the protocol's state.
type state interface {
	// Name of this state.
	Name() string
	// Whether this state allows transitioning into the next state.
	CanTransitionTo(next state) bool
}

// start state
type start struct{}

func (s *start) Name() string {
	return stateNameStart
}

func (s *start) CanTransitionTo(st state) bool {
	switch st.Name() {
	case StateProposalSent, StateProposalReceived,
		StateOfferSent, StateOfferReceived,
		StateRequestSent, StateRequestReceived:
		return true
	}

	return false
}

// proposalSent state
type proposalSent struct{}

func (s *proposalSent) Name() string {
	return StateProposalSent
}

func (s *proposalSent) CanTransitionTo(st state) bool {
	return st.Name() == StateOfferReceived || st.Name() == StateAbandoned
}

// proposalReceived state
type proposalReceived struct{}

func (s *proposalReceived) Name() string {
	return StateProposalReceived
}

func (s *proposalReceived) CanTransitionTo(st state) bool {
	// a proposal is answered with an offer, never a counter proposal
	return st.Name() == StateOfferSent || st.Name() == StateAbandoned
}

// offerSent state
type offerSent struct{}

func (s *offerSent) Name() string {
	return StateOfferSent
}

func (s *offerSent) CanTransitionTo(st state) bool {
	return st.Name() == StateProposalReceived ||
		st.Name() == StateRequestReceived ||
		st.Name() == StateAbandoned
}

// offerReceived state
type offerReceived struct{}

func (s *offerReceived) Name() string {
	return StateOfferReceived
}

func (s *offerReceived) CanTransitionTo(st state) bool {
	return st.Name() == StateRequestSent ||
		st.Name() == StateProposalSent ||
		st.Name() == StateAbandoned
}

// requestSent state
type requestSent struct{}

func (s *requestSent) Name() string {
	return StateRequestSent
}

func (s *requestSent) CanTransitionTo(st state) bool {
	return st.Name() == StateCredentialReceived || st.Name() == StateAbandoned
}

// requestReceived state
type requestReceived struct{}

func (s *requestReceived) Name() string {
	return StateRequestReceived
}

func (s *requestReceived) CanTransitionTo(st state) bool {
	return st.Name() == StateCredentialIssued || st.Name() == StateAbandoned
}

// credentialIssued state
type credentialIssued struct{}

func (s *credentialIssued) Name() string {
	return StateCredentialIssued
}

func (s *credentialIssued) CanTransitionTo(st state) bool {
	return st.Name() == StateDone || st.Name() == StateAbandoned
}

// credentialReceived state
type credentialReceived struct{}

func (s *credentialReceived) Name() string {
	return StateCredentialReceived
}

func (s *credentialReceived) CanTransitionTo(st state) bool {
	return st.Name() == StateDone || st.Name() == StateAbandoned
}

// done state
type done struct{}

func (s *done) Name() string {
	return StateDone
}

func (s *done) CanTransitionTo(_ state) bool {
	return false
}

// abandoned state
type abandoned struct{}

func (s *abandoned) Name() string {
	return StateAbandoned
}

func (s *abandoned) CanTransitionTo(_ state) bool {
	return false
}

// nolint: gocyclo
func stateFromName(name string) (state, error) {
	switch name {
	case "", stateNameStart:
		return &start{}, nil
	case StateProposalSent:
		return &proposalSent{}, nil
	case StateProposalReceived:
		return &proposalReceived{}, nil
	case StateOfferSent:
		return &offerSent{}, nil
	case StateOfferReceived:
		return &offerReceived{}, nil
	case StateRequestSent:
		return &requestSent{}, nil
	case StateRequestReceived:
		return &requestReceived{}, nil
	case StateCredentialIssued:
		return &credentialIssued{}, nil
	case StateCredentialReceived:
		return &credentialReceived{}, nil
	case StateDone:
		return &done{}, nil
	case StateAbandoned:
		return &abandoned{}, nil
	default:
		return nil, fmt.Errorf("invalid state name %s", name)
	}
}

// canTransition reports whether a record in state from may move to state to.
func canTransition(from, to string) error {
	current, err := stateFromName(from)
	if err != nil {
		return err
	}

	next, err := stateFromName(to)
	if err != nil {
		return err
	}

	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, current.Name(), next.Name())
	}

	return nil
}
