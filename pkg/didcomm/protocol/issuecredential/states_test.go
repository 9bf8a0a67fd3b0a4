/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// nolint: gochecknoglobals
var allStates = [...]state{
	&start{}, &done{}, &abandoned{},
	// states for Issuer
	&proposalReceived{}, &offerSent{}, &requestReceived{}, &credentialIssued{},
	// states for Holder
	&proposalSent{}, &offerReceived{}, &requestSent{}, &credentialReceived{},
}

func notTransition(t *testing.T, st state) {
	t.Helper()

	for _, s := range allStates {
		require.False(t, st.CanTransitionTo(s))
	}
}

func TestStart_CanTransitionTo(t *testing.T) {
	st := &start{}
	require.Equal(t, stateNameStart, st.Name())
	// common states
	require.False(t, st.CanTransitionTo(&start{}))
	require.False(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&done{}))
	// states for Issuer
	require.True(t, st.CanTransitionTo(&proposalReceived{}))
	require.True(t, st.CanTransitionTo(&offerSent{}))
	require.True(t, st.CanTransitionTo(&requestReceived{}))
	require.False(t, st.CanTransitionTo(&credentialIssued{}))
	// states for Holder
	require.True(t, st.CanTransitionTo(&proposalSent{}))
	require.True(t, st.CanTransitionTo(&offerReceived{}))
	require.True(t, st.CanTransitionTo(&requestSent{}))
	require.False(t, st.CanTransitionTo(&credentialReceived{}))
}

func TestProposalSent_CanTransitionTo(t *testing.T) {
	st := &proposalSent{}
	require.Equal(t, StateProposalSent, st.Name())
	require.True(t, st.CanTransitionTo(&offerReceived{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&proposalSent{}))
	require.False(t, st.CanTransitionTo(&requestSent{}))
	require.False(t, st.CanTransitionTo(&done{}))
}

func TestProposalReceived_CanTransitionTo(t *testing.T) {
	st := &proposalReceived{}
	require.Equal(t, StateProposalReceived, st.Name())
	require.True(t, st.CanTransitionTo(&offerSent{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&proposalSent{}))
	require.False(t, st.CanTransitionTo(&requestReceived{}))
	require.False(t, st.CanTransitionTo(&credentialIssued{}))
}

func TestOfferSent_CanTransitionTo(t *testing.T) {
	st := &offerSent{}
	require.Equal(t, StateOfferSent, st.Name())
	require.True(t, st.CanTransitionTo(&proposalReceived{}))
	require.True(t, st.CanTransitionTo(&requestReceived{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&offerSent{}))
	require.False(t, st.CanTransitionTo(&credentialIssued{}))
}

func TestOfferReceived_CanTransitionTo(t *testing.T) {
	st := &offerReceived{}
	require.Equal(t, StateOfferReceived, st.Name())
	require.True(t, st.CanTransitionTo(&requestSent{}))
	require.True(t, st.CanTransitionTo(&proposalSent{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&offerReceived{}))
	require.False(t, st.CanTransitionTo(&credentialReceived{}))
}

func TestRequestSent_CanTransitionTo(t *testing.T) {
	st := &requestSent{}
	require.Equal(t, StateRequestSent, st.Name())
	require.True(t, st.CanTransitionTo(&credentialReceived{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&done{}))
	require.False(t, st.CanTransitionTo(&offerReceived{}))
}

func TestRequestReceived_CanTransitionTo(t *testing.T) {
	st := &requestReceived{}
	require.Equal(t, StateRequestReceived, st.Name())
	require.True(t, st.CanTransitionTo(&credentialIssued{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&done{}))
	require.False(t, st.CanTransitionTo(&offerSent{}))
}

func TestCredentialIssued_CanTransitionTo(t *testing.T) {
	st := &credentialIssued{}
	require.Equal(t, StateCredentialIssued, st.Name())
	require.True(t, st.CanTransitionTo(&done{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&credentialReceived{}))
}

func TestCredentialReceived_CanTransitionTo(t *testing.T) {
	st := &credentialReceived{}
	require.Equal(t, StateCredentialReceived, st.Name())
	require.True(t, st.CanTransitionTo(&done{}))
	require.True(t, st.CanTransitionTo(&abandoned{}))
	require.False(t, st.CanTransitionTo(&credentialIssued{}))
}

func TestDone_CanTransitionTo(t *testing.T) {
	st := &done{}
	require.Equal(t, StateDone, st.Name())
	notTransition(t, st)
}

func TestAbandoned_CanTransitionTo(t *testing.T) {
	st := &abandoned{}
	require.Equal(t, StateAbandoned, st.Name())
	notTransition(t, st)
}

func TestStateFromName(t *testing.T) {
	for _, expected := range allStates {
		st, err := stateFromName(expected.Name())
		require.NoError(t, err)
		require.Equal(t, expected, st)
	}

	st, err := stateFromName("")
	require.NoError(t, err)
	require.Equal(t, &start{}, st)

	st, err = stateFromName("unknown")
	require.EqualError(t, err, "invalid state name unknown")
	require.Nil(t, st)
}

func TestCanTransition(t *testing.T) {
	require.NoError(t, canTransition(StateOfferSent, StateRequestReceived))
	require.True(t, errors.Is(canTransition(StateDone, StateAbandoned), ErrInvalidState))
	require.EqualError(t, canTransition(StateDone, "unknown"), "invalid state name unknown")
	require.EqualError(t, canTransition("unknown", StateDone), "invalid state name unknown")
}

func TestTransitionTableProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	stateGen := gen.IntRange(0, len(allStates)-1)

	properties.Property("terminal states never transition", prop.ForAll(
		func(i int) bool {
			next := allStates[i]

			return !(&done{}).CanTransitionTo(next) && !(&abandoned{}).CanTransitionTo(next)
		},
		stateGen,
	))

	properties.Property("every active state may be abandoned", prop.ForAll(
		func(i int) bool {
			current := allStates[i]

			switch current.Name() {
			case StateDone, StateAbandoned, stateNameStart:
				return !current.CanTransitionTo(&abandoned{})
			default:
				return current.CanTransitionTo(&abandoned{})
			}
		},
		stateGen,
	))

	properties.Property("no state transitions into start or itself", prop.ForAll(
		func(i int) bool {
			current := allStates[i]

			return !current.CanTransitionTo(&start{}) && !current.CanTransitionTo(current)
		},
		stateGen,
	))

	properties.TestingRun(t)
}
