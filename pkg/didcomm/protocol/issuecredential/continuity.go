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

// ContinuityInput is what a continuity check sees for one inbound message on an existing exchange.
type ContinuityInput struct {
	Record  *Record
	Message service.DIDCommMsg
	Context service.DIDCommContext
	// LastSent and LastReceived are nil when the agent has not sent or received a message on the thread.
	LastSent     *StoredMessage
	LastReceived *StoredMessage
}

// ContinuityChecker fails when an inbound message does not belong to the channel established for its thread.
type ContinuityChecker interface {
	AssertContinuity(ctx context.Context, in *ContinuityInput) error
}

// ContinuityCheckerFunc is a function adapter for ContinuityChecker.
type ContinuityCheckerFunc func(ctx context.Context, in *ContinuityInput) error

// AssertContinuity calls f.
func (f ContinuityCheckerFunc) AssertContinuity(ctx context.Context, in *ContinuityInput) error {
	return f(ctx, in)
}

// DIDContinuityChecker requires the DIDs of an inbound message to match the DIDs of the
// messages already exchanged on the thread. Unknown DIDs on either side are not compared.
type DIDContinuityChecker struct{}

// AssertContinuity implements ContinuityChecker.
func (DIDContinuityChecker) AssertContinuity(_ context.Context, in *ContinuityInput) error {
	if in.Context == nil {
		return nil
	}

	for _, prev := range []*StoredMessage{in.LastReceived, in.LastSent} {
		if prev == nil {
			continue
		}

		if differ(prev.TheirDID, in.Context.TheirDID()) {
			return fmt.Errorf("%w: sender %s does not match %s of thread %s",
				ErrContinuity, in.Context.TheirDID(), prev.TheirDID, in.Record.ThreadID)
		}

		if differ(prev.MyDID, in.Context.MyDID()) {
			return fmt.Errorf("%w: recipient %s does not match %s of thread %s",
				ErrContinuity, in.Context.MyDID(), prev.MyDID, in.Record.ThreadID)
		}
	}

	if pthid := in.Message.ParentThreadID(); pthid != "" && in.Record.ParentThreadID != "" &&
		pthid != in.Record.ParentThreadID {
		return fmt.Errorf("%w: parent thread %s does not match %s", ErrContinuity, pthid, in.Record.ParentThreadID)
	}

	return nil
}

func differ(a, b string) bool {
	return a != "" && b != "" && a != b
}
