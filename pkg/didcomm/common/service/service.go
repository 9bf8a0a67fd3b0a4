/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import "context"

// InboundHandler is a handler for inbound messages.
// The returned message, if not nil, is the reply to send back on the same channel.
type InboundHandler interface {
	HandleInbound(ctx context.Context, msg DIDCommMsg, didCommCtx DIDCommContext) (DIDCommMsgMap, error)
}

// Event event related apis.
type Event interface {
	// RegisterMsgEvent on protocol messages. The message events are triggered for every committed
	// state transition. Service will not expect any callback on these events.
	RegisterMsgEvent(ch chan<- StateMsg) error

	// UnregisterMsgEvent on protocol messages. Refer RegisterMsgEvent().
	UnregisterMsgEvent(ch chan<- StateMsg) error
}
