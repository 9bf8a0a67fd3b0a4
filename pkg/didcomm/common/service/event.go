/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

// StateMsgType state msg type.
type StateMsgType int

const (
	// PreState pre state.
	PreState StateMsgType = iota

	// PostState post state.
	PostState
)

// String returns the name of the state msg type.
func (t StateMsgType) String() string {
	if t == PreState {
		return "pre_state"
	}

	return "post_state"
}

// StateMsg is used in MsgEvent to pass the state details to the consumer. Refer service.Event.RegisterMsgEvent
// for more details.
type StateMsg struct {
	// Name of the protocol.
	//
	// Supported protocols
	//   - Issue Credential :  issuecredential.Name
	ProtocolName string

	// type of the message (pre or post), refer service.StateMsgType
	Type StateMsgType

	// current state. Refer protocol RFC for possible states.
	StateID string

	// DIDComm message along with message type
	Msg DIDCommMsg

	// Properties contains value based on specific protocol. The consumers need to call the protocol client
	// functions to get the data.
	Properties EventProperties
}

// EventProperties type for event related data.
// NOTE: Properties always should be serializable.
type EventProperties interface {
	All() map[string]interface{}
}
