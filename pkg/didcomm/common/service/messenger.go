/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

// DIDCommMsg describes message interface.
type DIDCommMsg interface {
	ID() string
	Type() string
	ThreadID() (string, error)
	ParentThreadID() string
	Clone() DIDCommMsgMap
	Metadata() map[string]interface{}
	Decode(v interface{}) error
}

// DIDCommContext holds information on the context in which a DIDCommMsg is being processed.
// ConnectionID is empty for connection-less exchanges (e.g. out-of-band offers).
type DIDCommContext interface {
	ConnectionID() string
	MyDID() string
	TheirDID() string
	EventProperties
}

// NewDIDCommContext returns a new DIDCommContext with the given DIDs and properties.
func NewDIDCommContext(myDID, theirDID string, props map[string]interface{}) DIDCommContext {
	return NewConnectionContext("", myDID, theirDID, props)
}

// NewConnectionContext returns a new DIDCommContext bound to the given connection.
func NewConnectionContext(connectionID, myDID, theirDID string, props map[string]interface{}) DIDCommContext {
	if props == nil {
		props = map[string]interface{}{}
	}

	return &didCommContext{
		connectionID: connectionID,
		myDID:        myDID,
		theirDID:     theirDID,
		props:        props,
	}
}

// EmptyDIDCommContext returns a DIDCommContext with no DIDs nor properties.
func EmptyDIDCommContext() DIDCommContext {
	return NewDIDCommContext("", "", nil)
}

type didCommContext struct {
	connectionID string
	myDID        string
	theirDID     string
	props        map[string]interface{}
}

func (c *didCommContext) ConnectionID() string {
	return c.connectionID
}

func (c *didCommContext) MyDID() string {
	return c.myDID
}

func (c *didCommContext) TheirDID() string {
	return c.theirDID
}

func (c *didCommContext) All() map[string]interface{} {
	return c.props
}
