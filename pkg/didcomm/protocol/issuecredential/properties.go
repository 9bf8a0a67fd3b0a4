/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

const (
	previousStatePropKey = "previousState"
	recordIDPropKey      = "recordID"
	threadIDPropKey      = "threadID"
	connectionIDPropKey  = "connectionID"
	recordPropKey        = "record"
)

// StateChange are the properties of a state-changed event.
type StateChange interface {
	// PreviousState is empty when the transition created the record.
	PreviousState() string
	Record() *Record
	All() map[string]interface{}
}

type eventProps struct {
	previousState string
	record        *Record
}

func newEventProps(previousState string, rec *Record) *eventProps {
	return &eventProps{previousState: previousState, record: rec}
}

func (e *eventProps) PreviousState() string {
	return e.previousState
}

func (e *eventProps) Record() *Record {
	return e.record
}

// All implements EventProperties interface.
func (e *eventProps) All() map[string]interface{} {
	props := map[string]interface{}{
		previousStatePropKey: e.previousState,
		recordIDPropKey:      e.record.ID,
		threadIDPropKey:      e.record.ThreadID,
		recordPropKey:        e.record,
	}

	if e.record.ConnectionID != "" {
		props[connectionIDPropKey] = e.record.ConnectionID
	}

	return props
}
