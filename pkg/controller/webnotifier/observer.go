/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"encoding/json"
	"sync"

	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/command"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
)

// StateMsg is the notification payload of a state event.
type StateMsg struct {
	ProtocolName string                 `json:"protocol_name"`
	Type         string                 `json:"type"`
	StateID      string                 `json:"state_id"`
	Message      service.DIDCommMsgMap  `json:"message,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// Observer forwards events from channels to a notifier.
type Observer struct {
	notifier command.Notifier
}

// NewObserver returns an observer notifying through notifier.
func NewObserver(notifier command.Notifier) *Observer {
	return &Observer{notifier: notifier}
}

// RegisterStateMsg forwards every event read from ch under topic until ch is closed.
// Events are read off ch as they arrive and queued in order, so a notifier stuck in
// retries does not make the publisher drop events for a full channel.
func (o *Observer) RegisterStateMsg(topic string, ch <-chan service.StateMsg) {
	q := newEventQueue()

	go func() {
		for msg := range ch {
			q.push(toStateMsg(msg))
		}

		q.close()
	}()

	go func() {
		for {
			msg, ok := q.pop()
			if !ok {
				return
			}

			o.notify(topic, msg)
		}
	}()
}

// eventQueue is an unbounded FIFO of pending notifications.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*StateMsg
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)

	return q
}

func (q *eventQueue) push(msg *StateMsg) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()

	q.cond.Signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// pop blocks until an event is queued. It returns false once the queue is closed and empty.
func (q *eventQueue) pop() (*StateMsg, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return nil, false
	}

	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return msg, true
}

func (o *Observer) notify(topic string, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("observer %s: marshal event: %v", topic, err)
		return
	}

	if err = o.notifier.Notify(topic, bytes); err != nil {
		logger.Errorf("observer %s: notify: %v", topic, err)
	}
}

func toStateMsg(msg service.StateMsg) *StateMsg {
	s := &StateMsg{
		ProtocolName: msg.ProtocolName,
		Type:         msg.Type.String(),
		StateID:      msg.StateID,
	}

	if msg.Msg != nil {
		s.Message = msg.Msg.Clone()
	}

	if msg.Properties != nil {
		s.Properties = msg.Properties.All()
	}

	return s
}
