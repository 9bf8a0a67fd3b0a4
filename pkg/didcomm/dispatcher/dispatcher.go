/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
)

var logger = log.New("aries-framework/issuecredential/dispatcher")

// ErrNoHandler is returned when no registered service accepts a message type.
var ErrNoHandler = errors.New("no message handlers found")

// Service protocol service.
type Service interface {
	service.InboundHandler
	Accept(msgType string) bool
	Name() string
}

// Inbound routes inbound messages to the first registered service that accepts their type.
// Messages of the same thread and connection are handled one at a time.
// Only inbound messages take that lock. Outbound operations called directly on a service, such as
// accept or negotiate through the REST API, race only against the record revision check in storage,
// and that check is a read followed by a batch write, not an atomic compare-and-swap.
type Inbound struct {
	services []Service

	mu    sync.Mutex
	locks map[lockKey]*threadLock
}

type lockKey struct {
	threadID     string
	connectionID string
}

type threadLock struct {
	sync.Mutex
	refs int
}

// NewInbound returns a dispatcher over services, tried in order.
func NewInbound(services ...Service) *Inbound {
	return &Inbound{
		services: services,
		locks:    map[lockKey]*threadLock{},
	}
}

// Services returns the registered services.
func (d *Inbound) Services() []Service {
	return append([]Service(nil), d.services...)
}

// Lookup returns the service registered under name.
func (d *Inbound) Lookup(name string) (Service, bool) {
	for _, svc := range d.services {
		if svc.Name() == name {
			return svc, true
		}
	}

	return nil, false
}

// HandleInbound dispatches msg and returns the reply of the service that handled it, if any.
func (d *Inbound) HandleInbound(ctx context.Context, msg service.DIDCommMsg,
	didCtx service.DIDCommContext) (service.DIDCommMsgMap, error) {
	var found Service

	for _, svc := range d.services {
		if svc.Accept(msg.Type()) {
			found = svc
			break
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%w for the message type: %s", ErrNoHandler, msg.Type())
	}

	thid, err := msg.ThreadID()
	if err != nil {
		return nil, fmt.Errorf("threadID: %w", err)
	}

	if didCtx == nil {
		didCtx = service.EmptyDIDCommContext()
	}

	key := lockKey{threadID: thid, connectionID: didCtx.ConnectionID()}

	unlock := d.lock(key)
	defer unlock()

	logger.Debugf("dispatching %s on thread %s to %s", msg.Type(), thid, found.Name())

	return found.HandleInbound(ctx, msg, didCtx)
}

func (d *Inbound) lock(key lockKey) func() {
	d.mu.Lock()

	l, ok := d.locks[key]
	if !ok {
		l = &threadLock{}
		d.locks[key] = l
	}

	l.refs++
	d.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		d.mu.Lock()
		defer d.mu.Unlock()

		l.refs--
		if l.refs == 0 {
			delete(d.locks, key)
		}
	}
}

// pending reports how many thread locks are held or awaited.
func (d *Inbound) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.locks)
}
