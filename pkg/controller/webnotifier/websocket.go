/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"context"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/rest"
)

// WSNotifier is a dispatcher capable of notifying multiple subscribers via WebSocket.
type WSNotifier struct {
	conns     []*websocket.Conn
	connsLock sync.RWMutex
	handlers  []rest.Handler
}

// NewWSNotifier returns a new instance of an WSNotifier.
func NewWSNotifier(path string) *WSNotifier {
	n := WSNotifier{
		conns: []*websocket.Conn{},
	}

	n.handlers = []rest.Handler{
		rest.NewHandler(path, http.MethodGet, n.handleWS),
	}

	return &n
}

// Notify sends the given message to all of the WS clients.
func (n *WSNotifier) Notify(topic string, message []byte) error {
	topicMsg, err := prepare(topic, message)
	if err != nil {
		return err
	}

	n.connsLock.RLock()
	conns := make([]*websocket.Conn, len(n.conns))
	copy(conns, n.conns)
	n.connsLock.RUnlock()

	var allErrs error

	for _, conn := range conns {
		allErrs = appendError(allErrs, notifyWS(context.Background(), conn, topicMsg))
	}

	return allErrs
}

func notifyWS(parent context.Context, conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(parent, notificationSendTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, message)
}

func (n *WSNotifier) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Infof("failed to upgrade the websocket notification connection : %v", err)
		return
	}

	n.connsLock.Lock()
	n.conns = append(n.conns, conn)
	n.connsLock.Unlock()

	logger.Debugf("websocket notification client connected")

	n.monitorWSConn(context.Background(), conn)
}

// monitorWSConn blocks until the client goes away. Clients are not expected to send anything.
func (n *WSNotifier) monitorWSConn(ctx context.Context, conn *websocket.Conn) {
	_, _, err := conn.Reader(ctx)
	if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		logger.Infof("reading from websocket notification client failed: %v", err)
	}

	if err = conn.Close(websocket.StatusPolicyViolation, "unexpected message"); err != nil {
		logger.Debugf("closing websocket notification client failed: %v", err)
	}

	n.removeConn(conn)
}

func (n *WSNotifier) removeConn(conn *websocket.Conn) {
	logger.Debugf("websocket notification client dropped")

	n.connsLock.Lock()
	defer n.connsLock.Unlock()

	var conns []*websocket.Conn

	for _, c := range n.conns {
		if c != conn {
			conns = append(conns, c)
		}
	}

	n.conns = conns
}

// GetRESTHandlers returns all REST handlers provided by notifier.
func (n *WSNotifier) GetRESTHandlers() []rest.Handler {
	return n.handlers
}
