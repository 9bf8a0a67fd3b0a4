/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package webnotifier forwards exchange state events to webhook subscribers and websocket clients.
package webnotifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/command"
	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/rest"
)

var logger = log.New("aries-framework/issuecredential/webnotifier")

const (
	notificationSendTimeout = 10 * time.Second

	emptyTopicErrMsg     = "cannot notify with an empty topic"
	emptyMessageErrMsg   = "cannot notify with an empty message"
	failedToCreateErrMsg = "failed to create topic message : %w"
)

// WebNotifier notifies every webhook URL and every connected websocket client.
type WebNotifier struct {
	notifiers []command.Notifier
	handlers  []rest.Handler
}

// New returns a WebNotifier serving websocket clients on wsPath and posting to webhookURLs.
func New(wsPath string, webhookURLs []string, opts ...HTTPOpt) *WebNotifier {
	ws := NewWSNotifier(wsPath)

	return &WebNotifier{
		notifiers: []command.Notifier{NewHTTPNotifier(webhookURLs, opts...), ws},
		handlers:  ws.GetRESTHandlers(),
	}
}

// Notify sends the message to every subscriber. Every failure is reported.
func (n *WebNotifier) Notify(topic string, message []byte) error {
	var allErrs error

	for _, notifier := range n.notifiers {
		allErrs = appendError(allErrs, notifier.Notify(topic, message))
	}

	return allErrs
}

// GetRESTHandlers returns the websocket endpoint handlers.
func (n *WebNotifier) GetRESTHandlers() []rest.Handler {
	return n.handlers
}

// topicMessage is the envelope subscribers receive.
type topicMessage struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Message json.RawMessage `json:"message"`
}

// PrepareTopicMessage wraps message in the {id, topic, message} envelope.
func PrepareTopicMessage(topic string, message []byte) ([]byte, error) {
	return json.Marshal(&topicMessage{
		ID:      uuid.New().String(),
		Topic:   topic,
		Message: message,
	})
}

func appendError(errs, err error) error {
	if err == nil {
		return errs
	}

	if errs == nil {
		return err
	}

	return errors.Join(errs, err)
}

func validateNotification(topic string, message []byte) error {
	if topic == "" {
		return errors.New(emptyTopicErrMsg)
	}

	if len(message) == 0 {
		return errors.New(emptyMessageErrMsg)
	}

	return nil
}

func prepare(topic string, message []byte) ([]byte, error) {
	if err := validateNotification(topic, message); err != nil {
		return nil, err
	}

	topicMsg, err := PrepareTopicMessage(topic, message)
	if err != nil {
		return nil, fmt.Errorf(failedToCreateErrMsg, err)
	}

	return topicMsg, nil
}
