/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPNotifier is a webhook dispatcher capable of notifying multiple subscribers via HTTP.
type HTTPNotifier struct {
	urls       []string
	client     *http.Client
	retryDelay time.Duration
	maxRetries uint64
}

// HTTPOpt configures an HTTPNotifier.
type HTTPOpt func(n *HTTPNotifier)

// WithHTTPClient sets the client subscribers are posted with.
func WithHTTPClient(client *http.Client) HTTPOpt {
	return func(n *HTTPNotifier) {
		n.client = client
	}
}

// WithRetry retries a failed post up to maxRetries times, delay apart.
func WithRetry(delay time.Duration, maxRetries uint64) HTTPOpt {
	return func(n *HTTPNotifier) {
		n.retryDelay = delay
		n.maxRetries = maxRetries
	}
}

// NewHTTPNotifier returns a new instance of an HTTPNotifier.
func NewHTTPNotifier(webhookURLs []string, opts ...HTTPOpt) *HTTPNotifier {
	n := &HTTPNotifier{urls: webhookURLs, client: http.DefaultClient}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify posts the message to every webhook. The topic is appended to the webhook URL path,
// e.g. localhost:8080/issuecredential_states.
func (n *HTTPNotifier) Notify(topic string, message []byte) error {
	topicMsg, err := prepare(topic, message)
	if err != nil {
		return err
	}

	var allErrs error

	for _, webhookURL := range n.urls {
		destination := strings.TrimSuffix(webhookURL, "/") + "/" + topic

		err := backoff.Retry(func() error {
			return n.notifyWH(destination, topicMsg)
		}, backoff.WithMaxRetries(backoff.NewConstantBackOff(n.retryDelay), n.maxRetries))
		allErrs = appendError(allErrs, err)
	}

	return allErrs
}

func (n *HTTPNotifier) notifyWH(destination string, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), notificationSendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination,
		bytes.NewBuffer(message))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create new http post request for %s: %w", destination, err))
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification to %s: %w", destination, err)
	}

	defer closeResponse(resp.Body)

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		logger.Debugf("notification sent to %s", destination)
		return nil
	}

	return fmt.Errorf("notification was sent to %s, but %s was received",
		destination, resp.Status)
}

func closeResponse(c io.Closer) {
	err := c.Close()
	if err != nil {
		logger.Errorf("Failed to close response body")
	}
}
