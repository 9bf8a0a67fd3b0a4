/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

//go:generate mockgen -destination=../../internal/gomocks/controller/command/mocks.gen.go -self_package mocks -package mocks . Notifier

import (
	"io"
)

// Exec is controller command execution function type.
type Exec func(rw io.Writer, req io.Reader) Error

// Handler for each controller command.
type Handler interface {
	// name of the command
	Name() string
	// method name of the command
	Method() string
	// execute function of the command
	Handle() Exec
}

// NewHandler returns the Handler running exec for method of the named command.
func NewHandler(name, method string, exec Exec) Handler {
	return &handler{name: name, method: method, exec: exec}
}

type handler struct {
	name   string
	method string
	exec   Exec
}

func (h *handler) Name() string   { return h.name }
func (h *handler) Method() string { return h.method }
func (h *handler) Handle() Exec   { return h.exec }

// Notifier represents a notification dispatcher.
type Notifier interface {
	Notify(topic string, message []byte) error
}
