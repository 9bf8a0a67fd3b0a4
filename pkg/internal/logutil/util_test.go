/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) record(level, msg string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(msg, args...))
}

func (r *recordingLogger) Panicf(msg string, args ...interface{}) { r.record("PANIC", msg, args...) }
func (r *recordingLogger) Fatalf(msg string, args ...interface{}) { r.record("FATAL", msg, args...) }
func (r *recordingLogger) Errorf(msg string, args ...interface{}) { r.record("ERROR", msg, args...) }
func (r *recordingLogger) Warnf(msg string, args ...interface{})  { r.record("WARN", msg, args...) }
func (r *recordingLogger) Infof(msg string, args ...interface{})  { r.record("INFO", msg, args...) }
func (r *recordingLogger) Debugf(msg string, args ...interface{}) { r.record("DEBUG", msg, args...) }

func TestLogHelpers(t *testing.T) {
	l := &recordingLogger{}

	LogError(l, "issuecredential", "SendOffer", "boom", CreateKeyValueString("recordID", "r1"))
	LogDebug(l, "issuecredential", "Records", "success")
	LogInfo(l, "issuecredential", "AcceptOffer", "bad input",
		CreateKeyValueString("recordID", "r2"), CreateKeyValueString("state", "offer-received"))

	require.Equal(t, []string{
		"ERROR command=[issuecredential] action=[SendOffer] recordID=[r1] errMsg=[boom]",
		"DEBUG command=[issuecredential] action=[Records]  msg=[success]",
		"INFO command=[issuecredential] action=[AcceptOffer] recordID=[r2] state=[offer-received] msg=[bad input]",
	}, l.lines)
}
