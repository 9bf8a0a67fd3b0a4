/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logutil

import (
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/spi/log"
)

// LogError is a utility function to log error messages.
func LogError(logger log.Logger, command, action, errMsg string, data ...string) {
	logger.Errorf("command=[%s] action=[%s] %s errMsg=[%s]", command, action, join(data), errMsg)
}

// LogDebug is a utility function to log debug messages.
func LogDebug(logger log.Logger, command, action, msg string, data ...string) {
	logger.Debugf("command=[%s] action=[%s] %s msg=[%s]", command, action, join(data), msg)
}

// LogInfo is a utility function to log info messages.
func LogInfo(logger log.Logger, command, action, msg string, data ...string) {
	logger.Infof("command=[%s] action=[%s] %s msg=[%s]", command, action, join(data), msg)
}

// CreateKeyValueString creates a concatenated string.
func CreateKeyValueString(key, val string) string {
	return fmt.Sprintf("%s=[%s]", key, val)
}

func join(data []string) string {
	return strings.Join(data, " ")
}
