/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuecredential-rest (Issue Credential REST Server).
//
//
// Terms Of Service:
//
//
//     Schemes: https
//     Version: 0.1.0
//     License: SPDX-License-Identifier: Apache-2.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-issuecredential-go/cmd/issuecredential-rest/startcmd"
)

// This is an application which starts the issue credential controller API on given port.
func main() {
	rootCmd := &cobra.Command{
		Use: "issuecredential-rest",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("aries-framework/issuecredential/agent-rest")

	rootCmd.AddCommand(startcmd.Cmd(&startcmd.HTTPServer{}))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run issuecredential-rest: %s", err)
	}
}
