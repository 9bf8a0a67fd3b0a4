/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
)

type mockServer struct {
	host     string
	handler  http.Handler
	certFile string
	err      error
}

func (s *mockServer) ListenAndServe(host string, handler http.Handler, certFile, _ string) error {
	s.host = host
	s.handler = handler
	s.certFile = certFile

	return s.err
}

func TestStartCmdContents(t *testing.T) {
	startCmd := Cmd(&mockServer{})

	require.Equal(t, "start", startCmd.Use)
	require.Equal(t, "Start an issue credential agent", startCmd.Short)
	require.Equal(t, "Start an issue credential controller serving the REST API", startCmd.Long)

	checkFlagPropertiesCorrect(t, startCmd, agentHostFlagName, agentHostFlagShorthand, agentHostFlagUsage, "")
	checkFlagPropertiesCorrect(t, startCmd, agentWebhookFlagName,
		agentWebhookFlagShorthand, agentWebhookFlagUsage, "[]")
	checkFlagPropertiesCorrect(t, startCmd, databaseTypeFlagName, databaseTypeFlagShorthand, databaseTypeFlagUsage, "")
}

func checkFlagPropertiesCorrect(t *testing.T, cmd *cobra.Command, flagName,
	flagShorthand, flagUsage, expectedVal string) {
	flag := cmd.Flag(flagName)

	require.NotNil(t, flag)
	require.Equal(t, flagName, flag.Name)
	require.Equal(t, flagShorthand, flag.Shorthand)
	require.Equal(t, flagUsage, flag.Usage)
	require.Equal(t, expectedVal, flag.Value.String())

	flagAnnotations := flag.Annotations
	require.Nil(t, flagAnnotations)
}

func TestStartCmdWithMissingHostArg(t *testing.T) {
	startCmd := Cmd(&mockServer{})

	startCmd.SetArgs([]string{"--" + databaseTypeFlagName, databaseTypeMemOption})

	err := startCmd.Execute()
	require.EqualError(t, err, "Neither api-host (command line flag) nor ISSUECREDENTIAL_API_HOST"+
		" (environment variable) have been set.")
}

func TestStartCmdWithBlankHostArg(t *testing.T) {
	startCmd := Cmd(&mockServer{})

	startCmd.SetArgs([]string{"--" + agentHostFlagName, "", "--" + databaseTypeFlagName, databaseTypeMemOption})

	err := startCmd.Execute()
	require.ErrorIs(t, err, errMissingHost)
}

func TestStartCmdWithoutDBType(t *testing.T) {
	startCmd := Cmd(&mockServer{})

	startCmd.SetArgs([]string{"--" + agentHostFlagName, "localhost:8080"})

	err := startCmd.Execute()
	require.EqualError(t, err, "Neither database-type (command line flag) nor ISSUECREDENTIAL_DATABASE_TYPE"+
		" (environment variable) have been set.")
}

func TestStartCmdInvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  string
	}{
		{
			name: "unsupported database",
			args: []string{"--" + databaseTypeFlagName, "couchdb"},
			err:  "database type not set to a valid type",
		},
		{
			name: "invalid timeout",
			args: []string{"--" + databaseTypeFlagName, databaseTypeMemOption, "--" + databaseTimeoutFlagName, "soon"},
			err:  "failed to parse db timeout soon",
		},
		{
			name: "invalid auto accept",
			args: []string{"--" + databaseTypeFlagName, databaseTypeMemOption, "--" + agentAutoAcceptFlagName, "maybe"},
			err:  `unknown auto-accept policy "maybe"`,
		},
		{
			name: "invalid log level",
			args: []string{"--" + databaseTypeFlagName, databaseTypeMemOption, "--" + agentLogLevelFlagName, "LOUD"},
			err:  "failed to parse log level 'LOUD'",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			startCmd := Cmd(&mockServer{})

			startCmd.SetArgs(append([]string{"--" + agentHostFlagName, "localhost:8080"}, tc.args...))

			err := startCmd.Execute()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestStartCmdValidArgs(t *testing.T) {
	server := &mockServer{}
	startCmd := Cmd(server)

	startCmd.SetArgs([]string{
		"--" + agentHostFlagName, "localhost:8080",
		"--" + databaseTypeFlagName, databaseTypeLevelDBOption,
		"--" + databasePrefixFlagName, t.TempDir(),
		"--" + agentAutoAcceptFlagName, string(issuecredential.AutoAcceptContentApproved),
		"--" + agentWebhookFlagName, "http://localhost:8081",
		"--" + agentLogLevelFlagName, "DEBUG",
		"--" + agentTLSCertFileFlagName, "cert.pem",
	})

	require.NoError(t, startCmd.Execute())
	require.Equal(t, "localhost:8080", server.host)
	require.Equal(t, "cert.pem", server.certFile)
	require.NotNil(t, server.handler)
}

func TestStartCmdValidArgsEnvVar(t *testing.T) {
	t.Setenv(agentHostEnvKey, "localhost:8080")
	t.Setenv(databaseTypeEnvKey, databaseTypeMemOption)
	t.Setenv(agentWebhookEnvKey, "http://localhost:8081,http://localhost:8082")
	t.Setenv(agentAutoAcceptEnvKey, string(issuecredential.AutoAcceptAlways))

	startCmd := Cmd(&mockServer{})

	parameters, err := getAgentParameters(startCmd)
	require.NoError(t, err)
	require.Equal(t, "localhost:8080", parameters.host)
	require.Equal(t, databaseTypeMemOption, parameters.dbParam.dbType)
	require.Equal(t, uint64(30), parameters.dbParam.timeout)
	require.Equal(t, []string{"http://localhost:8081", "http://localhost:8082"}, parameters.webhookURLs)
	require.Equal(t, issuecredential.AutoAcceptAlways, parameters.autoAccept)
}

func TestStartAgentServerFails(t *testing.T) {
	err := startAgent(&agentParameters{
		server:  &mockServer{err: errors.New("port in use")},
		host:    "localhost:8080",
		dbParam: &dbParam{dbType: databaseTypeMemOption},
	})
	require.EqualError(t, err, "failed to start issuecredential rest on port [localhost:8080], cause:  port in use")
}

func TestStartAgentRequests(t *testing.T) {
	server := &mockServer{}

	require.NoError(t, startAgent(&agentParameters{
		server:     server,
		host:       "localhost:8080",
		dbParam:    &dbParam{dbType: databaseTypeMemOption},
		autoAccept: issuecredential.AutoAcceptNever,
	}))

	rr := httptest.NewRecorder()
	server.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/issuecredential/records", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"records":[]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	server.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/issuecredential/send-offer",
		strings.NewReader(`{"formats":{"ldproof":{"credential":{"@context":["https://www.w3.org/2018/credentials/v1"],`+
			`"type":["VerifiableCredential"],"credentialSubject":{"id":"did:example:holder"}}}}}`)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), issuecredential.StateOfferSent)
}

func TestStartAgentWithAuthorization(t *testing.T) {
	server := &mockServer{}

	require.NoError(t, startAgent(&agentParameters{
		server:  server,
		host:    "localhost:8080",
		token:   "secret",
		dbParam: &dbParam{dbType: databaseTypeMemOption},
	}))

	rr := httptest.NewRecorder()
	server.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/issuecredential/records", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Unauthorised.\n", rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/issuecredential/records", nil)
	req.Header.Set("Authorization", "Bearer secret")

	rr = httptest.NewRecorder()
	server.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateStoreProvider(t *testing.T) {
	store, err := createStoreProvider(&dbParam{dbType: databaseTypeMemOption})
	require.NoError(t, err)
	require.NotNil(t, store)

	store, err = createStoreProvider(&dbParam{dbType: databaseTypeLevelDBOption, prefix: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
