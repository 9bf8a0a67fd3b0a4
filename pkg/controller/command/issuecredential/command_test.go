/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/command"
	mocks "github.com/hyperledger/aries-issuecredential-go/pkg/internal/gomocks/controller/command"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/common/service"
	protocol "github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential/formats/ldproof"
)

const (
	issuerConn = "issuer-conn"
	holderConn = "holder-conn"
)

type provider struct {
	storage storage.Provider
}

func (p *provider) StorageProvider() storage.Provider {
	return p.storage
}

func newCommand(t *testing.T, notifier command.Notifier, policy protocol.AutoAcceptPolicy) *Command {
	t.Helper()

	svc, err := protocol.New(&provider{storage: mem.NewProvider()},
		protocol.WithFormatServices(ldproof.New()),
		protocol.WithAutoAcceptPolicy(policy),
	)
	require.NoError(t, err)

	cmd, err := New(svc, notifier)
	require.NoError(t, err)

	return cmd
}

func detail() map[string]interface{} {
	return map[string]interface{}{
		"credential": map[string]interface{}{
			"@context":          []interface{}{"https://www.w3.org/2018/credentials/v1"},
			"type":              []interface{}{"VerifiableCredential", "UniversityDegreeCredential"},
			"credentialSubject": map[string]interface{}{"id": "did:example:holder", "degree": "BSc"},
		},
		"options": map[string]interface{}{"proofType": "Ed25519Signature2018"},
	}
}

func signedCredential() map[string]interface{} {
	return map[string]interface{}{
		"@context":          []interface{}{"https://www.w3.org/2018/credentials/v1"},
		"id":                "urn:uuid:credential-1",
		"type":              []interface{}{"VerifiableCredential", "UniversityDegreeCredential"},
		"issuer":            "did:example:issuer",
		"credentialSubject": map[string]interface{}{"id": "did:example:holder", "degree": "BSc"},
		"proof":             map[string]interface{}{"type": "Ed25519Signature2018", "jws": "eyJ..."},
	}
}

func request(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()

	bits, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewBuffer(bits)
}

func exec(t *testing.T, fn command.Exec, args interface{}, out interface{}) {
	t.Helper()

	var b bytes.Buffer

	require.NoError(t, toError(fn(&b, request(t, args))))

	if out != nil {
		require.NoError(t, json.Unmarshal(b.Bytes(), out))
	}
}

func toError(err command.Error) error {
	if err == nil {
		return nil
	}

	return err
}

func deliver(t *testing.T, to *Command, msg service.DIDCommMsgMap, connectionID string) *HandleInboundResponse {
	t.Helper()

	res := &HandleInboundResponse{}
	exec(t, to.HandleInbound, &HandleInboundArgs{Message: msg, ConnectionID: connectionID}, res)

	return res
}

func singleRecord(t *testing.T, c *Command, state string) *protocol.Record {
	t.Helper()

	res := &RecordsResponse{}
	exec(t, c.Records, &RecordsArgs{State: state}, res)
	require.Len(t, res.Records, 1)

	return res.Records[0]
}

func TestNew(t *testing.T) {
	cmd := newCommand(t, nil, protocol.AutoAcceptNever)
	require.Len(t, cmd.GetHandlers(), 15)

	for _, h := range cmd.GetHandlers() {
		require.Equal(t, CommandName, h.Name())
		require.NotNil(t, h.Handle())
	}
}

func TestCommand_IssuanceFlow(t *testing.T) {
	issuer := newCommand(t, nil, protocol.AutoAcceptNever)
	holder := newCommand(t, nil, protocol.AutoAcceptNever)

	offer := &ExchangeResponse{}
	exec(t, issuer.SendOffer, &SendOfferArgs{
		ConnectionID: issuerConn,
		Formats:      map[string]interface{}{ldproof.FormatKey: detail()},
		Comment:      "degree",
	}, offer)
	require.Equal(t, protocol.StateOfferSent, offer.Record.State)
	require.Equal(t, protocol.OfferCredentialMsgTypeV2, offer.Message.Type())

	require.Nil(t, deliver(t, holder, offer.Message, holderConn).Reply)

	holderRec := singleRecord(t, holder, protocol.StateOfferReceived)
	require.Equal(t, protocol.RoleHolder, holderRec.Role)

	req := &ExchangeResponse{}
	exec(t, holder.AcceptOffer, &RespondArgs{RecordID: holderRec.ID}, req)
	require.Equal(t, protocol.StateRequestSent, req.Record.State)

	deliver(t, issuer, req.Message, issuerConn)

	credential := &ExchangeResponse{}
	exec(t, issuer.AcceptRequest, &RespondArgs{
		RecordID: offer.Record.ID,
		Formats:  map[string]interface{}{ldproof.FormatKey: map[string]interface{}{"credential": signedCredential()}},
	}, credential)
	require.Equal(t, protocol.StateCredentialIssued, credential.Record.State)

	deliver(t, holder, credential.Message, holderConn)

	ack := &ExchangeResponse{}
	exec(t, holder.AcceptCredential, &RecordArgs{RecordID: holderRec.ID}, ack)
	require.Equal(t, protocol.StateDone, ack.Record.State)

	deliver(t, issuer, ack.Message, issuerConn)

	rec := &RecordResponse{}
	exec(t, issuer.Record, &RecordArgs{RecordID: offer.Record.ID}, rec)
	require.Equal(t, protocol.StateDone, rec.Record.State)

	data := &FormatDataResponse{}
	exec(t, issuer.FormatData, &RecordArgs{RecordID: offer.Record.ID}, data)
	require.Contains(t, data.FormatData.Offer, ldproof.FormatKey)
	require.Contains(t, data.FormatData.Credential, ldproof.FormatKey)

	active := &RecordsResponse{}
	exec(t, issuer.Records, &RecordsArgs{ActiveOnly: true}, active)
	require.Empty(t, active.Records)
}

func TestCommand_AutoAccept(t *testing.T) {
	issuer := newCommand(t, nil, protocol.AutoAcceptNever)
	holder := newCommand(t, nil, protocol.AutoAcceptAlways)

	offer := &ExchangeResponse{}
	exec(t, issuer.SendOffer, &SendOfferArgs{
		ConnectionID: issuerConn,
		Formats:      map[string]interface{}{ldproof.FormatKey: detail()},
	}, offer)

	res := deliver(t, holder, offer.Message, holderConn)
	require.NotNil(t, res.Reply)
	require.Equal(t, protocol.RequestCredentialMsgTypeV2, res.Reply.Type())

	singleRecord(t, holder, protocol.StateRequestSent)
}

func TestCommand_ProposalAndNegotiation(t *testing.T) {
	issuer := newCommand(t, nil, protocol.AutoAcceptNever)
	holder := newCommand(t, nil, protocol.AutoAcceptNever)

	proposal := &ExchangeResponse{}
	exec(t, holder.SendProposal, &SendProposalArgs{
		ConnectionID: holderConn,
		Formats:      map[string]interface{}{ldproof.FormatKey: detail()},
	}, proposal)
	require.Equal(t, protocol.StateProposalSent, proposal.Record.State)

	deliver(t, issuer, proposal.Message, issuerConn)
	issuerRec := singleRecord(t, issuer, protocol.StateProposalReceived)

	counter := detail()
	counter["credential"].(map[string]interface{})["credentialSubject"] = map[string]interface{}{
		"id": "did:example:holder", "degree": "MSc",
	}

	offer := &ExchangeResponse{}
	exec(t, issuer.NegotiateProposal, &RespondArgs{
		RecordID: issuerRec.ID,
		Formats:  map[string]interface{}{ldproof.FormatKey: counter},
	}, offer)
	require.Equal(t, protocol.StateOfferSent, offer.Record.State)

	deliver(t, holder, offer.Message, holderConn)
	holderRec := singleRecord(t, holder, protocol.StateOfferReceived)

	again := &ExchangeResponse{}
	exec(t, holder.NegotiateOffer, &RespondArgs{
		RecordID: holderRec.ID,
		Formats:  map[string]interface{}{ldproof.FormatKey: detail()},
	}, again)
	require.Equal(t, protocol.StateProposalSent, again.Record.State)

	deliver(t, issuer, again.Message, issuerConn)

	accepted := &ExchangeResponse{}
	exec(t, issuer.AcceptProposal, &RespondArgs{RecordID: issuerRec.ID}, accepted)
	require.Equal(t, protocol.StateOfferSent, accepted.Record.State)
}

func TestCommand_ProblemReportAndAbandon(t *testing.T) {
	issuer := newCommand(t, nil, protocol.AutoAcceptNever)

	offer := &ExchangeResponse{}
	exec(t, issuer.SendOffer, &SendOfferArgs{
		Formats: map[string]interface{}{ldproof.FormatKey: detail()},
	}, offer)
	require.Empty(t, offer.Record.ConnectionID)

	report := &ProblemReportResponse{}
	exec(t, issuer.SendProblemReport, &ProblemReportArgs{RecordID: offer.Record.ID, Description: "wrong degree"}, report)
	require.Equal(t, "wrong degree", report.Message.Description.En)
	require.Equal(t, offer.Record.ThreadID, report.Message.Thread.ID)

	abandoned := &ExchangeResponse{}
	exec(t, issuer.Abandon, &ProblemReportArgs{RecordID: offer.Record.ID, Description: "revoked"}, abandoned)
	require.Equal(t, protocol.StateAbandoned, abandoned.Record.State)
	require.Equal(t, protocol.ProblemReportMsgTypeV2, abandoned.Message.Type())

	var b bytes.Buffer
	cmdErr := issuer.Abandon(&b, request(t, &ProblemReportArgs{RecordID: offer.Record.ID}))
	require.Error(t, cmdErr)
	require.Equal(t, AbandonErrorCode, cmdErr.Code())
	require.Equal(t, command.ExecuteError, cmdErr.Type())
	require.True(t, errors.Is(cmdErr, protocol.ErrInvalidState))
}

func TestCommand_Validation(t *testing.T) {
	cmd := newCommand(t, nil, protocol.AutoAcceptNever)

	tests := []struct {
		name string
		fn   command.Exec
		body string
		msg  string
	}{
		{"proposal without formats", cmd.SendProposal, `{}`, errEmptyFormats},
		{"offer without formats", cmd.SendOffer, `{"connection_id":"c"}`, errEmptyFormats},
		{"offer with unknown policy", cmd.SendOffer, `{"formats":{"ldproof":{}},"auto_accept":"sometimes"}`,
			`unknown auto-accept policy "sometimes"`},
		{"request without connection", cmd.SendRequest, `{"formats":{"ldproof":{}}}`, errEmptyConnectionID},
		{"request without formats", cmd.SendRequest, `{"connection_id":"c"}`, errEmptyFormats},
		{"accept proposal without record", cmd.AcceptProposal, `{}`, errEmptyRecordID},
		{"negotiate proposal without formats", cmd.NegotiateProposal, `{"record_id":"r"}`, errEmptyFormats},
		{"accept offer without record", cmd.AcceptOffer, `{}`, errEmptyRecordID},
		{"negotiate offer without formats", cmd.NegotiateOffer, `{"record_id":"r"}`, errEmptyFormats},
		{"accept request without record", cmd.AcceptRequest, `{}`, errEmptyRecordID},
		{"accept credential without record", cmd.AcceptCredential, `{}`, errEmptyRecordID},
		{"problem report without record", cmd.SendProblemReport, `{"description":"x"}`, errEmptyRecordID},
		{"problem report without description", cmd.SendProblemReport, `{"record_id":"r"}`, errEmptyDescription},
		{"abandon without record", cmd.Abandon, `{}`, errEmptyRecordID},
		{"inbound without message", cmd.HandleInbound, `{}`, errEmptyMessage},
		{"inbound without type", cmd.HandleInbound, `{"message":{"@id":"1"}}`, errEmptyMessage},
		{"record without id", cmd.Record, `{}`, errEmptyRecordID},
		{"format data without id", cmd.FormatData, `{}`, errEmptyRecordID},
		{"invalid json", cmd.SendOffer, `{`, "decode request"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var b bytes.Buffer

			cmdErr := tc.fn(&b, strings.NewReader(tc.body))
			require.Error(t, cmdErr)
			require.Equal(t, InvalidRequestErrorCode, cmdErr.Code())
			require.Equal(t, command.ValidationError, cmdErr.Type())
			require.Contains(t, cmdErr.Error(), tc.msg)
		})
	}
}

func TestCommand_ExecuteErrors(t *testing.T) {
	cmd := newCommand(t, nil, protocol.AutoAcceptNever)

	tests := []struct {
		name string
		fn   command.Exec
		body string
		code command.Code
	}{
		{"unknown format", cmd.SendOffer, `{"formats":{"jwt":{}}}`, SendOfferErrorCode},
		{"accept missing record", cmd.AcceptOffer, `{"record_id":"missing"}`, AcceptOfferErrorCode},
		{"record missing", cmd.Record, `{"record_id":"missing"}`, RecordErrorCode},
		{"format data missing", cmd.FormatData, `{"record_id":"missing"}`, FormatDataErrorCode},
		{"unknown message type", cmd.HandleInbound, `{"message":{"@id":"1","@type":"https://example.org/x"}}`,
			HandleInboundErrorCode},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var b bytes.Buffer

			cmdErr := tc.fn(&b, strings.NewReader(tc.body))
			require.Error(t, cmdErr)
			require.Equal(t, tc.code, cmdErr.Code())
			require.Equal(t, command.ExecuteError, cmdErr.Type())
		})
	}
}

func TestCommand_Notifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notified := make(chan []byte, 1)

	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(StatesTopic, gomock.Any()).DoAndReturn(func(_ string, msg []byte) error {
		notified <- msg

		return nil
	})

	cmd := newCommand(t, notifier, protocol.AutoAcceptNever)

	offer := &ExchangeResponse{}
	exec(t, cmd.SendOffer, &SendOfferArgs{
		ConnectionID: issuerConn,
		Formats:      map[string]interface{}{ldproof.FormatKey: detail()},
	}, offer)

	select {
	case msg := <-notified:
		event := struct {
			StateID    string                 `json:"state_id"`
			Properties map[string]interface{} `json:"properties"`
		}{}
		require.NoError(t, json.Unmarshal(msg, &event))
		require.Equal(t, protocol.StateOfferSent, event.StateID)
		require.Equal(t, offer.Record.ID, event.Properties["recordID"])
	case <-time.After(time.Second):
		t.Fatal("state event was not forwarded")
	}
}

type failingEvents struct {
	ProtocolService
}

func (failingEvents) RegisterMsgEvent(chan<- service.StateMsg) error {
	return errors.New("register failed")
}

func TestNew_RegisterFails(t *testing.T) {
	_, err := New(failingEvents{}, nil)
	require.EqualError(t, err, "register msg event: register failed")
}
