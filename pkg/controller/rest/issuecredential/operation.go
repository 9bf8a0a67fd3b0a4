/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	ctrlcommand "github.com/hyperledger/aries-issuecredential-go/pkg/controller/command"
	command "github.com/hyperledger/aries-issuecredential-go/pkg/controller/command/issuecredential"
	"github.com/hyperledger/aries-issuecredential-go/pkg/controller/rest"
)

const (
	operationID       = "/issuecredential"
	sendProposal      = operationID + "/send-proposal"
	sendOffer         = operationID + "/send-offer"
	sendRequest       = operationID + "/send-request"
	inbound           = operationID + "/inbound"
	records           = operationID + "/records"
	record            = operationID + "/{id}"
	formatData        = operationID + "/{id}/format-data"
	acceptProposal    = operationID + "/{id}/accept-proposal"
	negotiateProposal = operationID + "/{id}/negotiate-proposal"
	acceptOffer       = operationID + "/{id}/accept-offer"
	negotiateOffer    = operationID + "/{id}/negotiate-offer"
	acceptRequest     = operationID + "/{id}/accept-request"
	acceptCredential  = operationID + "/{id}/accept-credential"
	problemReport     = operationID + "/{id}/problem-report"
	abandon           = operationID + "/{id}/abandon"
)

const recordIDField = "record_id"

// Operation is controller REST service controller for issue credential.
type Operation struct {
	command  *command.Command
	handlers []rest.Handler
}

// New returns new issue credential rest client protocol instance.
func New(svc command.ProtocolService, notifier ctrlcommand.Notifier, options ...command.Option) (*Operation, error) {
	cmd, err := command.New(svc, notifier, options...)
	if err != nil {
		return nil, fmt.Errorf("issue credential command : %w", err)
	}

	o := &Operation{command: cmd}
	o.registerHandler()

	return o, nil
}

// GetRESTHandlers get all controller API handler available for this protocol service.
func (c *Operation) GetRESTHandlers() []rest.Handler {
	return c.handlers
}

// registerHandler register handlers to be exposed from this protocol service as REST API endpoints.
// Static paths come first so that the router does not take them for a record id.
func (c *Operation) registerHandler() {
	c.handlers = []rest.Handler{
		rest.NewHandler(sendProposal, http.MethodPost, c.SendProposal),
		rest.NewHandler(sendOffer, http.MethodPost, c.SendOffer),
		rest.NewHandler(sendRequest, http.MethodPost, c.SendRequest),
		rest.NewHandler(inbound, http.MethodPost, c.HandleInbound),
		rest.NewHandler(records, http.MethodGet, c.Records),
		rest.NewHandler(formatData, http.MethodGet, c.FormatData),
		rest.NewHandler(record, http.MethodGet, c.Record),
		rest.NewHandler(acceptProposal, http.MethodPost, c.AcceptProposal),
		rest.NewHandler(negotiateProposal, http.MethodPost, c.NegotiateProposal),
		rest.NewHandler(acceptOffer, http.MethodPost, c.AcceptOffer),
		rest.NewHandler(negotiateOffer, http.MethodPost, c.NegotiateOffer),
		rest.NewHandler(acceptRequest, http.MethodPost, c.AcceptRequest),
		rest.NewHandler(acceptCredential, http.MethodPost, c.AcceptCredential),
		rest.NewHandler(problemReport, http.MethodPost, c.SendProblemReport),
		rest.NewHandler(abandon, http.MethodPost, c.Abandon),
	}
}

// SendProposal swagger:route POST /issuecredential/send-proposal issue-credential issueCredentialSendProposal
//
// Is used by the Holder to start an exchange with a proposal.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) SendProposal(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.SendProposal, rw, req.Body)
}

// SendOffer swagger:route POST /issuecredential/send-offer issue-credential issueCredentialSendOffer
//
// Is used by the Issuer to start an exchange with an offer.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) SendOffer(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.SendOffer, rw, req.Body)
}

// SendRequest swagger:route POST /issuecredential/send-request issue-credential issueCredentialSendRequest
//
// Is used by the Holder to start an exchange with a request.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) SendRequest(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.SendRequest, rw, req.Body)
}

// AcceptProposal swagger:route POST /issuecredential/{id}/accept-proposal issue-credential issueCredentialAcceptProposal
//
// Is used when the Issuer is willing to proceed with the proposal.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) AcceptProposal(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.AcceptProposal, rw, req)
}

// NegotiateProposal swagger:route POST /issuecredential/{id}/negotiate-proposal issue-credential issueCredentialNegotiateProposal
//
// Is used when the Issuer answers a proposal with a different offer.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) NegotiateProposal(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.NegotiateProposal, rw, req)
}

// AcceptOffer swagger:route POST /issuecredential/{id}/accept-offer issue-credential issueCredentialAcceptOffer
//
// Is used when the Holder is willing to proceed with the offer.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) AcceptOffer(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.AcceptOffer, rw, req)
}

// NegotiateOffer swagger:route POST /issuecredential/{id}/negotiate-offer issue-credential issueCredentialNegotiateOffer
//
// Is used when the Holder answers an offer with a new proposal.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) NegotiateOffer(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.NegotiateOffer, rw, req)
}

// AcceptRequest swagger:route POST /issuecredential/{id}/accept-request issue-credential issueCredentialAcceptRequest
//
// Is used when the Issuer is willing to issue the requested credential.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) AcceptRequest(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.AcceptRequest, rw, req)
}

// AcceptCredential swagger:route POST /issuecredential/{id}/accept-credential issue-credential issueCredentialAcceptCredential
//
// Is used when the Holder accepts the issued credential.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) AcceptCredential(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.AcceptCredential, rw, req)
}

// SendProblemReport swagger:route POST /issuecredential/{id}/problem-report issue-credential issueCredentialProblemReport
//
// Builds a problem report for the exchange without changing its state.
//
// Responses:
//    default: genericError
//        200: issueCredentialProblemReportResponse
func (c *Operation) SendProblemReport(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.SendProblemReport, rw, req)
}

// Abandon swagger:route POST /issuecredential/{id}/abandon issue-credential issueCredentialAbandon
//
// Abandons the exchange.
//
// Responses:
//    default: genericError
//        200: issueCredentialExchangeResponse
func (c *Operation) Abandon(rw http.ResponseWriter, req *http.Request) {
	c.executeOnRecord(c.command.Abandon, rw, req)
}

// HandleInbound swagger:route POST /issuecredential/inbound issue-credential issueCredentialHandleInbound
//
// Hands an inbound protocol message to the engine.
//
// Responses:
//    default: genericError
//        200: issueCredentialHandleInboundResponse
func (c *Operation) HandleInbound(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.HandleInbound, rw, req.Body)
}

// Records swagger:route GET /issuecredential/records issue-credential issueCredentialRecords
//
// Returns the exchange records matching the query parameters.
//
// Responses:
//    default: genericError
//        200: issueCredentialRecordsResponse
func (c *Operation) Records(rw http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	args := &command.RecordsArgs{
		ThreadID:     query.Get("thread_id"),
		ConnectionID: query.Get("connection_id"),
		State:        query.Get("state"),
		Role:         query.Get("role"),
		FormatKey:    query.Get("format_key"),
	}

	if v := query.Get("active_only"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			rest.SendHTTPStatusError(rw, http.StatusBadRequest, command.InvalidRequestErrorCode,
				fmt.Errorf("active_only: %w", err))

			return
		}

		args.ActiveOnly = active
	}

	body, err := json.Marshal(args)
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusInternalServerError, command.RecordsErrorCode, err)

		return
	}

	rest.Execute(c.command.Records, rw, bytes.NewReader(body))
}

// Record swagger:route GET /issuecredential/{id} issue-credential issueCredentialRecord
//
// Returns the exchange record.
//
// Responses:
//    default: genericError
//        200: issueCredentialRecordResponse
func (c *Operation) Record(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.Record, rw, bytes.NewBufferString(fmt.Sprintf(`{"record_id":%q}`, mux.Vars(req)["id"])))
}

// FormatData swagger:route GET /issuecredential/{id}/format-data issue-credential issueCredentialFormatData
//
// Returns the decoded attachments of the exchange.
//
// Responses:
//    default: genericError
//        200: issueCredentialFormatDataResponse
func (c *Operation) FormatData(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.FormatData, rw, bytes.NewBufferString(fmt.Sprintf(`{"record_id":%q}`, mux.Vars(req)["id"])))
}

// executeOnRecord runs exec with the request body and the record id of the path.
func (c *Operation) executeOnRecord(exec ctrlcommand.Exec, rw http.ResponseWriter,
	req *http.Request) {
	body, err := withRecordID(req.Body, mux.Vars(req)["id"])
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, command.InvalidRequestErrorCode, err)

		return
	}

	rest.Execute(exec, rw, body)
}

func withRecordID(body io.Reader, recordID string) (io.Reader, error) {
	var buf bytes.Buffer

	if body != nil {
		// nolint: errcheck
		_, _ = io.Copy(&buf, body)
	}

	args := map[string]interface{}{}

	if len(bytes.TrimSpace(buf.Bytes())) != 0 {
		if err := json.Unmarshal(buf.Bytes(), &args); err != nil {
			return nil, errors.New("payload is not a JSON object")
		}
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	args[recordIDField] = recordID

	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(data), nil
}
