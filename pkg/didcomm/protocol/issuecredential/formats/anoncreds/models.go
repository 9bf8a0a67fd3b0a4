/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

// CredentialFilter narrows the credential a holder proposes. Every field is optional.
type CredentialFilter struct {
	SchemaIssuerID string `json:"schema_issuer_id,omitempty"`
	SchemaName     string `json:"schema_name,omitempty"`
	SchemaVersion  string `json:"schema_version,omitempty"`
	SchemaID       string `json:"schema_id,omitempty"`
	IssuerID       string `json:"issuer_id,omitempty"`
	CredDefID      string `json:"cred_def_id,omitempty"`
}

// CredentialOffer is the issuer's offer for a credential definition.
type CredentialOffer struct {
	SchemaID            string                 `json:"schema_id"`
	CredDefID           string                 `json:"cred_def_id"`
	Nonce               string                 `json:"nonce"`
	KeyCorrectnessProof map[string]interface{} `json:"key_correctness_proof"`
}

// CredentialRequest is the holder's blinded request for an offered credential.
type CredentialRequest struct {
	Entropy                   string                 `json:"entropy,omitempty"`
	ProverDID                 string                 `json:"prover_did,omitempty"`
	CredDefID                 string                 `json:"cred_def_id"`
	BlindedMS                 map[string]interface{} `json:"blinded_ms"`
	BlindedMSCorrectnessProof map[string]interface{} `json:"blinded_ms_correctness_proof"`
	Nonce                     string                 `json:"nonce"`
}

// Credential is an issued anoncreds credential.
type Credential struct {
	SchemaID                  string                    `json:"schema_id"`
	CredDefID                 string                    `json:"cred_def_id"`
	RevRegID                  string                    `json:"rev_reg_id,omitempty"`
	Values                    map[string]AttributeValue `json:"values"`
	Signature                 map[string]interface{}    `json:"signature"`
	SignatureCorrectnessProof map[string]interface{}    `json:"signature_correctness_proof"`
}

// AttributeValue is a raw credential attribute with its integer encoding.
type AttributeValue struct {
	Raw     string `json:"raw"`
	Encoded string `json:"encoded"`
}

// ProposalOptions are the caller options of an anoncreds proposal.
type ProposalOptions struct {
	Filter *CredentialFilter `json:"filter,omitempty"`
	// Legacy selects the hlindy/*@v2.0 identifiers.
	Legacy bool `json:"legacy,omitempty"`
}

// OfferOptions are the caller options of an anoncreds offer: a prepared offer, or the credential
// definition the configured Issuer makes an offer for.
type OfferOptions struct {
	Offer     *CredentialOffer `json:"offer,omitempty"`
	CredDefID string           `json:"cred_def_id,omitempty"`
	Legacy    bool             `json:"legacy,omitempty"`
}

// RequestOptions are the caller options of an anoncreds request.
type RequestOptions struct {
	Request *CredentialRequest `json:"request,omitempty"`
}

// CredentialOptions are the caller options of an anoncreds credential. Values override the
// attributes of the offered preview.
type CredentialOptions struct {
	Credential *Credential       `json:"credential,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

type metadata struct {
	CredDefID            string                 `json:"credentialDefinitionId,omitempty"`
	SchemaID             string                 `json:"schemaId,omitempty"`
	RequestMetadata      map[string]interface{} `json:"credentialRequestMetadata,omitempty"`
	CredentialID         string                 `json:"credentialId,omitempty"`
	RevocationRegistryID string                 `json:"revocationRegistryId,omitempty"`
}

const filterSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_issuer_id": {"type": "string"},
    "schema_name": {"type": "string"},
    "schema_version": {"type": "string"},
    "schema_id": {"type": "string"},
    "issuer_id": {"type": "string"},
    "cred_def_id": {"type": "string"}
  },
  "additionalProperties": false
}`

const offerSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_id", "cred_def_id", "nonce", "key_correctness_proof"],
  "properties": {
    "schema_id": {"type": "string", "minLength": 1},
    "cred_def_id": {"type": "string", "minLength": 1},
    "nonce": {"type": "string", "pattern": "^[0-9]+$"},
    "key_correctness_proof": {"type": "object"}
  }
}`

const requestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["cred_def_id", "blinded_ms", "blinded_ms_correctness_proof", "nonce"],
  "properties": {
    "entropy": {"type": "string"},
    "prover_did": {"type": "string"},
    "cred_def_id": {"type": "string", "minLength": 1},
    "blinded_ms": {"type": "object"},
    "blinded_ms_correctness_proof": {"type": "object"},
    "nonce": {"type": "string", "pattern": "^[0-9]+$"}
  }
}`

const credentialSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_id", "cred_def_id", "values", "signature", "signature_correctness_proof"],
  "properties": {
    "schema_id": {"type": "string", "minLength": 1},
    "cred_def_id": {"type": "string", "minLength": 1},
    "rev_reg_id": {"type": ["string", "null"]},
    "values": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["raw", "encoded"],
        "properties": {"raw": {"type": "string"}, "encoded": {"type": "string", "pattern": "^-?[0-9]+$"}}
      }
    },
    "signature": {"type": "object"},
    "signature_correctness_proof": {"type": "object"}
  }
}`
