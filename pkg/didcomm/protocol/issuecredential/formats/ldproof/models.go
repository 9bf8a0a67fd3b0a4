/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ldproof

// CredentialDetail is the payload of ld-proof proposals, offers and requests:
// the credential to be issued together with the requested proof.
type CredentialDetail struct {
	Credential map[string]interface{} `json:"credential"`
	Options    *ProofOptions          `json:"options"`
}

// ProofOptions describes the linked-data proof the issuer puts on the credential.
type ProofOptions struct {
	ProofPurpose     string            `json:"proofPurpose,omitempty"`
	Created          string            `json:"created,omitempty"`
	Domain           string            `json:"domain,omitempty"`
	Challenge        string            `json:"challenge,omitempty"`
	ProofType        string            `json:"proofType"`
	CredentialStatus *CredentialStatus `json:"credentialStatus,omitempty"`
}

// CredentialStatus requests a status mechanism for the issued credential.
type CredentialStatus struct {
	Type string `json:"type"`
}

// IssueOptions are the caller options of an ld-proof credential message.
// Credential is the signed credential; when it is empty the configured Signer issues one.
type IssueOptions struct {
	Credential map[string]interface{} `json:"credential"`
}

// metadata is what the ld-proof format keeps on the exchange record.
type metadata struct {
	ProofType       string   `json:"proofType"`
	CredentialTypes []string `json:"credentialTypes"`
	CredentialID    string   `json:"credentialId,omitempty"`
}

const detailSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["credential", "options"],
  "properties": {
    "credential": {
      "type": "object",
      "required": ["@context", "type", "credentialSubject"],
      "properties": {
        "@context": {"type": "array", "minItems": 1},
        "type": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "credentialSubject": {"type": ["object", "array"]}
      }
    },
    "options": {
      "type": "object",
      "required": ["proofType"],
      "properties": {
        "proofType": {"type": "string", "minLength": 1},
        "proofPurpose": {"type": "string"},
        "created": {"type": "string"},
        "domain": {"type": "string"},
        "challenge": {"type": "string"},
        "credentialStatus": {
          "type": "object",
          "required": ["type"],
          "properties": {"type": {"type": "string"}}
        }
      }
    }
  }
}`

const credentialSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["@context", "type", "issuer", "credentialSubject", "proof"],
  "properties": {
    "@context": {"type": "array", "minItems": 1},
    "type": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "issuer": {"type": ["string", "object"]},
    "credentialSubject": {"type": ["object", "array"]},
    "proof": {
      "type": ["object", "array"]
    }
  }
}`
