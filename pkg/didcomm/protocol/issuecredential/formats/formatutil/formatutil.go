/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package formatutil holds the payload helpers shared by the credential format services.
package formatutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/gowebpki/jcs"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/issuecredential"
)

// Schema validates attachment payloads of one message kind.
type Schema struct {
	url    string
	schema *jsonschema.Schema
}

// MustCompileSchema compiles a JSON schema and panics when it does not compile.
// Schemas are package constants, so a failure is a programming error.
func MustCompileSchema(url, schema string) *Schema {
	s, err := CompileSchema(url, schema)
	if err != nil {
		panic(err)
	}

	return s
}

// CompileSchema compiles a draft 2020-12 JSON schema registered under url.
func CompileSchema(url, schema string) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}

	return &Schema{url: url, schema: compiled}, nil
}

// Validate validates decoded JSON against the schema.
func (s *Schema) Validate(v interface{}) error {
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %s: %v", issuecredential.ErrFormatValidation, s.url, err)
	}

	return nil
}

// EncodeAttachment builds the attachment of a format service from its payload.
func EncodeAttachment(id, format string, payload interface{}) (*issuecredential.FormatAttachment, error) {
	att, err := decorator.NewJSONAttachment(id, payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s attachment: %w", format, err)
	}

	return &issuecredential.FormatAttachment{
		Format:     issuecredential.Format{AttachID: id, Format: format},
		Attachment: *att,
	}, nil
}

// DecodeAttachment decodes the attachment payload and validates it against schema.
// A nil schema skips validation.
func DecodeAttachment(att *issuecredential.FormatAttachment, schema *Schema) (interface{}, error) {
	v, err := issuecredential.DecodeAttachment(&att.Attachment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", issuecredential.ErrFormatValidation, err)
	}

	if schema != nil {
		if err = schema.Validate(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// DecodeInto decodes loosely-typed data, such as caller options or decoded JSON, into the typed value out.
func DecodeInto(in, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}

	return decoder.Decode(in)
}

// Normalize converts v to the generic form encoding/json decodes into, as schemas and paths expect.
func Normalize(v interface{}) (interface{}, error) {
	bits, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var out interface{}
	if err = json.Unmarshal(bits, &out); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return out, nil
}

// Canonical returns the RFC 8785 canonical JSON encoding of v.
func Canonical(v interface{}) ([]byte, error) {
	bits, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	canonical, err := jcs.Transform(bits)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	return canonical, nil
}

// CanonicalEqual reports whether a and b encode to the same canonical JSON.
func CanonicalEqual(a, b interface{}) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}

	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}

	return bytes.Equal(ca, cb), nil
}

// nolint: gochecknoglobals
var pathLanguage = gval.Full(jsonpath.PlaceholderExtension())

// Select evaluates a JSONPath expression against decoded JSON.
func Select(path string, v interface{}) (interface{}, error) {
	eval, err := pathLanguage.NewEvaluable(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %s: %w", path, err)
	}

	return eval(context.Background(), v)
}

// SelectString evaluates a JSONPath expression that must yield a string.
// It returns "" when the path matches nothing.
func SelectString(path string, v interface{}) (string, error) {
	res, err := jsonpath.Get(path, v)
	if err != nil {
		if strings.Contains(err.Error(), "unknown key") {
			return "", nil
		}

		return "", fmt.Errorf("select %s: %w", path, err)
	}

	s, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("select %s: value is %T, not a string", path, res)
	}

	return s, nil
}
