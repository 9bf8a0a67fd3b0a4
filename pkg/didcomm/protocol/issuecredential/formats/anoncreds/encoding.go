/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"crypto/sha256"
	"math/big"
	"strconv"
)

// EncodeValue returns the integer encoding of a raw attribute value: 32-bit integers encode as
// themselves, anything else as the big-endian integer of its SHA-256 digest.
func EncodeValue(raw string) string {
	if _, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return raw
	}

	digest := sha256.Sum256([]byte(raw))

	return new(big.Int).SetBytes(digest[:]).String()
}

// EncodeValues encodes every raw value.
func EncodeValues(raw map[string]string) map[string]AttributeValue {
	values := make(map[string]AttributeValue, len(raw))
	for name, v := range raw {
		values[name] = AttributeValue{Raw: v, Encoded: EncodeValue(v)}
	}

	return values
}
