// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used on the Firewatch admin
// socket. Encoding is Core Deterministic (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items — the
// same logical request always produces identical bytes. Decoding
// silently ignores unknown fields for forward compatibility between
// CLI and daemon versions.
package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// The admin protocol only uses string map keys. When the
		// decoder's target is any, pick map[string]any rather than
		// the CBOR default map[interface{}]interface{}, which is
		// incompatible with encoding/json and most Go code.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder returns a CBOR stream encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR stream decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
