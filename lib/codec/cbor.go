// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "github.com/fxamacker/cbor/v2"

var canonical = newEncMode()

func newEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	// layout.Kind and multiview.AudioMode encode by name, so renumbering
	// an enum does not change fingerprints.
	options.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	return mode
}

// Marshal returns the Core Deterministic Encoding of v.
func Marshal(v any) ([]byte, error) {
	return canonical.Marshal(v)
}
