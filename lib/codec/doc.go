// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec produces canonical bytes and fingerprints for values
// that need a stable identity, such as the channel projection pushed to
// a multiview surface.
//
// JSON is the wire format between windows. CBOR is used only
// internally: Core Deterministic Encoding (RFC 8949 §4.2) gives sorted
// map keys and minimal integer widths, so the same logical value always
// yields identical bytes. Those bytes feed a keyed BLAKE3 hash.
//
//	revision, err := codec.Fingerprint(codec.DomainChannels, channels)
//	if revision == previous {
//		return // nothing changed
//	}
//
// Struct types may carry either `cbor` or `json` tags; fxamacker/cbor
// falls back to `json` tags when no `cbor` tag is present, so the
// projection types in lib/tiles need no duplicate tags.
package codec
