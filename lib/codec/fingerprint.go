// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Domain is a 32-byte BLAKE3 key separating fingerprint namespaces.
// The bytes are the ASCII domain name, zero-padded.
type Domain [32]byte

// Fingerprint domains. Changing a key changes every fingerprint in
// that domain.
var (
	DomainChannels = Domain{
		's', 't', 'r', 'e', 'a', 'm', 'm', 'e', 's', 'h', '.', 'c', 'h', 'a', 'n', 'n',
		'e', 'l', 's', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	DomainLayoutState = Domain{
		's', 't', 'r', 'e', 'a', 'm', 'm', 'e', 's', 'h', '.', 'l', 'a', 'y', 'o', 'u',
		't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// FingerprintLength is the number of digest bytes kept in a
// fingerprint. Sixteen hex characters is ample for change detection.
const FingerprintLength = 8

// Fingerprint returns the hex-encoded keyed hash of v's canonical CBOR
// encoding.
func Fingerprint(domain Domain, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding value for fingerprint: %w", err)
	}
	return FingerprintBytes(domain, data), nil
}

// FingerprintBytes hashes data directly.
func FingerprintBytes(domain Domain, data []byte) string {
	hasher, err := blake3.NewKeyed(domain[:])
	if err != nil {
		// NewKeyed only fails on a key that is not 32 bytes.
		panic("codec: blake3 keyed hasher: " + err.Error())
	}
	hasher.Write(data)
	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest[:FingerprintLength])
}
