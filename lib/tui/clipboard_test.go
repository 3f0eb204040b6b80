// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestTerminalClipboardWritesOSC52(t *testing.T) {
	var buffer bytes.Buffer
	clipboard := NewTerminalClipboard(&buffer)
	clipboard.Copy("http://localhost:5173/?layout=2x2")

	output := buffer.String()
	if !strings.Contains(output, "]52;c;") {
		t.Errorf("output %q missing OSC 52 introducer", output)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("http://localhost:5173/?layout=2x2"))
	if !strings.Contains(output, encoded) {
		t.Errorf("output %q missing base64 payload %q", output, encoded)
	}
}
