// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Logger returns a debug-level text logger that writes each record
// through t.Logf.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	writer := &testWriter{t: t}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// testWriter buffers partial writes and emits complete lines to t.Logf.
type testWriter struct {
	t      testing.TB
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer.Write(p)
	for {
		line, err := w.buffer.ReadString('\n')
		if err != nil {
			// Incomplete line: put it back for the next write.
			w.buffer.Reset()
			w.buffer.WriteString(line)
			return len(p), nil
		}
		w.t.Logf("%s", strings.TrimSuffix(line, "\n"))
	}
}
