// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout safety valve so tests that wait on goroutines
// fail instead of hanging. They are the only place tests use real
// wall-clock timeouts; everything else runs on lib/clock's fake.
//
// [Logger] returns a slog.Logger that writes through t.Logf, so log
// output from the code under test appears next to the failing test
// and is suppressed for passing tests unless -v is given.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
