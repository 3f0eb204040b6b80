// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// Fataler is the part of testing.TB the channel helpers need. Tests of
// the helpers themselves substitute a recorder.
type Fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch. It fails t when ch is
// closed or nothing arrives within timeout.
//
//	update := testutil.RequireReceive(t, surface.posted, 5*time.Second, "CHANNELS_UPDATE")
func RequireReceive[T any](t Fataler, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed before a value arrived: %s", describe(msgAndArgs))
		}
		return value
	case <-deadline.C:
		t.Fatalf("nothing received within %v: %s", timeout, describe(msgAndArgs))
	}
	panic("unreachable")
}

// RequireSend delivers value on ch or fails t after timeout.
//
//	testutil.RequireSend(t, release, surface, 5*time.Second, "releasing popup")
func RequireSend[T any](t Fataler, ch chan<- T, value T, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case ch <- value:
	case <-deadline.C:
		t.Fatalf("send not accepted within %v: %s", timeout, describe(msgAndArgs))
	}
}

// RequireClosed waits until ch is closed or yields a value.
//
//	testutil.RequireClosed(t, launcher.held, 5*time.Second, "browser launch")
func RequireClosed(t Fataler, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case <-ch:
	case <-deadline.C:
		t.Fatalf("channel still open after %v: %s", timeout, describe(msgAndArgs))
	}
}

// RequireEmpty fails t when a value is already waiting in ch. It does
// not block, so it only proves anything after the producer has
// finished its work.
//
//	testutil.RequireEmpty(t, sink.updates, "update for an unchanged projection")
func RequireEmpty[T any](t Fataler, ch <-chan T, msgAndArgs ...any) {
	t.Helper()
	select {
	case value, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %+v: %s", value, describe(msgAndArgs))
		}
	default:
	}
}

// describe renders the optional trailing arguments: nothing, a single
// value, or a format string and its arguments.
func describe(msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return "(no message)"
	case 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprint(msgAndArgs...)
	}
	return fmt.Sprintf(format, msgAndArgs[1:]...)
}
