// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recordingT captures Fatalf without stopping the calling goroutine's
// test.
type recordingT struct {
	failed  bool
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func runRecording(fn func(*recordingT)) (result *recordingT) {
	result = &recordingT{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != result {
			panic(recovered)
		}
	}()
	fn(result)
	return result
}

func TestRequireReceive(t *testing.T) {
	channel := make(chan int, 1)
	channel <- 7
	if got := RequireReceive(t, channel, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireReceiveTimeout(t *testing.T) {
	result := runRecording(func(r *recordingT) {
		RequireReceive(r, make(chan int), 10*time.Millisecond, "waiting for %s", "nothing")
	})
	if !result.failed || !strings.Contains(result.message, "waiting for nothing") {
		t.Errorf("failure = %v %q, want timeout mentioning the message", result.failed, result.message)
	}
}

func TestRequireReceiveClosed(t *testing.T) {
	channel := make(chan int)
	close(channel)
	result := runRecording(func(r *recordingT) {
		RequireReceive(r, channel, time.Second)
	})
	if !result.failed || !strings.Contains(result.message, "closed") {
		t.Errorf("failure = %v %q, want closed-channel failure", result.failed, result.message)
	}
}

func TestRequireSendAndClosed(t *testing.T) {
	channel := make(chan string, 1)
	RequireSend(t, channel, "ninja", time.Second, "send")
	if got := <-channel; got != "ninja" {
		t.Errorf("received %q, want ninja", got)
	}

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "closed")
}

func TestRequireEmpty(t *testing.T) {
	channel := make(chan int, 1)
	RequireEmpty(t, channel, "nothing queued")

	channel <- 3
	result := runRecording(func(r *recordingT) {
		RequireEmpty(r, channel, "slot %d", 1)
	})
	if !result.failed || !strings.Contains(result.message, "unexpected value 3: slot 1") {
		t.Errorf("failure = %v %q, want an unexpected-value failure", result.failed, result.message)
	}

	close(channel)
	RequireEmpty(t, channel, "closed and drained")
}

func TestLoggerSplitsLines(t *testing.T) {
	logger := Logger(t)
	logger.Info("first", "key", "value")
	logger.Debug("second")
}
