// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"context"
	"fmt"
)

type outcome[T any] struct {
	value T
	err   error
}

// callPlatform runs call under the manager's platform timeout and ctx.
// Expiry is reported as ErrPlatformUnsupported; cancellation of ctx as
// ctx.Err(). When the call loses the race but later succeeds, discard
// receives the value it produced so a late surface is not leaked.
func callPlatform[T any](ctx context.Context, m *Manager, operation string, call func(context.Context) (T, error), discard func(T)) (T, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan outcome[T], 1)
	go func() {
		value, err := call(callCtx)
		results <- outcome[T]{value: value, err: err}
	}()

	timer := m.clock.NewTimer(m.timeout)
	defer timer.Stop()

	var zero T
	select {
	case result := <-results:
		return result.value, result.err
	case <-ctx.Done():
		discardLate(results, discard)
		return zero, ctx.Err()
	case <-timer.C:
		discardLate(results, discard)
		return zero, fmt.Errorf("%s: no answer within %s: %w", operation, m.timeout, ErrPlatformUnsupported)
	}
}

func discardLate[T any](results <-chan outcome[T], discard func(T)) {
	if discard == nil {
		return
	}
	go func() {
		result := <-results
		if result.err == nil {
			discard(result.value)
		}
	}()
}

// callPlatformErr is callPlatform for calls that return only an error.
func callPlatformErr(ctx context.Context, m *Manager, operation string, call func(context.Context) error) error {
	_, err := callPlatform(ctx, m, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}, nil)
	return err
}
