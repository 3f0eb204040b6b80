// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the injectable time source used by the multiview
// manager for platform-call deadlines and composite frame pacing.
//
// Production code receives [Real]. Tests receive [Fake], whose time
// stands still until [FakeClock.Advance] is called, so a deadline or a
// frame tick fires exactly when the test says it does:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	manager := multiview.NewManager(multiview.Config{Clock: fake, ...})
//	go manager.Open(ctx, channels, options)
//	fake.WaitForTimers(1)          // the open registered its deadline
//	fake.Advance(5 * time.Second)  // and now it expires
package clock
