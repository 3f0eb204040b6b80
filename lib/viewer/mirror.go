// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// ChannelSink receives the visible-channel projection. The multiview
// manager satisfies it.
type ChannelSink interface {
	UpdateChannels(ctx context.Context, channels []tiles.VisibleChannel) error
}

// Mirror forwards every change of a store's visible channels to a sink
// on its own goroutine. Bursts of edits coalesce: the sink only sees
// the latest projection, and an unchanged projection is not resent.
type Mirror struct {
	sink   ChannelSink
	logger *slog.Logger

	mutex   sync.Mutex
	latest  []tiles.VisibleChannel
	pending bool

	signal      chan struct{}
	cancel      context.CancelFunc
	unsubscribe func()
	done        chan struct{}
}

// StartMirror subscribes to store and starts forwarding. Stop releases
// the subscription and waits for the goroutine to exit.
func StartMirror(ctx context.Context, store *tiles.Store, sink ChannelSink, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	mirror := &Mirror{
		sink:   sink,
		logger: logger,
		signal: make(chan struct{}, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	mirror.unsubscribe = store.Subscribe(func(state tiles.State) {
		mirror.offer(state.Visible())
	})
	go mirror.run(ctx)
	return mirror
}

func (m *Mirror) offer(visible []tiles.VisibleChannel) {
	m.mutex.Lock()
	m.latest = visible
	m.pending = true
	m.mutex.Unlock()
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *Mirror) run(ctx context.Context) {
	defer close(m.done)
	var sent []tiles.VisibleChannel
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.signal:
		}
		m.mutex.Lock()
		visible, pending := m.latest, m.pending
		m.pending = false
		m.mutex.Unlock()
		if !pending || (sent != nil && slices.Equal(sent, visible)) {
			continue
		}
		sent = visible
		err := m.sink.UpdateChannels(ctx, visible)
		switch {
		case err == nil:
		case errors.Is(err, multiview.ErrMessageDelivery):
			// The manager already logged the delivery failure.
		case errors.Is(err, context.Canceled):
			return
		default:
			m.logger.Warn("mirroring channels failed", "error", err)
		}
	}
}

// Stop ends forwarding. Safe to call more than once.
func (m *Mirror) Stop() {
	m.unsubscribe()
	m.cancel()
	<-m.done
}
