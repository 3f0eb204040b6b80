// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/testutil"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

type channelSink struct {
	updates chan []tiles.VisibleChannel
	err     error
}

func (s *channelSink) UpdateChannels(_ context.Context, channels []tiles.VisibleChannel) error {
	s.updates <- channels
	return s.err
}

func TestMirrorForwardsVisibleChannels(t *testing.T) {
	store := tiles.NewStore(tiles.Default())
	sink := &channelSink{updates: make(chan []tiles.VisibleChannel, 8)}
	mirror := StartMirror(context.Background(), store, sink, testutil.Logger(t))
	defer mirror.Stop()

	store.SetChannel(0, " ninja ")
	got := testutil.RequireReceive(t, sink.updates, 5*time.Second, "first update")
	if len(got) != 1 || got[0].Channel != "ninja" || got[0].Muted {
		t.Errorf("update = %+v, want ninja without a mute choice", got)
	}

	store.SetChannel(1, "shroud")
	got = testutil.RequireReceive(t, sink.updates, 5*time.Second, "second update")
	if len(got) != 2 || got[1].Channel != "shroud" {
		t.Errorf("update = %+v, want ninja and shroud", got)
	}
}

func TestMirrorSkipsUnchangedProjection(t *testing.T) {
	store := tiles.NewStore(tiles.Default())
	sink := &channelSink{updates: make(chan []tiles.VisibleChannel, 8)}
	mirror := StartMirror(context.Background(), store, sink, testutil.Logger(t))
	defer mirror.Stop()

	store.SetChannel(0, "ninja")
	testutil.RequireReceive(t, sink.updates, 5*time.Second, "initial update")

	// Slot 5 is beyond ActiveCount: the projection does not change.
	store.SetChannel(5, "hidden")
	store.SetChannel(1, "shroud")
	got := testutil.RequireReceive(t, sink.updates, 5*time.Second, "next update")
	if len(got) != 2 {
		t.Errorf("update = %+v, want two channels", got)
	}
	testutil.RequireEmpty(t, sink.updates, "extra update")
}

func TestMirrorStop(t *testing.T) {
	store := tiles.NewStore(tiles.Default())
	sink := &channelSink{
		updates: make(chan []tiles.VisibleChannel, 8),
		err:     multiview.ErrMessageDelivery,
	}
	mirror := StartMirror(context.Background(), store, sink, testutil.Logger(t))

	store.SetChannel(0, "ninja")
	testutil.RequireReceive(t, sink.updates, 5*time.Second, "update before stop")
	mirror.Stop()
	mirror.Stop()

	store.SetChannel(1, "shroud")
	select {
	case got := <-sink.updates:
		t.Errorf("update after Stop: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMirrorWithManager(t *testing.T) {
	store := tiles.NewStore(tiles.Default())
	manager := multiview.NewManager(multiview.Config{Logger: testutil.Logger(t)})
	mirror := StartMirror(context.Background(), store, manager, testutil.Logger(t))
	defer mirror.Stop()

	store.SetChannel(0, "ninja")
	deadline := time.Now().Add(5 * time.Second)
	for len(manager.Channels()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("manager never received channels")
		}
		time.Sleep(time.Millisecond)
	}
	if got := manager.Channels()[0].Channel; got != "ninja" {
		t.Errorf("Channels()[0] = %q, want ninja", got)
	}
}
