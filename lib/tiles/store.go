// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tiles

import (
	"sync"

	"github.com/bureau-foundation/streammesh/lib/layout"
)

// Store holds one State and keeps it within the active layout's bounds.
// Every operation is total: out-of-range slots are ignored, unknown
// layouts resolve to the default.
//
// Subscribers are called synchronously after each mutation, outside the
// store's lock, with the post-mutation snapshot. Store is safe for
// concurrent use.
type Store struct {
	mu          sync.Mutex
	state       State
	compact     bool
	subscribers map[int]func(State)
	nextID      int
}

// NewStore returns a store seeded with initial, clamped against the grid
// catalog.
func NewStore(initial State) *Store {
	store := &Store{subscribers: make(map[int]func(State))}
	store.state = normalizeIDs(initial).Clamped(layout.Grid)
	return store
}

// Subscribe registers fn to receive every post-mutation snapshot. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Visible returns the visible-channel projection of the current state.
func (s *Store) Visible() []VisibleChannel {
	return s.Snapshot().Visible()
}

// Catalog returns the catalog matching the current presentation mode.
func (s *Store) Catalog() *layout.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.ForCompact(s.compact)
}

// Descriptor returns the active layout's descriptor in the active catalog.
func (s *Store) Descriptor() layout.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.ForCompact(s.compact).Lookup(s.state.Layout)
}

// Compact reports whether the stacked catalog is active.
func (s *Store) Compact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compact
}

// SetChannel stores text verbatim in slot. No validation is performed.
func (s *Store) SetChannel(slot int, text string) {
	s.mutate(func(state *State, _ *layout.Catalog) bool {
		if slot < 0 || slot >= Count {
			return false
		}
		state.Tiles[slot].Channel = text
		return true
	})
}

// ToggleChat flips chat visibility for slot.
func (s *Store) ToggleChat(slot int) {
	s.mutate(func(state *State, _ *layout.Catalog) bool {
		if slot < 0 || slot >= Count {
			return false
		}
		state.Tiles[slot].ShowChat = !state.Tiles[slot].ShowChat
		return true
	})
}

// SetLayout switches to key and expands ActiveCount to the new layout's
// maximum. Unknown keys select the default layout.
func (s *Store) SetLayout(key string) {
	s.mutate(func(state *State, catalog *layout.Catalog) bool {
		descriptor := catalog.Lookup(key)
		state.Layout = descriptor.Key
		state.ActiveCount = descriptor.MaxTiles
		return true
	})
}

// SetActiveCount sets the number of visible tiles, clamped to the layout.
func (s *Store) SetActiveCount(count int) {
	s.mutate(func(state *State, catalog *layout.Catalog) bool {
		state.ActiveCount = catalog.Lookup(state.Layout).Clamp(count)
		return true
	})
}

// SetCompact switches between the stacked and grid catalogs and
// re-clamps ActiveCount against the newly active one.
func (s *Store) SetCompact(compact bool) {
	s.mu.Lock()
	changed := s.compact != compact
	s.compact = compact
	s.mu.Unlock()
	if changed {
		s.ClampActiveCount()
	}
}

// ClampActiveCount re-applies the layout bounds. Idempotent.
func (s *Store) ClampActiveCount() {
	s.mutate(func(state *State, catalog *layout.Catalog) bool {
		*state = state.Clamped(catalog)
		return true
	})
}

// Restore replaces the whole state, then clamps it.
func (s *Store) Restore(state State) {
	s.mutate(func(current *State, catalog *layout.Catalog) bool {
		*current = normalizeIDs(state).Clamped(catalog)
		return true
	})
}

// mutate applies change under the lock and, if it reports a change,
// notifies subscribers with the resulting snapshot.
func (s *Store) mutate(change func(state *State, catalog *layout.Catalog) bool) {
	s.mu.Lock()
	if !change(&s.state, layout.ForCompact(s.compact)) {
		s.mu.Unlock()
		return
	}
	snapshot := s.state
	subscribers := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// normalizeIDs pins each tile's ID to its slot index.
func normalizeIDs(state State) State {
	for index := range state.Tiles {
		state.Tiles[index].ID = index
	}
	return state
}
