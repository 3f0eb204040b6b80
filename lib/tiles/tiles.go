// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tiles owns the viewer's tile state: nine fixed slots, each
// holding a channel name and a chat-visibility flag, plus the active
// layout and the number of slots currently shown.
//
// [State] is a plain value. [Store] wraps one State, applies the layout
// bounds on every change, and notifies subscribers after each mutation
// so that projections (share link, multiview surface) can be refreshed
// immediately.
package tiles

import (
	"strings"

	"github.com/bureau-foundation/streammesh/lib/layout"
)

// Count is the fixed number of tile slots.
const Count = layout.MaxTiles

// Tile is one slot. Channel holds raw user input; it is trimmed only when
// read for display, sharing, or embedding.
type Tile struct {
	ID       int    `json:"id"`
	Channel  string `json:"channel"`
	ShowChat bool   `json:"show_chat"`
}

// State is the complete viewer configuration.
type State struct {
	Layout      string      `json:"layout"`
	ActiveCount int         `json:"active_count"`
	Tiles       [Count]Tile `json:"tiles"`
}

// VisibleChannel is the derived, trimmed projection of one visible tile.
// Its JSON form is the wire shape used by the multiview message protocol.
type VisibleChannel struct {
	Channel  string `json:"channel"`
	Muted    bool   `json:"muted"`
	ShowChat bool   `json:"showChat"`
}

// Default returns the initial state: the default layout at its minimum
// tile count, no channels, chat shown everywhere.
func Default() State {
	descriptor := layout.Grid.Lookup(layout.DefaultKey)
	state := State{
		Layout:      descriptor.Key,
		ActiveCount: descriptor.MinTiles,
	}
	for index := range state.Tiles {
		state.Tiles[index] = Tile{ID: index, ShowChat: true}
	}
	return state
}

// Clamped returns a copy of s with an unknown layout replaced by the
// default and ActiveCount bounded by the layout's descriptor in catalog.
func (s State) Clamped(catalog *layout.Catalog) State {
	s.Layout = catalog.Resolve(s.Layout)
	s.ActiveCount = catalog.Lookup(s.Layout).Clamp(s.ActiveCount)
	return s
}

// Visible projects tiles[0:ActiveCount] into trimmed, non-empty
// channels. The projection carries no mute choice: Muted is false, and
// in single-audio mode the multiview surface mutes all but the focused
// channel itself.
func (s State) Visible() []VisibleChannel {
	active := min(max(s.ActiveCount, 0), Count)
	channels := make([]VisibleChannel, 0, active)
	for _, tile := range s.Tiles[:active] {
		name := strings.TrimSpace(tile.Channel)
		if name == "" {
			continue
		}
		channels = append(channels, VisibleChannel{
			Channel:  name,
			ShowChat: tile.ShowChat,
		})
	}
	return channels
}

// ChannelNames returns the trimmed channel names of Visible.
func (s State) ChannelNames() []string {
	visible := s.Visible()
	names := make([]string, len(visible))
	for index, channel := range visible {
		names[index] = channel.Channel
	}
	return names
}

// ChatMask renders ShowChat for all nine slots as a string of '1' and
// '0', independent of ActiveCount.
func (s State) ChatMask() string {
	var builder strings.Builder
	builder.Grow(Count)
	for _, tile := range s.Tiles {
		if tile.ShowChat {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}
