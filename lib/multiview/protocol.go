// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bureau-foundation/streammesh/lib/codec"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// AudioMode selects how the surface plays sound.
type AudioMode int

const (
	// AudioSingle plays only the focused channel.
	AudioSingle AudioMode = iota
	// AudioMulti lets every channel play unless it carries a mute
	// choice.
	AudioMulti
)

func (m AudioMode) String() string {
	switch m {
	case AudioSingle:
		return "single"
	case AudioMulti:
		return "multi"
	default:
		return fmt.Sprintf("AudioMode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name in JSON and CBOR.
func (m AudioMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts "single" or "multi".
func (m *AudioMode) UnmarshalText(text []byte) error {
	parsed, err := ParseAudioMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseAudioMode parses a mode name, case-insensitively.
func ParseAudioMode(name string) (AudioMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single":
		return AudioSingle, nil
	case "multi":
		return AudioMulti, nil
	default:
		return AudioSingle, fmt.Errorf("unknown audio mode %q (want single or multi)", name)
	}
}

// MessageType is the "type" discriminator of a cross-window message.
type MessageType string

const (
	// MessageSyncRequest asks the primary side to push its current
	// channels. Sent by the surface's Sync button.
	MessageSyncRequest MessageType = "SYNC_REQUEST"

	// MessageChannelsUpdate carries a fresh channel projection to the
	// surface.
	MessageChannelsUpdate MessageType = "CHANNELS_UPDATE"
)

// Envelope is the part every message shares.
type Envelope struct {
	Type MessageType `json:"type"`
}

// ChannelsUpdate is the CHANNELS_UPDATE payload. Receivers ignore
// fields they do not know, so fields may be added freely.
type ChannelsUpdate struct {
	Type         MessageType            `json:"type"`
	Channels     []tiles.VisibleChannel `json:"channels"`
	Grid         layout.GridSize        `json:"grid"`
	AudioMode    AudioMode              `json:"audioMode"`
	FocusedIndex int                    `json:"focusedIndex"`
	Revision     string                 `json:"revision"`
}

// DecodeEnvelope parses the type discriminator of an inbound message.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decoding message: %w", err)
	}
	if envelope.Type == "" {
		return Envelope{}, fmt.Errorf("decoding message: missing type")
	}
	return envelope, nil
}

// newChannelsUpdate builds the update for a session view.
func newChannelsUpdate(view sessionView, revision string) ChannelsUpdate {
	channels := view.Channels
	if channels == nil {
		channels = []tiles.VisibleChannel{}
	}
	return ChannelsUpdate{
		Type:         MessageChannelsUpdate,
		Channels:     channels,
		Grid:         view.Grid,
		AudioMode:    view.AudioMode,
		FocusedIndex: view.FocusedIndex,
		Revision:     revision,
	}
}

// sessionView is everything the surface renders. Two equal views
// produce the same fingerprint.
type sessionView struct {
	Channels     []tiles.VisibleChannel `json:"channels"`
	Grid         layout.GridSize        `json:"grid"`
	AudioMode    AudioMode              `json:"audioMode"`
	FocusedIndex int                    `json:"focusedIndex"`
}

func (v sessionView) fingerprint() (string, error) {
	revision, err := codec.Fingerprint(codec.DomainChannels, v)
	if err != nil {
		return "", fmt.Errorf("fingerprinting channels: %w", err)
	}
	return revision, nil
}

// OriginAllowed reports whether origin matches an entry of allowed.
// Comparison ignores case and a trailing slash. There is no wildcard:
// "*" matches only itself, which no browser reports. An empty origin
// never matches.
func OriginAllowed(origin string, allowed []string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	for _, candidate := range allowed {
		if normalizeOrigin(candidate) == origin {
			return true
		}
	}
	return false
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/"))
}
