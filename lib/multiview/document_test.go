// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

func TestRenderDocumentGrid(t *testing.T) {
	document, err := RenderDocument(Document{
		Channels:   channelsNamed("ninja", "shroud", "pokimane"),
		Grid:       layout.Solve(3),
		ParentHost: "streammesh.example",
	})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	html := string(document)

	if got := strings.Count(html, `class="stream-tile`); got != 3 {
		t.Errorf("stream tiles = %d, want 3", got)
	}
	if got := strings.Count(html, `<div class="placeholder">No Stream</div>`); got != 1 {
		t.Errorf("placeholders = %d, want 1", got)
	}
	if !strings.Contains(html, "grid-template-columns: repeat(2, 1fr)") {
		t.Error("grid columns not set to 2")
	}
	for _, control := range []string{`id="syncButton"`, `id="audioToggle"`, `id="closeButton"`} {
		if !strings.Contains(html, control) {
			t.Errorf("control %s missing", control)
		}
	}
	if !strings.Contains(html, "<title>"+DocumentTitle+"</title>") {
		t.Error("title missing")
	}
}

func TestRenderDocumentSingleAudio(t *testing.T) {
	document, err := RenderDocument(Document{
		Channels:     channelsNamed("a", "b"),
		Grid:         layout.Solve(2),
		AudioMode:    AudioSingle,
		FocusedIndex: 1,
		ParentHost:   "h.example",
	})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	html := string(document)

	// Only the focused channel plays sound.
	if !strings.Contains(html, "channel=a&amp;parent=h.example&amp;muted=true") {
		t.Error("unfocused channel a is not muted")
	}
	if !strings.Contains(html, "channel=b&amp;parent=h.example&amp;muted=false") {
		t.Error("focused channel b is muted")
	}
	if got := strings.Count(html, `class="audio-badge" hidden`); got != 1 {
		t.Errorf("hidden badges = %d, want 1", got)
	}
}

func TestRenderDocumentMultiAudioKeepsMuteChoice(t *testing.T) {
	channels := []tiles.VisibleChannel{
		{Channel: "a", Muted: false},
		{Channel: "b", Muted: true},
	}
	document, err := RenderDocument(Document{Channels: channels, AudioMode: AudioMulti})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	html := string(document)
	if !strings.Contains(html, "channel=a&amp;parent=localhost&amp;muted=false") {
		t.Error("channel a should be audible")
	}
	if !strings.Contains(html, "channel=b&amp;parent=localhost&amp;muted=true") {
		t.Error("channel b should stay muted")
	}
	if !strings.Contains(html, "Audio: Multi") {
		t.Error("audio toggle does not show multi")
	}
}

func TestRenderDocumentMultiAudioFromStore(t *testing.T) {
	state := tiles.Default()
	state.Layout = "2x1"
	state.ActiveCount = 2
	state.Tiles[0].Channel = "ninja"
	state.Tiles[1].Channel = "shroud"

	document, err := RenderDocument(Document{Channels: state.Visible(), AudioMode: AudioMulti})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	html := string(document)
	if got := strings.Count(html, "muted=false"); got != 2 {
		t.Errorf("audible players = %d, want 2", got)
	}
	if got := strings.Count(html, "muted=true"); got != 0 {
		t.Errorf("muted players = %d, want 0", got)
	}
}

func TestRenderDocumentEscapesChannelNames(t *testing.T) {
	document, err := RenderDocument(Document{Channels: channelsNamed(`<script>alert(1)</script>`)})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if strings.Contains(string(document), "<script>alert(1)</script>") {
		t.Error("channel name rendered unescaped")
	}
}

func TestRenderDocumentBootState(t *testing.T) {
	document, err := RenderDocument(Document{
		Channels:       channelsNamed("a"),
		PrimaryOrigin:  primaryOrigin,
		AllowedOrigins: []string{primaryOrigin},
		Revision:       "abc123",
	})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	html := string(document)
	for _, want := range []string{`"revision":"abc123"`, `"audioMode":"single"`, `"allowedOrigins":[`, `"playerBase":`} {
		if !strings.Contains(html, want) {
			t.Errorf("boot state missing %s", want)
		}
	}
	if !strings.Contains(html, "allowedOrigins.indexOf(event.origin)") {
		t.Error("message listener does not check the sender origin")
	}
}

func TestRenderDocumentSolvesBadGrid(t *testing.T) {
	document, err := RenderDocument(Document{
		Channels: channelsNamed("a", "b", "c", "d", "e"),
		Grid:     layout.GridSize{Rows: 1, Cols: 1},
	})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if !strings.Contains(string(document), "grid-template-columns: repeat(3, 1fr); grid-template-rows: repeat(2, 1fr)") {
		t.Error("undersized grid was not replaced by the solved 2x3 grid")
	}
}
