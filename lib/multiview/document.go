// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bureau-foundation/streammesh/lib/embed"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// DocumentTitle is the window title of the auxiliary document.
const DocumentTitle = "StreamMesh Multiview"

// Document is the input to RenderDocument.
type Document struct {
	Channels     []tiles.VisibleChannel
	Grid         layout.GridSize
	AudioMode    AudioMode
	FocusedIndex int

	// ParentHost is the embed parent parameter for every player.
	ParentHost string

	// PrimaryOrigin is where SYNC_REQUEST messages are sent. When empty
	// the Sync button sends nothing.
	PrimaryOrigin string

	// AllowedOrigins lists the origins whose CHANNELS_UPDATE messages
	// the document accepts.
	AllowedOrigins []string

	Revision string
}

type documentTile struct {
	Index     int
	Channel   string
	PlayerURL string
	Audible   bool
	Badge     bool
}

// documentBoot is serialized into the inline script.
type documentBoot struct {
	Channels       []tiles.VisibleChannel `json:"channels"`
	Grid           layout.GridSize        `json:"grid"`
	AudioMode      AudioMode              `json:"audioMode"`
	FocusedIndex   int                    `json:"focusedIndex"`
	ParentHost     string                 `json:"parentHost"`
	PrimaryOrigin  string                 `json:"primaryOrigin"`
	AllowedOrigins []string               `json:"allowedOrigins"`
	Revision       string                 `json:"revision"`
	PlayerBase     string                 `json:"playerBase"`
}

type documentData struct {
	Title        string
	Grid         layout.GridSize
	Tiles        []documentTile
	Placeholders []struct{}
	Multi        bool
	Boot         documentBoot
}

// RenderDocument produces the self-contained HTML page shown in a
// multiview window: one player per channel (at most
// layout.MaxMultiviewChannels) laid out in the solved grid, "No Stream"
// placeholders for spare cells, and a control bar with Sync, audio
// mode, and Close.
//
// The inline script re-renders in place on CHANNELS_UPDATE from an
// allowed origin: tiles whose channel survives keep their player and
// their mute choice, and a repeated revision is ignored.
func RenderDocument(doc Document) ([]byte, error) {
	channels := doc.Channels
	if len(channels) > layout.MaxMultiviewChannels {
		channels = channels[:layout.MaxMultiviewChannels]
	}
	if channels == nil {
		channels = []tiles.VisibleChannel{}
	}
	grid := doc.Grid
	if grid.Rows < 1 || grid.Cols < 1 || grid.Cells() < len(channels) {
		grid = layout.Solve(len(channels))
	}
	parent := doc.ParentHost
	if parent == "" {
		parent = "localhost"
	}
	allowed := doc.AllowedOrigins
	if allowed == nil {
		allowed = []string{}
	}

	data := documentData{
		Title: DocumentTitle,
		Grid:  grid,
		Multi: doc.AudioMode == AudioMulti,
		Boot: documentBoot{
			Channels:       channels,
			Grid:           grid,
			AudioMode:      doc.AudioMode,
			FocusedIndex:   doc.FocusedIndex,
			ParentHost:     parent,
			PrimaryOrigin:  doc.PrimaryOrigin,
			AllowedOrigins: allowed,
			Revision:       doc.Revision,
			PlayerBase:     embed.PlayerBase,
		},
	}
	for index, channel := range channels {
		audible := audibleIn(doc.AudioMode, doc.FocusedIndex, index, channel)
		data.Tiles = append(data.Tiles, documentTile{
			Index:     index,
			Channel:   channel.Channel,
			PlayerURL: embed.Player(channel.Channel, parent, !audible),
			Audible:   audible,
			Badge:     doc.AudioMode == AudioSingle && index == doc.FocusedIndex,
		})
	}
	data.Placeholders = make([]struct{}, grid.Cells()-len(channels))

	var buffer bytes.Buffer
	if err := documentTemplate.Execute(&buffer, data); err != nil {
		return nil, fmt.Errorf("rendering multiview document: %w", err)
	}
	return buffer.Bytes(), nil
}

// audibleIn decides whether the channel at index plays sound.
func audibleIn(mode AudioMode, focused, index int, channel tiles.VisibleChannel) bool {
	if mode == AudioSingle {
		return index == focused
	}
	return !channel.Muted
}

var documentTemplate = template.Must(template.New("multiview").Parse(documentSource))

const documentSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
html, body { width: 100%; height: 100%; overflow: hidden; background: #000; color: #fff;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
.grid { display: grid; gap: 1px; padding: 1px; width: 100%; height: 100%; background: #000; }
.stream-tile { position: relative; overflow: hidden; min-width: 0; min-height: 0; }
.stream-tile iframe { width: 100%; height: 100%; border: 0; background: #000; }
.tile-label { position: absolute; top: 2px; left: 2px; max-width: calc(100% - 4px); padding: 1px 4px;
  border-radius: 3px; background: rgba(0, 0, 0, 0.8); font-size: 9px; font-weight: 600;
  white-space: nowrap; overflow: hidden; text-overflow: ellipsis; cursor: pointer; }
.stream-tile.audible .tile-label { background: rgba(16, 185, 129, 0.8); }
.audio-badge { position: absolute; top: 2px; right: 2px; padding: 1px 4px; border-radius: 3px;
  background: #10b981; font-size: 9px; font-weight: 600; }
.placeholder { display: flex; align-items: center; justify-content: center; background: #1a1a1a;
  color: #666; font-size: 12px; }
.controls { position: fixed; left: 0; right: 0; bottom: 0; display: flex; gap: 6px; padding: 6px;
  align-items: center; justify-content: center; background: rgba(0, 0, 0, 0.85);
  border-top: 1px solid rgba(255, 255, 255, 0.1); }
.controls button { border: 0; border-radius: 4px; padding: 4px 8px; min-width: 50px; color: #fff;
  background: #7c3aed; font-size: 11px; font-weight: 600; cursor: pointer; }
.controls button.multi { background: #10b981; }
</style>
</head>
<body>
<div class="grid" id="streamGrid" style="grid-template-columns: repeat({{.Grid.Cols}}, 1fr); grid-template-rows: repeat({{.Grid.Rows}}, 1fr);">
{{- range .Tiles}}
<div class="stream-tile{{if .Audible}} audible{{end}}" data-index="{{.Index}}" data-channel="{{.Channel}}">
<iframe src="{{.PlayerURL}}" allow="autoplay; fullscreen; picture-in-picture"></iframe>
<div class="tile-label">{{.Channel}}</div>
<div class="audio-badge"{{if not .Badge}} hidden{{end}}>&#128266;</div>
</div>
{{- end}}
{{- range .Placeholders}}
<div class="placeholder">No Stream</div>
{{- end}}
</div>
<div class="controls">
<button id="syncButton" type="button">Sync</button>
<button id="audioToggle" type="button"{{if .Multi}} class="multi"{{end}}>{{if .Multi}}Audio: Multi{{else}}Audio: Single{{end}}</button>
<button id="closeButton" type="button">Close</button>
</div>
<script>
(function () {
  "use strict";
  var boot = {{.Boot}};
  var grid = document.getElementById("streamGrid");
  var audioButton = document.getElementById("audioToggle");
  var channels = boot.channels;
  var shape = boot.grid;
  var audioMode = boot.audioMode;
  var focused = boot.focusedIndex;
  var revision = boot.revision;
  var muteChoice = new Map();
  channels.forEach(function (c) { muteChoice.set(c.channel, c.muted); });

  function playerURL(channel, muted) {
    return boot.playerBase + "?channel=" + encodeURIComponent(channel) +
      "&parent=" + encodeURIComponent(boot.parentHost) +
      "&muted=" + (muted ? "true" : "false") + "&autoplay=true";
  }

  function isMuted(index, channel) {
    if (audioMode === "single") { return index !== focused; }
    return muteChoice.has(channel) ? muteChoice.get(channel) : false;
  }

  function makeTile(channel) {
    var tile = document.createElement("div");
    tile.className = "stream-tile";
    tile.dataset.channel = channel;
    var frame = document.createElement("iframe");
    frame.setAttribute("allow", "autoplay; fullscreen; picture-in-picture");
    var label = document.createElement("div");
    label.className = "tile-label";
    label.textContent = channel;
    var badge = document.createElement("div");
    badge.className = "audio-badge";
    badge.textContent = "🔊";
    badge.hidden = true;
    tile.appendChild(frame);
    tile.appendChild(label);
    tile.appendChild(badge);
    return tile;
  }

  function makePlaceholder() {
    var cell = document.createElement("div");
    cell.className = "placeholder";
    cell.textContent = "No Stream";
    return cell;
  }

  function applyAudio() {
    grid.querySelectorAll(".stream-tile").forEach(function (tile) {
      var index = Number(tile.dataset.index);
      var muted = isMuted(index, tile.dataset.channel);
      var frame = tile.querySelector("iframe");
      var src = playerURL(tile.dataset.channel, muted);
      if (frame.getAttribute("src") !== src) { frame.setAttribute("src", src); }
      tile.classList.toggle("audible", !muted);
      tile.querySelector(".audio-badge").hidden = !(audioMode === "single" && index === focused);
    });
    audioButton.textContent = audioMode === "multi" ? "Audio: Multi" : "Audio: Single";
    audioButton.classList.toggle("multi", audioMode === "multi");
  }

  function render() {
    var existing = new Map();
    grid.querySelectorAll(".stream-tile").forEach(function (tile) {
      existing.set(tile.dataset.channel, tile);
    });
    var nodes = [];
    channels.forEach(function (c, index) {
      var tile = existing.get(c.channel);
      if (tile) { existing.delete(c.channel); } else { tile = makeTile(c.channel); }
      tile.dataset.index = String(index);
      nodes.push(tile);
    });
    for (var i = channels.length; i < shape.rows * shape.cols; i++) { nodes.push(makePlaceholder()); }
    nodes.forEach(function (node, index) {
      if (grid.children[index] !== node) { grid.insertBefore(node, grid.children[index] || null); }
    });
    while (grid.children.length > nodes.length) { grid.lastElementChild.remove(); }
    grid.style.gridTemplateColumns = "repeat(" + shape.cols + ", 1fr)";
    grid.style.gridTemplateRows = "repeat(" + shape.rows + ", 1fr)";
    applyAudio();
  }

  grid.addEventListener("click", function (event) {
    var tile = event.target.closest(".stream-tile");
    if (!tile) { return; }
    var index = Number(tile.dataset.index);
    if (audioMode === "single") {
      focused = index;
    } else {
      muteChoice.set(tile.dataset.channel, !isMuted(index, tile.dataset.channel));
    }
    applyAudio();
  });

  audioButton.addEventListener("click", function () {
    audioMode = audioMode === "single" ? "multi" : "single";
    if (audioMode === "multi") {
      channels.forEach(function (c) { muteChoice.set(c.channel, false); });
    }
    applyAudio();
  });

  document.getElementById("syncButton").addEventListener("click", function () {
    var target = window.opener || (window.parent !== window ? window.parent : null);
    if (target && boot.primaryOrigin) { target.postMessage({ type: "SYNC_REQUEST" }, boot.primaryOrigin); }
  });

  document.getElementById("closeButton").addEventListener("click", function () { window.close(); });

  window.addEventListener("message", function (event) {
    if (boot.allowedOrigins.indexOf(event.origin) < 0) { return; }
    var data = event.data;
    if (!data || data.type !== "CHANNELS_UPDATE" || !Array.isArray(data.channels)) { return; }
    if (data.revision && data.revision === revision) { return; }
    revision = data.revision || "";
    channels = data.channels.slice(0, 16);
    channels.forEach(function (c) {
      if (!muteChoice.has(c.channel)) { muteChoice.set(c.channel, c.muted); }
    });
    if (data.grid && data.grid.rows > 0 && data.grid.cols > 0) { shape = data.grid; }
    if (data.audioMode === "single" || data.audioMode === "multi") { audioMode = data.audioMode; }
    if (typeof data.focusedIndex === "number") { focused = data.focusedIndex; }
    focused = Math.max(0, Math.min(focused, channels.length - 1));
    render();
  });
})();
</script>
</body>
</html>
`
