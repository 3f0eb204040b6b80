// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the grid viewer.
type KeyMap struct {
	// Tile focus.
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Next     key.Binding
	Previous key.Binding

	// Tile edits.
	Edit       key.Binding // Edit the focused tile's channel.
	ToggleChat key.Binding
	Clear      key.Binding // Empty the focused tile.

	// Layout.
	Layout key.Binding // Open the layout picker.
	More   key.Binding // One more visible tile.
	Fewer  key.Binding // One fewer visible tile.

	// Presentation.
	Zoom       key.Binding // Show only the focused tile.
	Fullscreen key.Binding // Open the focused tile's player on its own.
	Share      key.Binding // Copy the share link.

	// Multiview.
	Multiview key.Binding // Open or close the multiview surface.
	Audio     key.Binding // Toggle single/multi audio.

	Help   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// DefaultKeyMap uses arrow keys for focus and single letters for
// actions, leaving h free for help.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "focus tile above"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "focus tile below"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "focus tile left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "focus tile right"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next tile"),
	),
	Previous: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous tile"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("Enter/e", "edit channel"),
	),
	ToggleChat: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "toggle chat"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "clear tile"),
	),
	Layout: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "choose layout"),
	),
	More: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "add tile"),
	),
	Fewer: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "remove tile"),
	),
	Zoom: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "zoom tile"),
	),
	Fullscreen: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "open player"),
	),
	Share: key.NewBinding(
		key.WithKeys("y", "s"),
		key.WithHelp("y/s", "copy share link"),
	),
	Multiview: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "multiview on/off"),
	),
	Audio: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "single/multi audio"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "h"),
		key.WithHelp("?/h", "help"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close / cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpGroups orders the bindings for the help sheet.
func (keys KeyMap) helpGroups() []helpGroup {
	return []helpGroup{
		{"Tiles", []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.Next, keys.Previous, keys.Edit, keys.ToggleChat, keys.Clear}},
		{"Layout", []key.Binding{keys.Layout, keys.More, keys.Fewer, keys.Zoom, keys.Fullscreen}},
		{"Sharing", []key.Binding{keys.Share, keys.Multiview, keys.Audio}},
		{"General", []key.Binding{keys.Help, keys.Cancel, keys.Quit}},
	}
}

type helpGroup struct {
	title    string
	bindings []key.Binding
}
