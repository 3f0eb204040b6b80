// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for StreamMesh's terminal UI. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Focused tile and picker cursor.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Brand accent used for the header and the focused tile border.
	Accent lipgloss.Color

	// Tile states.
	AudibleTile lipgloss.Color // Tile carrying audio in single mode.
	ChatOn      lipgloss.Color
	EmptyTile   lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Transient feedback ("Copied", errors).
	Success lipgloss.Color
	Failure lipgloss.Color

	// Fuzzy match highlighting in the picker.
	MatchForeground lipgloss.Color

	LinkForeground lipgloss.Color

	// Floating overlays (picker, help sheet).
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Accent: lipgloss.Color("135"), // purple

	AudibleTile: lipgloss.Color("42"), // emerald, matches the multiview badge
	ChatOn:      lipgloss.Color("75"),
	EmptyTile:   lipgloss.Color("240"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Success: lipgloss.Color("114"),
	Failure: lipgloss.Color("196"),

	MatchForeground: lipgloss.Color("220"),

	LinkForeground: lipgloss.Color("75"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
