// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// RenderScrollbar produces a single-column scrollbar, one entry per row,
// for appending to the right edge of a scrolled panel. The thumb
// indicates the visible region within the total content.
//
// When content fits within the visible area the thumb spans the entire
// height. The help sheet uses it when the terminal is shorter than the
// rendered shortcut table.
func RenderScrollbar(theme Theme, height, totalLines, visibleLines, scrollOffset int) []string {
	if height <= 0 {
		return nil
	}

	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.Accent)

	lines := make([]string, height)

	if totalLines <= visibleLines || totalLines <= 0 {
		for index := range lines {
			lines[index] = thumbStyle.Render("┃")
		}
		return lines
	}

	thumbSize := max(height*visibleLines/totalLines, 1)

	scrollableRange := totalLines - visibleLines
	trackRange := height - thumbSize
	thumbOffset := 0
	if scrollableRange > 0 && trackRange > 0 {
		thumbOffset = scrollOffset * trackRange / scrollableRange
	}
	if thumbOffset+thumbSize > height {
		thumbOffset = height - thumbSize
	}

	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}

	return lines
}
