// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Uses ANSI-aware truncation so escape
// sequences in the original view are preserved on both sides of the
// overlay.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			// Short lines need padding so the overlay lands at anchorX.
			if gap := anchorX - viewLineWidth; gap > 0 {
				result.WriteString(strings.Repeat(" ", gap))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			suffix := ansi.TruncateLeft(viewLine, suffixStart, "")
			result.WriteString(suffix)
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// CenterOverlay splices overlayLines into the middle of a view that is
// width columns by height rows. Anchors never go negative, so an
// overlay larger than the view is pinned to the top-left corner.
func CenterOverlay(view string, overlayLines []string, width, height int) string {
	if len(overlayLines) == 0 {
		return view
	}
	overlayWidth := ansi.StringWidth(overlayLines[0])
	anchorX := max((width-overlayWidth)/2, 0)
	anchorY := max((height-len(overlayLines))/2, 0)
	return SpliceOverlay(view, overlayLines, anchorX, anchorY)
}

// PadOverlayLine takes styled content for the inner area and pads it
// to the full width with background-colored spaces. Returns
// " content  " with background applied to the padding.
func PadOverlayLine(styledContent string, innerWidth int, backgroundStyle lipgloss.Style) string {
	contentWidth := ansi.StringWidth(styledContent)
	if contentWidth > innerWidth {
		styledContent = ansi.Truncate(styledContent, innerWidth, "…")
		contentWidth = ansi.StringWidth(styledContent)
	}
	rightPad := innerWidth - contentWidth
	return backgroundStyle.Render(" ") +
		styledContent +
		backgroundStyle.Render(strings.Repeat(" ", rightPad+1))
}

// Panel frames body lines into an overlay box with a title row and a
// one-column margin on both sides. Every returned line has the same
// visible width: innerWidth + 2.
func Panel(theme Theme, title string, body []string, innerWidth int) []string {
	background := lipgloss.NewStyle().Background(theme.OverlayBackground)
	titleStyle := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.Accent).
		Bold(true)

	lines := make([]string, 0, len(body)+3)
	blank := background.Render(strings.Repeat(" ", innerWidth+2))
	lines = append(lines, PadOverlayLine(titleStyle.Render(title), innerWidth, background))
	lines = append(lines, blank)
	for _, line := range body {
		lines = append(lines, PadOverlayLine(line, innerWidth, background))
	}
	lines = append(lines, blank)
	return lines
}
