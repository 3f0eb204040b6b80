// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/tiles"
	"github.com/bureau-foundation/streammesh/lib/tui"
)

// Minimum tile box size, border included.
const (
	minTileWidth  = 12
	minTileHeight = 4
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	state := model.store.Snapshot()

	sections := []string{
		model.renderHeader(state),
		model.renderGrid(state),
		model.renderFooter(),
	}
	view := strings.Join(sections, "\n")

	switch model.focus {
	case focusPicker:
		view = tui.CenterOverlay(view, model.picker.Render(model.theme), model.width, model.height)
	case focusHelp:
		view = tui.CenterOverlay(view, model.helpPanel(), model.width, model.height)
	}
	return view
}

func (model Model) renderHeader(state tiles.State) string {
	descriptor := model.store.Descriptor()
	title := lipgloss.NewStyle().Foreground(model.theme.Accent).Bold(true).Render("StreamMesh")
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground)

	parts := []string{
		title,
		normal.Render(descriptor.Label),
		normal.Render(fmt.Sprintf("Tiles: %d/%d", state.ActiveCount, descriptor.MaxTiles)),
	}
	if model.store.Compact() {
		parts = append(parts, faint.Render("stacked"))
	}
	if model.zoomed {
		parts = append(parts, faint.Render("zoom"))
	}
	left := strings.Join(parts, faint.Render("  ·  "))

	right := ""
	if model.multiview != nil && model.multiview.State() != multiview.StateClosed {
		status := "multiview " + model.multiview.State().String()
		if result, ok := model.multiview.Result(); ok {
			status = fmt.Sprintf("multiview %s · audio %s", result.Mode, model.multiview.AudioMode())
		}
		right = lipgloss.NewStyle().Foreground(model.theme.AudibleTile).Render(status)
	}

	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if right == "" || gap < 2 {
		return ansi.Truncate(left, model.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (model Model) renderFooter() string {
	if model.focus == focusEdit {
		return model.editor.View()
	}
	if model.notice != "" {
		color := model.theme.Success
		if model.noticeFailure {
			color = model.theme.Failure
		}
		return ansi.Truncate(lipgloss.NewStyle().Foreground(color).Render(model.notice), model.width, "…")
	}
	hints := []string{"? help", "Enter edit", "c chat", "l layout", "y share", "m multiview", "q quit"}
	return ansi.Truncate(lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(strings.Join(hints, "  ")), model.width, "…")
}

// geometry returns the rows and columns used to lay out the active
// tiles. Stacked layouts put one tile per row.
func (model Model) geometry(state tiles.State) (rows, cols int) {
	descriptor := model.store.Descriptor()
	if descriptor.Kind == layout.KindStacked {
		return max(state.ActiveCount, 1), 1
	}
	return max(descriptor.Rows, 1), max(descriptor.Cols, 1)
}

func (model Model) gridHeight() int {
	return max(model.height-2, minTileHeight)
}

func (model Model) renderGrid(state tiles.State) string {
	if model.zoomed {
		return model.renderTile(state, model.cursor, max(model.width, minTileWidth), model.gridHeight())
	}

	rows, cols := model.geometry(state)
	width := max(model.width, cols*minTileWidth)
	height := model.gridHeight()

	renderedRows := make([]string, 0, rows)
	slot := 0
	for row := range rows {
		cellHeight := height / rows
		if row == rows-1 {
			cellHeight = height - cellHeight*(rows-1)
		}
		cellHeight = max(cellHeight, minTileHeight)

		cells := make([]string, 0, cols)
		for col := range cols {
			cellWidth := width / cols
			if col == cols-1 {
				cellWidth = width - cellWidth*(cols-1)
			}
			if slot < state.ActiveCount {
				cells = append(cells, model.renderTile(state, slot, cellWidth, cellHeight))
			} else {
				cells = append(cells, lipgloss.NewStyle().Width(cellWidth).Height(cellHeight).Render(""))
			}
			slot++
		}
		renderedRows = append(renderedRows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderedRows...)
}

// renderTile draws one slot as a bordered box width×height cells in
// size, border included.
func (model Model) renderTile(state tiles.State, slot, width, height int) string {
	tile := state.Tiles[slot]
	focused := slot == model.cursor

	borderColor := model.theme.BorderColor
	if focused {
		borderColor = model.theme.Accent
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(max(height, minTileHeight))

	innerWidth := max(width-2, 1)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	label := faint.Render(fmt.Sprintf("#%d", slot+1))

	name := strings.TrimSpace(tile.Channel)
	var lines []string
	if name == "" {
		lines = []string{
			label,
			lipgloss.NewStyle().Foreground(model.theme.EmptyTile).Italic(true).Render("Empty"),
		}
	} else {
		nameStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText).Bold(true)
		if focused {
			nameStyle = nameStyle.Foreground(model.theme.SelectedForeground)
		}
		chat := faint.Render("chat off")
		if tile.ShowChat {
			chat = lipgloss.NewStyle().Foreground(model.theme.ChatOn).Render("chat on")
		}
		lines = []string{label + " " + nameStyle.Render(name), chat}
		if model.audible(state, slot) {
			lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.AudibleTile).Render("♪ audio"))
		}
	}
	for index, line := range lines {
		lines[index] = ansi.Truncate(line, innerWidth, "…")
	}
	return box.Render(strings.Join(lines, "\n"))
}

// audible reports whether slot carries the multiview audio: the session
// is open in single mode and its focused channel is this tile.
func (model Model) audible(state tiles.State, slot int) bool {
	if model.multiview == nil || model.multiview.AudioMode() != multiview.AudioSingle {
		return false
	}
	result, ok := model.multiview.Result()
	if !ok {
		return false
	}
	index, ok := visibleIndex(state, slot)
	return ok && index == result.FocusedIndex
}
