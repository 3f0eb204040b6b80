// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/util"
)

// PickerOption is a single selectable item in a picker overlay.
type PickerOption struct {
	Label string // Display text.
	Value string // Identifier returned on selection.
}

type pickerRow struct {
	option    int
	positions []int // Rune indexes into Label to highlight.
}

// Picker is a floating, fuzzy-filtered menu. The model owns the
// picker and routes keys to it while it is open: typed runes narrow
// the filter, up/down move the cursor, enter selects.
type Picker struct {
	Title   string
	Options []PickerOption
	Cursor  int

	filter []rune
	rows   []pickerRow
	slab   *util.Slab
}

// NewPicker returns a picker over options with the cursor on the
// option whose Value equals selected, or on the first option.
func NewPicker(title string, options []PickerOption, selected string) *Picker {
	picker := &Picker{
		Title:   title,
		Options: options,
		slab:    NewFuzzySlab(),
	}
	picker.refilter()
	for index, row := range picker.rows {
		if options[row.option].Value == selected {
			picker.Cursor = index
			break
		}
	}
	return picker
}

// Filter returns the current filter text.
func (picker *Picker) Filter() string {
	return string(picker.filter)
}

// Type appends r to the filter.
func (picker *Picker) Type(r rune) {
	picker.filter = append(picker.filter, r)
	picker.refilter()
}

// Backspace removes the last filter rune. Reports false when the
// filter was already empty.
func (picker *Picker) Backspace() bool {
	if len(picker.filter) == 0 {
		return false
	}
	picker.filter = picker.filter[:len(picker.filter)-1]
	picker.refilter()
	return true
}

// Len is the number of options passing the filter.
func (picker *Picker) Len() int {
	return len(picker.rows)
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (picker *Picker) MoveUp() {
	if len(picker.rows) == 0 {
		return
	}
	picker.Cursor--
	if picker.Cursor < 0 {
		picker.Cursor = len(picker.rows) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (picker *Picker) MoveDown() {
	if len(picker.rows) == 0 {
		return
	}
	picker.Cursor++
	if picker.Cursor >= len(picker.rows) {
		picker.Cursor = 0
	}
}

// Selected returns the highlighted option. ok is false when the filter
// excludes every option.
func (picker *Picker) Selected() (option PickerOption, ok bool) {
	if len(picker.rows) == 0 {
		return PickerOption{}, false
	}
	return picker.Options[picker.rows[picker.Cursor].option], true
}

// refilter rebuilds the visible rows. With no filter every option is
// shown in declaration order. Otherwise options are ranked by their
// best score against Label or Value; ties keep declaration order.
func (picker *Picker) refilter() {
	picker.rows = picker.rows[:0]
	if len(picker.filter) == 0 {
		for index := range picker.Options {
			picker.rows = append(picker.rows, pickerRow{option: index})
		}
		picker.Cursor = 0
		return
	}

	scores := make(map[int]int, len(picker.Options))
	for index, option := range picker.Options {
		label := FuzzyMatch(option.Label, picker.filter, picker.slab)
		value := FuzzyMatch(option.Value, picker.filter, picker.slab)
		if label.Score == 0 && value.Score == 0 {
			continue
		}
		row := pickerRow{option: index}
		score := value.Score
		if label.Score >= value.Score {
			score = label.Score
			row.positions = label.Positions
		}
		scores[index] = score
		picker.rows = append(picker.rows, row)
	}
	sort.SliceStable(picker.rows, func(i, j int) bool {
		return scores[picker.rows[i].option] > scores[picker.rows[j].option]
	})
	picker.Cursor = 0
}

// Width returns the total visible width of the rendered picker.
func (picker *Picker) Width() int {
	widest := ansi.StringWidth(picker.Title)
	for _, option := range picker.Options {
		// "> " marker plus label.
		widest = max(widest, 2+ansi.StringWidth(option.Label))
	}
	widest = max(widest, len("/ ")+len(picker.filter)+1)
	return widest + 2
}

// Render produces the picker lines for overlay splicing. The first
// body line echoes the filter; the highlighted row uses the selection
// background.
func (picker *Picker) Render(theme Theme) []string {
	innerWidth := picker.Width() - 2
	background := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.OverlayForeground)
	selected := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)
	faint := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.FaintText)

	body := []string{faint.Render("/ " + string(picker.filter) + "▏")}
	if len(picker.rows) == 0 {
		body = append(body, faint.Render("no match"))
	}
	for index, row := range picker.rows {
		option := picker.Options[row.option]
		style := background
		marker := "  "
		if index == picker.Cursor {
			style = selected
			marker = "> "
		}
		match := style.Foreground(theme.MatchForeground).Bold(true)
		body = append(body, style.Render(marker)+highlightRunes(option.Label, row.positions, style, match))
	}
	return Panel(theme, picker.Title, body, innerWidth)
}

// highlightRunes renders text with the runes at positions in match
// style and the rest in base style.
func highlightRunes(text string, positions []int, base, match lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(text)
	}
	marked := make(map[int]bool, len(positions))
	for _, position := range positions {
		marked[position] = true
	}
	var builder strings.Builder
	for index, r := range []rune(text) {
		if marked[index] {
			builder.WriteString(match.Render(string(r)))
		} else {
			builder.WriteString(base.Render(string(r)))
		}
	}
	return builder.String()
}
