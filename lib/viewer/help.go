// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/streammesh/lib/tui"
)

const helpWidth = 48

// helpMarkdown builds the shortcut sheet from the active key map, so
// rebound keys show up correctly.
func helpMarkdown(keys KeyMap) string {
	var builder strings.Builder
	for index, group := range keys.helpGroups() {
		if index > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("## " + group.title + "\n\n")
		builder.WriteString("| Key | Action |\n|---|---|\n")
		for _, binding := range group.bindings {
			help := binding.Help()
			if help.Key == "" {
				continue
			}
			builder.WriteString("| `" + strings.ReplaceAll(help.Key, "|", `\|`) + "` | " + help.Desc + " |\n")
		}
	}
	builder.WriteString("\nShare links open in a browser with the same layout, channels, and chat settings.\n")
	return builder.String()
}

func (model *Model) renderHelp() {
	rendered := tui.RenderMarkdown(helpMarkdown(model.keys), model.theme, helpWidth, model.profile)
	model.helpLines = strings.Split(rendered, "\n")
	model.helpScroll = min(model.helpScroll, max(len(model.helpLines)-model.helpRows(), 0))
}

// helpRows is how many sheet lines fit inside the overlay.
func (model Model) helpRows() int {
	// Panel chrome: title, two blank rows, and a margin above and below.
	return max(model.height-5, 3)
}

func (model Model) helpPanel() []string {
	rows := model.helpRows()
	visible := model.helpLines
	scrolled := len(visible) > rows
	if scrolled {
		end := min(model.helpScroll+rows, len(visible))
		visible = visible[model.helpScroll:end]
	}

	body := make([]string, len(visible))
	copy(body, visible)
	innerWidth := helpWidth
	if scrolled {
		bar := tui.RenderScrollbar(model.theme, len(body), len(model.helpLines), rows, model.helpScroll)
		background := lipgloss.NewStyle().Background(model.theme.OverlayBackground)
		for index, line := range body {
			pad := max(helpWidth-ansi.StringWidth(line), 0)
			body[index] = line + background.Render(strings.Repeat(" ", pad)) + bar[index]
		}
		innerWidth = helpWidth + 1
	}
	return tui.Panel(model.theme, "Keyboard shortcuts", body, innerWidth)
}
