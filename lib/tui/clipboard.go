// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Clipboard receives text the user asked to copy.
type Clipboard interface {
	Copy(text string)
}

// TerminalClipboard copies through the terminal with an OSC 52 escape
// sequence, which works over SSH and inside tmux without a display
// server. Terminals that do not implement OSC 52 ignore it silently.
type TerminalClipboard struct {
	output *termenv.Output
}

// NewTerminalClipboard returns a clipboard writing escape sequences to w,
// normally the program's stdout.
func NewTerminalClipboard(w io.Writer) *TerminalClipboard {
	return &TerminalClipboard{output: termenv.NewOutput(w)}
}

// Copy places text on the system clipboard.
func (clipboard *TerminalClipboard) Copy(text string) {
	clipboard.output.Copy(text)
}
