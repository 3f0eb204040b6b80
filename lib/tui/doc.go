// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks used by the
// StreamMesh grid viewer: the color theme, overlay splicing, a
// fuzzy-filtered picker, markdown rendering for the help sheet, and
// clipboard copy over OSC 52.
//
// Nothing here knows about tiles or layouts. The viewer package owns
// the domain state and composes these pieces into its bubbletea model.
package tui
