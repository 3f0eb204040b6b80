// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package viewer is the terminal grid editor for StreamMesh. It renders
// the tile store as a grid of boxes, edits channels and chat flags in
// place, switches layouts through a fuzzy picker, copies share links,
// and drives a multiview session.
//
// The model follows the bubbletea architecture: all store mutations
// happen inside Update, and anything that blocks (opening a multiview
// surface, launching a player) runs as a tea.Cmd whose result comes
// back as a message. Mirror keeps an open multiview session in step
// with the store independently of the UI loop.
package viewer
