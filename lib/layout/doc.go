// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout is the static registry of tile layouts.
//
// Two catalogs share one key space. [Grid] holds the wide-screen
// arrangements (up to 3×3); [Stacked] holds the one-column variants used
// on narrow screens. Keeping the keys identical means a share link made
// on a phone opens the same layout on a desktop and vice versa. The
// presentation layer chooses the active catalog with [ForWidth].
//
// [Solve] is the separate grid solver used by the multiview surface,
// which can show up to [MaxMultiviewChannels] channels in a 4×4 grid.
//
// Lookups never fail: an unknown key resolves to [DefaultKey].
package layout
