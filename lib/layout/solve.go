// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

// MaxMultiviewChannels is the most channels a multiview surface shows.
// Channels beyond this are dropped, not queued.
const MaxMultiviewChannels = 16

// GridSize is a rows × cols arrangement.
type GridSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells returns Rows*Cols.
func (g GridSize) Cells() int { return g.Rows * g.Cols }

// Solve returns the smallest grid from the fixed progression that fits
// channelCount channels: 1×1, 1×2, 2×2, 2×3, 3×3, 3×4, 4×4. Zero and
// negative counts get 1×1; anything past 12 gets 4×4.
func Solve(channelCount int) GridSize {
	switch {
	case channelCount <= 1:
		return GridSize{Rows: 1, Cols: 1}
	case channelCount == 2:
		return GridSize{Rows: 1, Cols: 2}
	case channelCount <= 4:
		return GridSize{Rows: 2, Cols: 2}
	case channelCount <= 6:
		return GridSize{Rows: 2, Cols: 3}
	case channelCount <= 9:
		return GridSize{Rows: 3, Cols: 3}
	case channelCount <= 12:
		return GridSize{Rows: 3, Cols: 4}
	default:
		return GridSize{Rows: 4, Cols: 4}
	}
}
