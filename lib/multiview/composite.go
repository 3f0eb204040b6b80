// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// Composite block size in pixels. Each channel gets one block.
const (
	BlockWidth  = 160
	BlockHeight = 90
)

var (
	compositeBackground = color.RGBA{0x00, 0x00, 0x00, 0xff}
	compositeBlock      = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	compositeLabel      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	compositeBadge      = color.RGBA{0x10, 0xb9, 0x81, 0xff}
)

// Composite paints the synthetic placeholder canvas used on
// constrained platforms. Twitch players cannot be captured, so each
// channel is a dark block with its name centered; in single-audio mode
// the focused block carries a speaker badge in its top-left corner.
// The canvas is grid.Cols*BlockWidth × grid.Rows*BlockHeight.
func Composite(channels []tiles.VisibleChannel, grid layout.GridSize, mode AudioMode, focused int) *image.RGBA {
	grid.Rows = max(grid.Rows, 1)
	grid.Cols = max(grid.Cols, 1)
	canvas := image.NewRGBA(image.Rect(0, 0, grid.Cols*BlockWidth, grid.Rows*BlockHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(compositeBackground), image.Point{}, draw.Src)

	for index, channel := range channels {
		if index >= grid.Cells() {
			break
		}
		x := (index % grid.Cols) * BlockWidth
		y := (index / grid.Cols) * BlockHeight

		block := image.Rect(x+1, y+1, x+BlockWidth-1, y+BlockHeight-1)
		draw.Draw(canvas, block, image.NewUniform(compositeBlock), image.Point{}, draw.Src)
		drawCenteredLabel(canvas, channel.Channel, x+BlockWidth/2, y+50, BlockWidth-10)

		if mode == AudioSingle && index == focused {
			drawSpeakerBadge(canvas, x+5, y+5)
		}
	}
	return canvas
}

// drawCenteredLabel draws text with its baseline at y, centered on x,
// truncated with ".." when wider than maxWidth.
func drawCenteredLabel(canvas draw.Image, text string, x, y, maxWidth int) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(compositeLabel),
		Face: face,
	}
	limit := fixed.I(maxWidth)
	if drawer.MeasureString(text) > limit {
		runes := []rune(text)
		for len(runes) > 0 && drawer.MeasureString(string(runes)+"..") > limit {
			runes = runes[:len(runes)-1]
		}
		text = string(runes) + ".."
	}
	width := drawer.MeasureString(text)
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(x) - width/2,
		Y: fixed.I(y),
	}
	drawer.DrawString(text)
}

// drawSpeakerBadge paints a 20×20 badge with a small speaker glyph
// built from rectangles.
func drawSpeakerBadge(canvas draw.Image, x, y int) {
	draw.Draw(canvas, image.Rect(x, y, x+20, y+20), image.NewUniform(compositeBadge), image.Point{}, draw.Src)
	white := image.NewUniform(compositeLabel)
	draw.Draw(canvas, image.Rect(x+4, y+8, x+8, y+12), white, image.Point{}, draw.Src)   // body
	draw.Draw(canvas, image.Rect(x+8, y+6, x+10, y+14), white, image.Point{}, draw.Src)  // cone
	draw.Draw(canvas, image.Rect(x+12, y+7, x+13, y+13), white, image.Point{}, draw.Src) // wave
	draw.Draw(canvas, image.Rect(x+15, y+5, x+16, y+15), white, image.Point{}, draw.Src) // wave
}
