// Package raster draws a CHIP-8 framebuffer as a grid of solid rectangles.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/colornames"
)

// Framebuffer dimensions.
const (
	Cols = 64
	Rows = 32
)

// Pixel colours. Both are fully opaque.
var (
	On  color.RGBA = colornames.White
	Off color.RGBA = colornames.Black
)

// Grid is a read-only view of a monochrome framebuffer.
// Row returns the Cols pixels of row y; zero is off, anything else is on.
type Grid interface {
	Row(y int) []byte
}

// GridFunc adapts a row accessor to a Grid.
type GridFunc func(y int) []byte

func (f GridFunc) Row(y int) []byte { return f(y) }

// Canvas is a drawing surface.
type Canvas interface {
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
}

// Draw clears dst to Off and then fills one w/Cols by h/Rows rectangle
// per framebuffer cell, On or Off according to g.
// Rows are read from g one at a time as they are drawn.
func Draw(dst Canvas, g Grid, w, h float64) {
	dst.Clear(Off)
	cw, ch := w/Cols, h/Rows
	for y := 0; y < Rows; y++ {
		row := g.Row(y)
		for x := 0; x < Cols; x++ {
			c := Off
			if x < len(row) && row[x] != 0 {
				c = On
			}
			dst.FillRect(float64(x)*cw, float64(y)*ch, cw, ch, c)
		}
	}
}

// Bounds returns the pixels covered by the rectangle at x, y of size w, h.
// Both edges are floored, so adjacent rectangles share no pixels and leave
// no gaps between them.
func Bounds(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Floor(x+w)), int(math.Floor(y+h)))
}

// Image is a Canvas backed by a draw.Image.
type Image struct {
	draw.Image
}

func (m Image) Clear(c color.Color) {
	draw.Draw(m.Image, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (m Image) FillRect(x, y, w, h float64, c color.Color) {
	r := Bounds(x, y, w, h).Add(m.Bounds().Min)
	draw.Draw(m.Image, r, image.NewUniform(c), image.Point{}, draw.Src)
}
