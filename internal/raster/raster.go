// Package raster defines the pixel buffer the filter passes read and write.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Color is an RGB triple with 8-bit channels.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// IsBlack reports whether c is exactly pure black.
func (c Color) IsBlack() bool {
	return c == Black
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// FromColor drops alpha and keeps the top 8 bits of each channel.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Buffer is an addressable width x height grid of pixels.
// Coordinates outside [0,Width) x [0,Height) are programming errors and
// implementations panic on them.
type Buffer interface {
	Width() int
	Height() int
	At(x, y int) Color
	Set(x, y int, c Color)
}

// Grid is an in-memory Buffer.
type Grid struct {
	width, height int
	pix           []Color
}

func NewGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("raster: negative grid size %dx%d", width, height))
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) At(x, y int) Color {
	return g.pix[g.offset(x, y)]
}

func (g *Grid) Set(x, y int, c Color) {
	g.pix[g.offset(x, y)] = c
}

func (g *Grid) offset(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("raster: coordinates (%d,%d) out of bounds for %dx%d", x, y, g.width, g.height))
	}
	return y*g.width + x
}

// Fill sets every pixel of buf to c.
func Fill(buf Buffer, c Color) {
	for x := 0; x < buf.Width(); x++ {
		for y := 0; y < buf.Height(); y++ {
			buf.Set(x, y, c)
		}
	}
}

// ToImage renders buf as an opaque RGBA image.
func ToImage(buf Buffer) *image.RGBA {
	w, h := buf.Width(), buf.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, buf.At(x, y).RGBA())
		}
	}
	return img
}
