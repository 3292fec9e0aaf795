package outline

import (
	"fmt"

	"grayscale-changer/internal/raster"
)

// Mask holds one black/white decision per pixel. true renders black.
// Cells are stored column by column: (x,y) lives at x*height+y, the order
// the passes visit them in.
type Mask struct {
	width, height int
	cells         []bool
}

func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

func (m *Mask) At(x, y int) bool {
	return m.cells[m.index(x, y)]
}

func (m *Mask) Set(x, y int, black bool) {
	m.cells[m.index(x, y)] = black
}

// Count returns the number of black cells.
func (m *Mask) Count() int {
	n := 0
	for _, black := range m.cells {
		if black {
			n++
		}
	}
	return n
}

func (m *Mask) index(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic(fmt.Sprintf("outline: mask coordinates (%d,%d) out of bounds for %dx%d", x, y, m.width, m.height))
	}
	return x*m.height + y
}

// CommitMask paints buf pure black where mask is set and pure white elsewhere.
func CommitMask(buf raster.Buffer, mask *Mask) {
	w, h := buf.Width(), buf.Height()
	if mask.width != w || mask.height != h {
		panic(fmt.Sprintf("outline: mask is %dx%d but buffer is %dx%d", mask.width, mask.height, w, h))
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if mask.At(x, y) {
				buf.Set(x, y, raster.Black)
			} else {
				buf.Set(x, y, raster.White)
			}
		}
	}
}
