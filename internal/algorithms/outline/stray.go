package outline

import "grayscale-changer/internal/raster"

// Tested in this order so that StaleNeighbors carries each direction's
// flag independently.
var strayOffsets = [8]struct{ dx, dy int }{
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

// RemoveStrayPixels whitens every black pixel whose surrounding pixels are
// all non-black, then repaints buf as pure black and white. Neighbors are
// read from the buffer as it was before the pass, so a removal never causes
// another. It returns the number of pixels removed.
func RemoveStrayPixels(buf raster.Buffer, mode NeighborMode) int {
	w, h := buf.Width(), buf.Height()

	black := NewMask(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			black.Set(x, y, buf.At(x, y).IsBlack())
		}
	}

	var neighbors [8]bool
	removed := 0
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if !black.At(x, y) {
				continue
			}
			if mode == FreshNeighbors {
				neighbors = [8]bool{}
			}

			for i, off := range strayOffsets {
				nx, ny := x+off.dx, y+off.dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				neighbors[i] = buf.At(nx, ny).IsBlack()
			}

			if !anyTrue(neighbors) {
				black.Set(x, y, false)
				removed++
			}
		}
	}

	CommitMask(buf, black)
	return removed
}

func anyTrue(flags [8]bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}
