package outline

import "grayscale-changer/internal/raster"

// NeighborMode selects how per-direction neighbor tests behave on pixels
// that lack some neighbors.
type NeighborMode int

const (
	// FreshNeighbors resets every direction to false before each pixel, so a
	// pixel is judged only by the neighbors it actually has.
	FreshNeighbors NeighborMode = iota
	// StaleNeighbors keeps the last value computed for each direction across
	// pixels within a pass. Edge and corner pixels then inherit the result of
	// an earlier pixel for directions they cannot test. Kept for output
	// parity with the legacy tool.
	StaleNeighbors
)

func (m NeighborMode) String() string {
	switch m {
	case StaleNeighbors:
		return "stale"
	default:
		return "fresh"
	}
}

// BuildEdgeMask marks every pixel that has an orthogonal neighbor darker by
// at least threshold in all three channels. Each pixel is judged by its
// colour captured before the scan against the live buffer value of the
// neighbor. buf is not modified.
func BuildEdgeMask(buf raster.Buffer, threshold int, mode NeighborMode) *Mask {
	w, h := buf.Width(), buf.Height()

	snapshot := make([]raster.Color, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			snapshot[x*h+y] = buf.At(x, y)
		}
	}

	mask := NewMask(w, h)
	var left, right, up, down bool
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if mode == FreshNeighbors {
				left, right, up, down = false, false, false, false
			}
			base := snapshot[x*h+y]

			if x > 0 {
				left = IsDarkerBy(buf.At(x-1, y), base, threshold)
			}
			if x < w-1 {
				right = IsDarkerBy(buf.At(x+1, y), base, threshold)
			}
			if y > 0 {
				up = IsDarkerBy(buf.At(x, y-1), base, threshold)
			}
			if y < h-1 {
				down = IsDarkerBy(buf.At(x, y+1), base, threshold)
			}

			mask.Set(x, y, left || right || up || down)
		}
	}

	return mask
}
