package outline

import "grayscale-changer/internal/raster"

// IsDarkerBy reports whether every channel of live exceeds the matching
// channel of snapshot by at least threshold. The test is one-directional:
// live - snapshot, per channel, never the absolute difference.
func IsDarkerBy(live, snapshot raster.Color, threshold int) bool {
	return int(live.R)-int(snapshot.R) >= threshold &&
		int(live.G)-int(snapshot.G) >= threshold &&
		int(live.B)-int(snapshot.B) >= threshold
}
