// Package conversion normalises decoded images to the 3-channel BGR layout
// the pixel buffer expects.
package conversion

import (
	"fmt"

	"grayscale-changer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

func CvtColorSafe(src *safe.Mat, dst *safe.Mat, code gocv.ColorConversionCode) error {
	if err := validateColorConversion(src, code); err != nil {
		return fmt.Errorf("color conversion validation failed: %w", err)
	}

	if err := safe.ValidateMatForOperation(dst, "CvtColor destination"); err != nil {
		return fmt.Errorf("destination mat validation failed: %w", err)
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	gocv.CvtColor(srcMat, &dstMat, code)

	return nil
}

// ConvertToBGR returns a new 3-channel copy of src tracked under tag.
// Gray sources are replicated into every channel and alpha is dropped.
func ConvertToBGR(src *safe.Mat, tag string) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "ConvertToBGR"); err != nil {
		return nil, err
	}

	channels := src.Channels()

	if channels == 3 {
		return src.Clone(tag)
	}

	var conversionCode gocv.ColorConversionCode
	switch channels {
	case 1:
		conversionCode = gocv.ColorGrayToBGR
	case 4:
		conversionCode = gocv.ColorBGRAToBGR
	default:
		return nil, fmt.Errorf("unsupported channel count for BGR conversion: %d", channels)
	}

	dst, err := safe.NewMatWithTracker(src.Rows(), src.Cols(), gocv.MatTypeCV8UC3, src.Tracker(), tag)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}

	if err := CvtColorSafe(src, dst, conversionCode); err != nil {
		dst.Close()
		return nil, fmt.Errorf("color conversion failed: %w", err)
	}

	return dst, nil
}

func validateColorConversion(src *safe.Mat, code gocv.ColorConversionCode) error {
	if err := safe.ValidateMatForOperation(src, "CvtColor"); err != nil {
		return err
	}

	channels := src.Channels()

	switch code {
	case gocv.ColorGrayToBGR:
		if channels != 1 {
			return fmt.Errorf("Gray to BGR conversion requires 1 channel, got %d", channels)
		}
	case gocv.ColorBGRAToBGR:
		if channels != 4 {
			return fmt.Errorf("BGRA to BGR conversion requires 4 channels, got %d", channels)
		}
	}

	return nil
}
