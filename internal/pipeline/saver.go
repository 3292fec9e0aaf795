package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type imageSaver struct {
	logger logger.Logger
}

// SaveToPath encodes with OpenCV, choosing the codec from the extension.
// JPEG output is written at full quality but still warns, since the codec
// smears the black and white edges.
func (s *imageSaver) SaveToPath(path string, imageData *ImageData) error {
	if imageData == nil {
		return fmt.Errorf("no image data to save")
	}

	if err := safe.ValidateMatForOperation(imageData.Mat, "SaveToPath"); err != nil {
		return err
	}

	params, lossy := writeParams(path)
	if lossy {
		s.logger.Warning("ImageSaver", "lossy format, edges may not stay pure black and white", map[string]interface{}{
			"path": path,
		})
	}

	if !gocv.IMWriteWithParams(path, imageData.Mat.GetMat(), params) {
		return fmt.Errorf("failed to write image to %q", path)
	}

	s.logger.Debug("ImageSaver", "image written", map[string]interface{}{
		"path": path,
	})

	return nil
}

// SaveToWriter encodes with the standard library. Formats other than jpeg
// fall back to png.
func (s *imageSaver) SaveToWriter(writer io.Writer, imageData *ImageData, format string) error {
	if imageData == nil {
		return fmt.Errorf("no image data to save")
	}

	img, err := imageData.Image()
	if err != nil {
		return err
	}

	saveFormat := format
	if saveFormat == "" {
		saveFormat = imageData.Format
	}

	switch saveFormat {
	case "jpeg", "jpg":
		s.logger.Warning("ImageSaver", "lossy format, edges may not stay pure black and white", map[string]interface{}{
			"format": saveFormat,
		})
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: 100})
	case "png":
		err = png.Encode(writer, img)
	default:
		s.logger.Warning("ImageSaver", "format not supported for stream output, using PNG", map[string]interface{}{
			"requested_format": saveFormat,
		})
		err = png.Encode(writer, img)
	}

	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	return nil
}

// writeParams picks IMWrite parameters for path's extension and reports
// whether the codec is lossy. WebP quality above 100 selects lossless mode.
func writeParams(path string) ([]int, bool) {
	switch determineActualFormat(strings.ToLower(filepath.Ext(path))) {
	case "jpeg":
		return []int{int(gocv.IMWriteJpegQuality), 100}, true
	case "webp":
		return []int{int(gocv.IMWriteWebpQuality), 101}, false
	default:
		return nil, false
	}
}
