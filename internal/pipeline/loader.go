package pipeline

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/bridge"
	"grayscale-changer/internal/opencv/conversion"
	"grayscale-changer/internal/opencv/memory"
	"grayscale-changer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type imageLoader struct {
	memoryManager *memory.Manager
	logger        logger.Logger
}

func (l *imageLoader) LoadFromPath(path string, width, height int) (*ImageData, error) {
	if err := validateRequestedSize(width, height); err != nil {
		return nil, err
	}

	raw := gocv.IMRead(path, gocv.IMReadAnyColor)
	if raw.Empty() {
		raw.Close()
		return nil, fmt.Errorf("failed to read image %q: missing or unsupported file", path)
	}

	decoded, err := l.memoryManager.Adopt(raw, "decoded_image")
	if err != nil {
		return nil, fmt.Errorf("failed to track decoded image: %w", err)
	}
	defer l.memoryManager.ReleaseMat(decoded, "decoded_image")

	format := determineActualFormat(strings.ToLower(filepath.Ext(path)))
	return l.prepare(decoded, path, format, width, height)
}

func (l *imageLoader) LoadFromImage(img image.Image, width, height int) (*ImageData, error) {
	if err := validateRequestedSize(width, height); err != nil {
		return nil, err
	}

	decoded, err := bridge.ImageToMat(img, l.memoryManager, "decoded_image")
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer l.memoryManager.ReleaseMat(decoded, "decoded_image")

	return l.prepare(decoded, "", "memory", width, height)
}

// prepare converts decoded to BGR and stretches it to the requested size,
// the way the image is drawn into a window of that size.
func (l *imageLoader) prepare(decoded *safe.Mat, path, format string, width, height int) (*ImageData, error) {
	sourceWidth, sourceHeight, sourceChannels := decoded.Cols(), decoded.Rows(), decoded.Channels()

	bgr, err := conversion.ConvertToBGR(decoded, "original_image")
	if err != nil {
		return nil, fmt.Errorf("failed to normalise channels: %w", err)
	}

	if width == 0 {
		width = sourceWidth
	}
	if height == 0 {
		height = sourceHeight
	}

	if width != sourceWidth || height != sourceHeight {
		resized, err := l.resize(bgr, width, height)
		l.memoryManager.ReleaseMat(bgr, "original_image")
		if err != nil {
			return nil, err
		}
		bgr = resized

		l.logger.Debug("ImageLoader", "image resized", map[string]interface{}{
			"from": fmt.Sprintf("%dx%d", sourceWidth, sourceHeight),
			"to":   fmt.Sprintf("%dx%d", width, height),
		})
	}

	buf, err := bridge.NewMatBuffer(bgr)
	if err != nil {
		l.memoryManager.ReleaseMat(bgr, "original_image")
		return nil, err
	}

	imageData := &ImageData{
		Mat:            bgr,
		Buffer:         buf,
		Width:          width,
		Height:         height,
		SourceWidth:    sourceWidth,
		SourceHeight:   sourceHeight,
		SourceChannels: sourceChannels,
		Format:         format,
		Path:           path,
	}

	l.logger.Debug("ImageLoader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": sourceChannels,
		"format":   format,
	})

	return imageData, nil
}

func (l *imageLoader) resize(src *safe.Mat, width, height int) (*safe.Mat, error) {
	dst, err := l.memoryManager.GetMat(height, width, gocv.MatTypeCV8UC3, "original_image")
	if err != nil {
		return nil, fmt.Errorf("failed to allocate resized image: %w", err)
	}

	dstMat := dst.GetMat()
	gocv.Resize(src.GetMat(), &dstMat, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)

	return dst, nil
}

func validateRequestedSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if width > safe.MaxDimension || height > safe.MaxDimension {
		return fmt.Errorf("image size %dx%d exceeds maximum %d", width, height, safe.MaxDimension)
	}
	return nil
}

func determineActualFormat(extension string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
