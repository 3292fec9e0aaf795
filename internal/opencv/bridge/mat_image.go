// Package bridge exposes OpenCV Mats as raster buffers and converts between
// Mats and image.Image.
package bridge

import (
	"fmt"
	"image"

	"grayscale-changer/internal/opencv/safe"
	"grayscale-changer/internal/raster"

	"gocv.io/x/gocv"
)

// MatBuffer is a raster.Buffer over a 3-channel BGR Mat. Any failed access
// panics: callers iterate within Width/Height, so a failure is a bug.
type MatBuffer struct {
	mat *safe.Mat
}

func NewMatBuffer(mat *safe.Mat) (*MatBuffer, error) {
	if err := safe.ValidateMatForOperation(mat, "NewMatBuffer"); err != nil {
		return nil, err
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("pixel buffer requires an 8-bit 3 channel Mat, got %d channels of type %v", mat.Channels(), mat.Type())
	}
	return &MatBuffer{mat: mat}, nil
}

func (b *MatBuffer) Mat() *safe.Mat { return b.mat }
func (b *MatBuffer) Width() int     { return b.mat.Cols() }
func (b *MatBuffer) Height() int    { return b.mat.Rows() }

func (b *MatBuffer) At(x, y int) raster.Color {
	return raster.Color{
		B: b.get(x, y, 0),
		G: b.get(x, y, 1),
		R: b.get(x, y, 2),
	}
}

func (b *MatBuffer) Set(x, y int, c raster.Color) {
	b.set(x, y, 0, c.B)
	b.set(x, y, 1, c.G)
	b.set(x, y, 2, c.R)
}

func (b *MatBuffer) get(x, y, channel int) uint8 {
	v, err := b.mat.GetUCharAt3(y, x, channel)
	if err != nil {
		panic(fmt.Sprintf("bridge: read (%d,%d): %v", x, y, err))
	}
	return v
}

func (b *MatBuffer) set(x, y, channel int, v uint8) {
	if err := b.mat.SetUCharAt3(y, x, channel, v); err != nil {
		panic(fmt.Sprintf("bridge: write (%d,%d): %v", x, y, err))
	}
}

// MatToImage renders a 3-channel BGR Mat as RGBA.
func MatToImage(mat *safe.Mat) (*image.RGBA, error) {
	buf, err := NewMatBuffer(mat)
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return raster.ToImage(buf), nil
}

// ImageToMat copies img into a new BGR Mat reporting to tracker.
func ImageToMat(img image.Image, tracker safe.MemoryTracker, tag string) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	mat, err := safe.NewMatWithTracker(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC3, tracker, tag)
	if err != nil {
		return nil, err
	}

	buf := &MatBuffer{mat: mat}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			buf.Set(x, y, raster.FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}

	return mat, nil
}
