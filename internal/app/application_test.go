package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"grayscale-changer/internal/config"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// speckImage is white with one dark pixel at (1,1) and a dark bar along
// row 4. The speck outlines to a lone black pixel that stray removal drops.
func speckImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	for x := 3; x < 7; x++ {
		img.SetRGBA(x, 4, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	}
	return img
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speck.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, speckImage()))
	require.NoError(t, f.Close())
	return path
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func runConfig(t *testing.T, args ...string) *config.Config {
	t.Helper()
	cfg, err := config.Parse(args, nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunOverwritesInput(t *testing.T) {
	path := writeInput(t)
	cfg := runConfig(t, "-threshold", "100", path)

	require.NoError(t, NewApplication(cfg, logger.Nop{}).Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := decode(t, data)

	assert.Equal(t, raster.White, raster.FromColor(out.At(1, 1)), "speck removed as stray")
	for x := 3; x < 7; x++ {
		assert.Equal(t, raster.Black, raster.FromColor(out.At(x, 4)))
	}
	assert.Equal(t, raster.White, raster.FromColor(out.At(0, 0)))
}

func TestRunKeepStraysToStdout(t *testing.T) {
	path := writeInput(t)
	cfg := runConfig(t, "-threshold", "100", "-keep-strays", "-out", "-", path)

	var stdout bytes.Buffer
	a := NewApplication(cfg, logger.Nop{})
	a.SetStdio(nil, &stdout)
	require.NoError(t, a.Run(context.Background()))

	out := decode(t, stdout.Bytes())
	assert.Equal(t, raster.Black, raster.FromColor(out.At(1, 1)))
}

func TestRunScalesToRequestedSize(t *testing.T) {
	path := writeInput(t)
	target := filepath.Join(t.TempDir(), "scaled.png")
	cfg := runConfig(t, "-threshold", "100", "-width", "16", "-height", "12", "-out", target, path)

	require.NoError(t, NewApplication(cfg, logger.Nop{}).Run(context.Background()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), decode(t, data).Bounds())
}

func TestRunMissingImage(t *testing.T) {
	cfg := runConfig(t, "-threshold", "5", filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, NewApplication(cfg, logger.Nop{}).Run(context.Background()))
}

func TestRunReadsStdinWritesStdout(t *testing.T) {
	var stdin bytes.Buffer
	require.NoError(t, png.Encode(&stdin, speckImage()))
	cfg := runConfig(t, "-threshold", "100", "-")
	require.Equal(t, config.StdioPath, cfg.OutputPath)

	var stdout bytes.Buffer
	a := NewApplication(cfg, logger.Nop{})
	a.SetStdio(&stdin, &stdout)
	require.NoError(t, a.Run(context.Background()))

	out := decode(t, stdout.Bytes())
	assert.Equal(t, image.Rect(0, 0, 8, 6), out.Bounds())
	assert.Equal(t, raster.White, raster.FromColor(out.At(1, 1)))
	assert.Equal(t, raster.Black, raster.FromColor(out.At(4, 4)))
}

func TestRunRejectsUndecodableStdin(t *testing.T) {
	cfg := runConfig(t, "-threshold", "100", "-")
	a := NewApplication(cfg, logger.Nop{})
	a.SetStdio(bytes.NewBufferString("not an image"), &bytes.Buffer{})
	assert.Error(t, a.Run(context.Background()))
}
