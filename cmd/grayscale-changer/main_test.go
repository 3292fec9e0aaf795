package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}
	img.SetRGBA(2, 2, color.RGBA{A: 255})
	img.SetRGBA(2, 3, color.RGBA{A: 255})

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRunPromptsOnStderrWhenStreamingImage(t *testing.T) {
	path := writeInput(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-out", "-", path}, nil, strings.NewReader("30\n"), &stdout, &stderr)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(stdout.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "stdout starts with PNG signature")
	out, err := png.Decode(bytes.NewReader(stdout.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())

	assert.Contains(t, stderr.String(), "shades of gray")
	assert.NotContains(t, stdout.String(), "shades of gray")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-h"}, nil, strings.NewReader(""), &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Zero(t, stdout.Len())
}

func TestRunBadArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-threshold", "x"}, nil, strings.NewReader(""), &stdout, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage:")
	assert.Zero(t, stdout.Len())
}
