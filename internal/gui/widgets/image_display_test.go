package widgets

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestImageDisplaySetImages(t *testing.T) {
	test.NewApp()

	display := NewImageDisplay()
	original := image.NewRGBA(image.Rect(0, 0, 40, 30))
	result := image.NewRGBA(image.Rect(0, 0, 40, 30))

	display.SetOriginalImage(original)
	display.SetResultImage(result)

	assert.Same(t, original, display.OriginalImage())
	assert.Same(t, result, display.ResultImage())
	assert.NotNil(t, display.GetContainer())
}

func TestPaneSize(t *testing.T) {
	assert.Equal(t, fyne.NewSize(40, 30), PaneSize(image.NewRGBA(image.Rect(0, 0, 40, 30))))
	assert.Equal(t, fyne.NewSize(800, 400), PaneSize(image.NewRGBA(image.Rect(0, 0, 1600, 800))))
	assert.Equal(t, fyne.NewSize(300, 600), PaneSize(image.NewRGBA(image.Rect(0, 0, 500, 1000))))
	assert.Equal(t, fyne.NewSize(0, 0), PaneSize(nil))
}
