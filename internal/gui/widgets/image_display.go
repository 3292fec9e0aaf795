package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	MaxPaneWidth  = 800
	MaxPaneHeight = 600
)

// ImageDisplay shows the source image and the filtered result side by side.
type ImageDisplay struct {
	container     fyne.CanvasObject
	originalImage *canvas.Image
	resultImage   *canvas.Image
	splitView     *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = canvas.NewImageFromImage(nil)
	id.originalImage.FillMode = canvas.ImageFillContain
	// Nearest neighbour keeps single black pixels crisp when scaled.
	id.originalImage.ScaleMode = canvas.ImageScalePixels

	id.resultImage = canvas.NewImageFromImage(nil)
	id.resultImage.FillMode = canvas.ImageFillContain
	id.resultImage.ScaleMode = canvas.ImageScalePixels
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"),
		nil, nil, nil,
		id.originalImage,
	)

	resultContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Outline**"),
		nil, nil, nil,
		id.resultImage,
	)

	id.splitView = container.NewHSplit(originalContainer, resultContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = img
	id.originalImage.SetMinSize(PaneSize(img))
	id.originalImage.Refresh()
}

func (id *ImageDisplay) SetResultImage(img image.Image) {
	id.resultImage.Image = img
	id.resultImage.SetMinSize(PaneSize(img))
	id.resultImage.Refresh()
}

func (id *ImageDisplay) OriginalImage() image.Image {
	return id.originalImage.Image
}

func (id *ImageDisplay) ResultImage() image.Image {
	return id.resultImage.Image
}

// PaneSize is the image's own size, scaled down to fit a pane if needed.
func PaneSize(img image.Image) fyne.Size {
	if img == nil {
		return fyne.NewSize(0, 0)
	}

	w := float32(img.Bounds().Dx())
	h := float32(img.Bounds().Dy())
	if w == 0 || h == 0 {
		return fyne.NewSize(0, 0)
	}

	scale := min(float32(1), MaxPaneWidth/w, MaxPaneHeight/h)
	return fyne.NewSize(w*scale, h*scale)
}
