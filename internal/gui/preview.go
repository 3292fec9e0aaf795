// Package gui shows the filter result in a desktop window.
package gui

import (
	"fmt"
	"image"

	"grayscale-changer/internal/gui/widgets"
	"grayscale-changer/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const WindowTitle = "Grayscale Changer"

type Preview struct {
	app     fyne.App
	window  fyne.Window
	display *widgets.ImageDisplay
	status  *widget.Label
	logger  logger.Logger
}

func NewPreview(app fyne.App, log logger.Logger) *Preview {
	p := &Preview{
		app:     app,
		window:  app.NewWindow(WindowTitle),
		display: widgets.NewImageDisplay(),
		status:  widget.NewLabel(""),
		logger:  log,
	}

	p.window.SetContent(container.NewBorder(nil, p.status, nil, nil, p.display.GetContainer()))
	p.window.SetMaster()
	return p
}

func (p *Preview) SetImages(original, result image.Image) {
	p.display.SetOriginalImage(original)
	p.display.SetResultImage(result)

	left := widgets.PaneSize(original)
	right := widgets.PaneSize(result)
	p.window.Resize(fyne.NewSize(left.Width+right.Width, max(left.Height, right.Height)))
}

// SetSummary renders the processing summary in the status bar.
func (p *Preview) SetSummary(path string, summary map[string]interface{}) {
	p.status.SetText(fmt.Sprintf("%s: %v black pixels, %v strays removed",
		path, summary["black_pixels"], summary["stray_pixels"]))
}

func (p *Preview) Display() *widgets.ImageDisplay {
	return p.display
}

func (p *Preview) Status() string {
	return p.status.Text
}

// ShowAndRun blocks until the window is closed. It must run on the main
// goroutine.
func (p *Preview) ShowAndRun() {
	p.logger.Debug("Preview", "window opened", nil)
	p.window.ShowAndRun()
	p.logger.Debug("Preview", "window closed", nil)
}
