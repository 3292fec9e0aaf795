package app

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"grayscale-changer/internal/algorithms/outline"
	"grayscale-changer/internal/config"
	"grayscale-changer/internal/gui"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/memory"
	"grayscale-changer/internal/pipeline"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	AppName    = "Grayscale Changer"
	AppID      = "com.imageprocessing.grayscale-changer"
	AppVersion = "1.0.0"
)

type shutdownHandler interface {
	Shutdown()
}

// memoryShutdown adapts the memory manager's Cleanup to shutdownHandler.
type memoryShutdown struct{ *memory.Manager }

func (m memoryShutdown) Shutdown() { m.Cleanup() }

type Application struct {
	cfg           *config.Config
	logger        logger.Logger
	memoryManager *memory.Manager
	coordinator   *pipeline.Coordinator
	stdin         io.Reader
	stdout        io.Writer
	shutdownables []shutdownHandler
}

func NewApplication(cfg *config.Config, log logger.Logger) *Application {
	memoryManager := memory.NewManager(log)
	coordinator := pipeline.NewCoordinator(memoryManager, log)

	return &Application{
		cfg:           cfg,
		logger:        log,
		memoryManager: memoryManager,
		coordinator:   coordinator,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		shutdownables: []shutdownHandler{
			memoryShutdown{memoryManager},
			coordinator,
		},
	}
}

// SetStdio replaces the streams used when the image or output path is "-".
func (a *Application) SetStdio(in io.Reader, out io.Writer) {
	a.stdin = in
	a.stdout = out
}

// Run loads, filters and writes the image, then shows the preview if asked.
func (a *Application) Run(ctx context.Context) error {
	defer a.Shutdown()

	a.logger.Info("Application", "starting", map[string]interface{}{
		"version":   AppVersion,
		"image":     a.cfg.ImagePath,
		"threshold": a.cfg.Threshold,
	})

	if err := a.configureAlgorithm(); err != nil {
		return err
	}

	if err := a.load(); err != nil {
		return fmt.Errorf("load %s: %w", a.cfg.ImagePath, err)
	}

	_, summary, err := a.coordinator.ProcessImage(ctx, "", nil)
	if err != nil {
		return fmt.Errorf("process %s: %w", a.cfg.ImagePath, err)
	}

	if a.cfg.OutputPath == config.StdioPath {
		err = a.coordinator.SaveImageToWriter(a.stdout, "png")
	} else {
		err = a.coordinator.SaveImage(a.cfg.OutputPath)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", a.cfg.OutputPath, err)
	}

	if a.cfg.Preview {
		return a.showPreview(summary)
	}
	return nil
}

// configureAlgorithm stores the run settings in the coordinator's registry,
// which validates them before any pixel is touched.
func (a *Application) configureAlgorithm() error {
	registry := a.coordinator.Algorithms()
	if err := registry.SetCurrentAlgorithm(outline.Name); err != nil {
		return err
	}

	for name, value := range a.parameters() {
		if err := registry.SetParameter(outline.Name, name, value); err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
	}

	a.logger.Debug("Application", "algorithm configured", map[string]interface{}{
		"algorithm":  registry.GetCurrentAlgorithm(),
		"available":  registry.GetAvailableAlgorithms(),
		"parameters": registry.GetParameters(outline.Name),
	})
	return nil
}

func (a *Application) load() error {
	if a.cfg.ImagePath != config.StdioPath {
		_, err := a.coordinator.LoadImage(a.cfg.ImagePath, a.cfg.Width, a.cfg.Height)
		return err
	}

	img, format, err := image.Decode(a.stdin)
	if err != nil {
		return fmt.Errorf("decode stdin: %w", err)
	}
	a.logger.Debug("Application", "image decoded from stdin", map[string]interface{}{
		"format": format,
	})

	_, err = a.coordinator.LoadFromImage(img, a.cfg.Width, a.cfg.Height)
	return err
}

func (a *Application) parameters() map[string]interface{} {
	return map[string]interface{}{
		outline.ParamThreshold:      a.cfg.Threshold,
		outline.ParamStaleNeighbors: a.cfg.StaleNeighbors,
		outline.ParamRemoveStrays:   !a.cfg.SkipStrayRemoval,
	}
}

func (a *Application) showPreview(summary map[string]interface{}) error {
	original, err := a.coordinator.GetOriginalImage().Image()
	if err != nil {
		return fmt.Errorf("render original: %w", err)
	}
	result, err := a.coordinator.GetProcessedImage().Image()
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}

	fyneapp.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
		Build:   1,
	})
	preview := gui.NewPreview(fyneapp.NewWithID(AppID), a.logger)
	preview.SetImages(original, result)
	preview.SetSummary(a.cfg.OutputPath, summary)
	preview.ShowAndRun()
	return nil
}

// Shutdown releases components in reverse order of construction.
func (a *Application) Shutdown() {
	for i := len(a.shutdownables) - 1; i >= 0; i-- {
		a.shutdownables[i].Shutdown()
	}
	a.shutdownables = nil
}
