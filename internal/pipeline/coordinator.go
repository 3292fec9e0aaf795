package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"
	"time"

	"grayscale-changer/internal/algorithms"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/bridge"
	"grayscale-changer/internal/opencv/memory"
	"grayscale-changer/internal/opencv/safe"
)

var (
	ErrNoImageLoaded    = errors.New("no image loaded")
	ErrNoProcessedImage = errors.New("no processed image")
)

type ImageProcessor interface {
	ProcessImage(ctx context.Context, inputData *ImageData, algorithm algorithms.Algorithm, params map[string]interface{}) (*ImageData, map[string]interface{}, error)
}

type ImageLoader interface {
	LoadFromPath(path string, width, height int) (*ImageData, error)
	LoadFromImage(img image.Image, width, height int) (*ImageData, error)
}

type ImageSaver interface {
	SaveToWriter(writer io.Writer, imageData *ImageData, format string) error
	SaveToPath(path string, imageData *ImageData) error
}

// ImageData is a decoded image held as a BGR Mat plus the pixel buffer view
// over it.
type ImageData struct {
	Mat    *safe.Mat
	Buffer *bridge.MatBuffer
	Width  int
	Height int
	// Size and channel count of the file before resizing and BGR conversion.
	SourceWidth    int
	SourceHeight   int
	SourceChannels int
	Format         string
	Path           string
}

// Image renders the data as RGBA for display or stdlib encoding.
func (d *ImageData) Image() (*image.RGBA, error) {
	return bridge.MatToImage(d.Mat)
}

type Coordinator struct {
	mu               sync.Mutex
	originalImage    *ImageData
	processedImage   *ImageData
	memoryManager    *memory.Manager
	logger           logger.Logger
	algorithmManager *algorithms.Manager
	loader           ImageLoader
	processor        ImageProcessor
	saver            ImageSaver
}

func NewCoordinator(memMgr *memory.Manager, log logger.Logger) *Coordinator {
	coord := &Coordinator{
		memoryManager:    memMgr,
		logger:           log,
		algorithmManager: algorithms.NewManager(log),
	}

	coord.loader = &imageLoader{
		memoryManager: memMgr,
		logger:        log,
	}

	coord.processor = &imageProcessor{
		memoryManager: memMgr,
		logger:        log,
	}

	coord.saver = &imageSaver{
		logger: log,
	}

	log.Debug("PipelineCoordinator", "initialized", nil)
	return coord
}

// Algorithms is the registry ProcessImage resolves names and stored
// parameters from.
func (c *Coordinator) Algorithms() *algorithms.Manager {
	return c.algorithmManager
}

// LoadImage reads path and scales it to width x height. A zero width or
// height keeps that side of the file's own size.
func (c *Coordinator) LoadImage(path string, width, height int) (*ImageData, error) {
	return c.load(func() (*ImageData, error) {
		return c.loader.LoadFromPath(path, width, height)
	})
}

// LoadFromImage is LoadImage for an already decoded image.
func (c *Coordinator) LoadFromImage(img image.Image, width, height int) (*ImageData, error) {
	return c.load(func() (*ImageData, error) {
		return c.loader.LoadFromImage(img, width, height)
	})
}

func (c *Coordinator) load(loadFn func() (*ImageData, error)) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	imageData, err := loadFn()
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "load_image",
		})
		return nil, err
	}

	c.releaseLocked()
	c.originalImage = imageData

	c.logger.Info("PipelineCoordinator", "image loaded", map[string]interface{}{
		"path":      imageData.Path,
		"width":     imageData.Width,
		"height":    imageData.Height,
		"format":    imageData.Format,
		"load_time": time.Since(start),
	})

	return imageData, nil
}

// ProcessImage runs the named algorithm on a copy of the loaded image. The
// loaded image itself is left untouched. An empty name selects the
// registry's current algorithm and empty params use its stored parameters.
func (c *Coordinator) ProcessImage(ctx context.Context, algorithmName string, params map[string]interface{}) (*ImageData, map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, nil, ErrNoImageLoaded
	}

	if algorithmName == "" {
		algorithmName = c.algorithmManager.GetCurrentAlgorithm()
	}
	if len(params) == 0 {
		params = c.algorithmManager.GetParameters(algorithmName)
	}

	algorithm, err := c.algorithmManager.GetAlgorithm(algorithmName)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"algorithm": algorithmName,
		})
		return nil, nil, fmt.Errorf("failed to get algorithm: %w", err)
	}

	start := time.Now()
	processedData, summary, err := c.processor.ProcessImage(ctx, c.originalImage, algorithm, params)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"algorithm": algorithmName,
		})
		return nil, nil, err
	}

	if c.processedImage != nil {
		c.memoryManager.ReleaseMat(c.processedImage.Mat, "processed_image")
	}
	c.processedImage = processedData

	c.logger.Info("PipelineCoordinator", "image processed", map[string]interface{}{
		"algorithm":       algorithmName,
		"processing_time": time.Since(start),
	})

	return processedData, summary, nil
}

func (c *Coordinator) SaveImage(path string) error {
	c.mu.Lock()
	processed := c.processedImage
	c.mu.Unlock()

	if processed == nil {
		return ErrNoProcessedImage
	}

	start := time.Now()
	if err := c.saver.SaveToPath(path, processed); err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "save_image",
			"path":      path,
		})
		return err
	}

	c.logger.Info("PipelineCoordinator", "image saved", map[string]interface{}{
		"path":      path,
		"save_time": time.Since(start),
	})

	return nil
}

func (c *Coordinator) SaveImageToWriter(writer io.Writer, format string) error {
	c.mu.Lock()
	processed := c.processedImage
	c.mu.Unlock()

	if processed == nil {
		return ErrNoProcessedImage
	}

	if err := c.saver.SaveToWriter(writer, processed, strings.ToLower(format)); err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "save_image_with_format",
			"format":    format,
		})
		return err
	}

	return nil
}

func (c *Coordinator) GetOriginalImage() *ImageData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.originalImage
}

func (c *Coordinator) GetProcessedImage() *ImageData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processedImage
}

func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.logger.Debug("PipelineCoordinator", "shutdown completed", nil)
}

func (c *Coordinator) releaseLocked() {
	if c.originalImage != nil {
		c.memoryManager.ReleaseMat(c.originalImage.Mat, "original_image")
		c.originalImage = nil
	}

	if c.processedImage != nil {
		c.memoryManager.ReleaseMat(c.processedImage.Mat, "processed_image")
		c.processedImage = nil
	}
}
