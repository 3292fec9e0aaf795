package pipeline

import (
	"context"
	"fmt"

	"grayscale-changer/internal/algorithms"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/bridge"
	"grayscale-changer/internal/opencv/memory"
	"grayscale-changer/internal/opencv/safe"
)

type imageProcessor struct {
	memoryManager *memory.Manager
	logger        logger.Logger
}

func (p *imageProcessor) ProcessImage(ctx context.Context, inputData *ImageData, algorithm algorithms.Algorithm, params map[string]interface{}) (*ImageData, map[string]interface{}, error) {
	if err := safe.ValidateMatForOperation(inputData.Mat, "ProcessImage"); err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	working, err := inputData.Mat.Clone("processed_image")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy input image: %w", err)
	}

	buf, err := bridge.NewMatBuffer(working)
	if err != nil {
		p.memoryManager.ReleaseMat(working, "processed_image")
		return nil, nil, err
	}

	summary, err := algorithm.Process(ctx, buf, params)
	if err != nil {
		p.memoryManager.ReleaseMat(working, "processed_image")
		return nil, nil, fmt.Errorf("algorithm processing failed: %w", err)
	}

	processedData := &ImageData{
		Mat:            working,
		Buffer:         buf,
		Width:          buf.Width(),
		Height:         buf.Height(),
		SourceWidth:    inputData.SourceWidth,
		SourceHeight:   inputData.SourceHeight,
		SourceChannels: inputData.SourceChannels,
		Format:         inputData.Format,
		Path:           inputData.Path,
	}

	fields := map[string]interface{}{
		"algorithm": algorithm.GetName(),
		"size":      fmt.Sprintf("%dx%d", processedData.Width, processedData.Height),
	}
	for k, v := range summary {
		fields[k] = v
	}
	p.logger.Info("ImageProcessor", "processing completed", fields)

	return processedData, summary, nil
}
