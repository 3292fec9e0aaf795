// Package outline turns an image into black outlines on white: pixels that
// sit next to a sufficiently lighter neighbor become black, everything else
// white, and isolated black pixels are then dropped as noise.
package outline

import (
	"context"
	"fmt"

	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/raster"
)

const Name = "Grayscale Outline"

const (
	ParamThreshold      = "threshold"
	ParamStaleNeighbors = "stale_neighbors"
	ParamRemoveStrays   = "remove_strays"
)

type Options struct {
	Threshold    int
	Mode         NeighborMode
	RemoveStrays bool
}

// Result summarises one run.
type Result struct {
	EdgePixels    int // black after the edge pass
	StrayPixels   int // removed by the stray pass
	BlackPixels   int // black in the final buffer
	Width, Height int
}

func (r Result) Fields() map[string]interface{} {
	return map[string]interface{}{
		"edge_pixels":  r.EdgePixels,
		"stray_pixels": r.StrayPixels,
		"black_pixels": r.BlackPixels,
		"width":        r.Width,
		"height":       r.Height,
	}
}

type Processor struct {
	name   string
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	if log == nil {
		log = logger.Nop{}
	}
	return &Processor{
		name:   Name,
		logger: log,
	}
}

func (p *Processor) GetName() string {
	return p.name
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return map[string]interface{}{
		ParamThreshold:      20,
		ParamStaleNeighbors: false,
		ParamRemoveStrays:   true,
	}
}

// ValidateParameters only checks types. Any integer threshold is accepted,
// including zero and negatives.
func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	if v, ok := params[ParamThreshold]; ok {
		if _, isInt := v.(int); !isInt {
			return fmt.Errorf("%s must be an int, got %T", ParamThreshold, v)
		}
	}

	for _, key := range []string{ParamStaleNeighbors, ParamRemoveStrays} {
		if v, ok := params[key]; ok {
			if _, isBool := v.(bool); !isBool {
				return fmt.Errorf("%s must be a bool, got %T", key, v)
			}
		}
	}

	return nil
}

// Process runs the filter in place on buf. Missing params take their
// defaults. The returned map is the run summary.
func (p *Processor) Process(ctx context.Context, buf raster.Buffer, params map[string]interface{}) (map[string]interface{}, error) {
	merged := p.GetDefaultParameters()
	for k, v := range params {
		merged[k] = v
	}

	if err := p.ValidateParameters(merged); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	opts := Options{
		Threshold:    p.getIntParam(merged, ParamThreshold),
		Mode:         FreshNeighbors,
		RemoveStrays: p.getBoolParam(merged, ParamRemoveStrays),
	}
	if p.getBoolParam(merged, ParamStaleNeighbors) {
		opts.Mode = StaleNeighbors
	}

	result, err := p.Run(ctx, buf, opts)
	if err != nil {
		return nil, err
	}
	return result.Fields(), nil
}

// Run executes the edge pass, commits it, and optionally removes stray
// pixels. ctx is only consulted between passes.
func (p *Processor) Run(ctx context.Context, buf raster.Buffer, opts Options) (Result, error) {
	if buf == nil {
		return Result{}, fmt.Errorf("buffer is nil")
	}

	result := Result{Width: buf.Width(), Height: buf.Height()}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	mask := BuildEdgeMask(buf, opts.Threshold, opts.Mode)
	CommitMask(buf, mask)
	result.EdgePixels = mask.Count()
	result.BlackPixels = result.EdgePixels

	p.logger.Debug("Outline", "edge pass completed", map[string]interface{}{
		"threshold":     opts.Threshold,
		"neighbor_mode": opts.Mode.String(),
		"edge_pixels":   result.EdgePixels,
	})

	if !opts.RemoveStrays {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.StrayPixels = RemoveStrayPixels(buf, opts.Mode)
	result.BlackPixels = result.EdgePixels - result.StrayPixels

	p.logger.Debug("Outline", "stray pass completed", map[string]interface{}{
		"stray_pixels": result.StrayPixels,
		"black_pixels": result.BlackPixels,
	})

	return result, nil
}

func (p *Processor) getBoolParam(params map[string]interface{}, key string) bool {
	if value, ok := params[key].(bool); ok {
		return value
	}
	return false
}

func (p *Processor) getIntParam(params map[string]interface{}, key string) int {
	if value, ok := params[key].(int); ok {
		return value
	}
	return 0
}
