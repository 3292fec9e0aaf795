package algorithms

import (
	"context"
	"testing"

	"grayscale-changer/internal/algorithms/outline"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invertAlgorithm struct{}

func (invertAlgorithm) GetName() string                                 { return "Invert" }
func (invertAlgorithm) GetDefaultParameters() map[string]interface{}    { return map[string]interface{}{} }
func (invertAlgorithm) ValidateParameters(map[string]interface{}) error { return nil }
func (invertAlgorithm) Process(_ context.Context, buf raster.Buffer, _ map[string]interface{}) (map[string]interface{}, error) {
	for x := 0; x < buf.Width(); x++ {
		for y := 0; y < buf.Height(); y++ {
			c := buf.At(x, y)
			buf.Set(x, y, raster.Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B})
		}
	}
	return nil, nil
}

func TestManagerRegistersOutline(t *testing.T) {
	m := NewManager(logger.Nop{})

	assert.Equal(t, outline.Name, m.GetCurrentAlgorithm())
	assert.Equal(t, []string{outline.Name}, m.GetAvailableAlgorithms())

	alg, err := m.GetAlgorithm(outline.Name)
	require.NoError(t, err)
	assert.Equal(t, outline.Name, alg.GetName())
	assert.Equal(t, 20, m.GetParameters(outline.Name)[outline.ParamThreshold])
}

func TestManagerUnknownAlgorithm(t *testing.T) {
	m := NewManager(logger.Nop{})

	_, err := m.GetAlgorithm("Sobel")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.ErrorIs(t, m.SetCurrentAlgorithm("Sobel"), ErrUnknownAlgorithm)
	assert.ErrorIs(t, m.SetParameter("Sobel", "k", 3), ErrUnknownAlgorithm)
	assert.Empty(t, m.GetParameters("Sobel"))
}

func TestManagerSetParameter(t *testing.T) {
	m := NewManager(logger.Nop{})

	require.NoError(t, m.SetParameter(outline.Name, outline.ParamThreshold, 35))
	assert.Equal(t, 35, m.GetParameters(outline.Name)[outline.ParamThreshold])

	assert.Error(t, m.SetParameter(outline.Name, outline.ParamThreshold, "35"))
	assert.Equal(t, 35, m.GetParameters(outline.Name)[outline.ParamThreshold])

	params := m.GetParameters(outline.Name)
	params[outline.ParamThreshold] = 1
	assert.Equal(t, 35, m.GetParameters(outline.Name)[outline.ParamThreshold])
}

func TestManagerRegister(t *testing.T) {
	m := NewManager(logger.Nop{})
	m.Register(invertAlgorithm{})

	assert.Equal(t, []string{outline.Name, "Invert"}, m.GetAvailableAlgorithms())
	require.NoError(t, m.SetCurrentAlgorithm("Invert"))

	alg, err := m.GetAlgorithm(m.GetCurrentAlgorithm())
	require.NoError(t, err)

	g := raster.NewGrid(1, 1)
	_, err = alg.Process(context.Background(), g, nil)
	require.NoError(t, err)
	assert.Equal(t, raster.White, g.At(0, 0))
}
