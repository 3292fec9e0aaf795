package memory

import (
	"testing"

	"grayscale-changer/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestManagerTracksLifecycle(t *testing.T) {
	m := NewManager(logger.Nop{})

	mat, err := m.GetMat(10, 20, gocv.MatTypeCV8UC3, "working")
	require.NoError(t, err)
	assert.Equal(t, int64(10*20*3), m.GetUsedMemory())
	assert.Equal(t, 1, m.GetActiveMatCount())

	m.ReleaseMat(mat, "working")
	alloc, dealloc, used := m.GetStats()
	assert.Equal(t, int64(1), alloc)
	assert.Equal(t, int64(1), dealloc)
	assert.Zero(t, used)
	assert.Zero(t, m.GetActiveMatCount())

	m.ReleaseMat(nil, "nothing")
}

func TestManagerEnforcesLimit(t *testing.T) {
	m := NewManagerWithLimit(logger.Nop{}, 100)

	_, err := m.GetMat(10, 10, gocv.MatTypeCV8UC3, "too_big")
	assert.Error(t, err)
	assert.Zero(t, m.GetActiveMatCount())

	mat, err := m.GetMat(5, 5, gocv.MatTypeCV8UC3, "fits")
	require.NoError(t, err)
	defer mat.Close()
	assert.Equal(t, int64(75), m.GetUsedMemory())
}

func TestManagerAdopt(t *testing.T) {
	m := NewManager(logger.Nop{})

	raw := gocv.NewMatWithSize(3, 4, gocv.MatTypeCV8UC3)
	mat, err := m.Adopt(raw, "loaded")
	require.NoError(t, err)
	assert.Equal(t, "loaded", mat.Tag())
	assert.Equal(t, int64(36), m.GetUsedMemory())

	clone, err := mat.Clone("loaded_clone")
	require.NoError(t, err)
	assert.Equal(t, 2, m.GetActiveMatCount())

	mat.Close()
	clone.Close()
	assert.Zero(t, m.GetUsedMemory())
}

func TestManagerCleanupForgetsLeaks(t *testing.T) {
	m := NewManager(logger.Nop{})

	mat, err := m.GetMat(2, 2, gocv.MatTypeCV8UC3, "leaked")
	require.NoError(t, err)
	defer mat.Close()

	m.Cleanup()
	assert.Zero(t, m.GetActiveMatCount())
	assert.Zero(t, m.GetUsedMemory())
}
