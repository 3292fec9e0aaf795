package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type recordingTracker struct {
	allocated map[uint64]int64
	released  []uint64
}

func (r *recordingTracker) TrackAllocation(id uint64, size int64, tag string) {
	if r.allocated == nil {
		r.allocated = make(map[uint64]int64)
	}
	r.allocated[id] = size
}

func (r *recordingTracker) TrackDeallocation(id uint64, tag string) {
	r.released = append(r.released, id)
}

func TestNewMatRejectsBadDimensions(t *testing.T) {
	_, err := NewMat(0, 4, gocv.MatTypeCV8UC3)
	assert.Error(t, err)

	_, err = NewMat(4, MaxDimension+1, gocv.MatTypeCV8UC3)
	assert.Error(t, err)
}

func TestMatPixelAccess(t *testing.T) {
	m, err := NewMat(2, 3, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3, m.Channels())

	require.NoError(t, m.SetUCharAt3(1, 2, 1, 77))
	v, err := m.GetUCharAt3(1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(77), v)

	_, err = m.GetUCharAt3(2, 0, 0)
	assert.Error(t, err)
	assert.Error(t, m.SetUCharAt3(0, 0, 3, 1))
}

func TestMatTrackerAndClose(t *testing.T) {
	tracker := &recordingTracker{}
	m, err := NewMatWithTracker(4, 5, gocv.MatTypeCV8UC3, tracker, "buffer")
	require.NoError(t, err)

	assert.Equal(t, int64(4*5*3), tracker.allocated[m.ID()])
	assert.Equal(t, "buffer", m.Tag())

	clone, err := m.Clone("copy")
	require.NoError(t, err)
	assert.Len(t, tracker.allocated, 2)

	m.Close()
	m.Close()
	assert.Equal(t, []uint64{m.ID()}, tracker.released)
	assert.False(t, m.IsValid())
	assert.True(t, m.Empty())
	assert.Zero(t, m.Rows())
	assert.Error(t, ValidateMatForOperation(m, "test"))

	assert.True(t, clone.IsValid())
	clone.Close()
	assert.Len(t, tracker.released, 2)
}

func TestAdoptRejectsEmpty(t *testing.T) {
	_, err := Adopt(gocv.NewMat(), nil, "empty")
	assert.Error(t, err)
}

func TestValidateMatForOperationNil(t *testing.T) {
	assert.Error(t, ValidateMatForOperation(nil, "test"))
}
