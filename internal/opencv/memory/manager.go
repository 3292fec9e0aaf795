package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// DefaultMaxMemory caps the bytes of pixel data held in tracked Mats.
const DefaultMaxMemory = 2 * 1024 * 1024 * 1024

// Manager accounts for every Mat created through it and reports the ones
// still alive at Cleanup.
type Manager struct {
	mu           sync.Mutex
	logger       logger.Logger
	maxMemory    int64
	usedMemory   int64
	allocCount   int64
	deallocCount int64
	activeMats   map[uint64]*MatInfo
}

type MatInfo struct {
	ID        uint64
	Tag       string
	Size      int64
	Timestamp time.Time
}

func NewManager(log logger.Logger) *Manager {
	return NewManagerWithLimit(log, DefaultMaxMemory)
}

func NewManagerWithLimit(log logger.Logger, maxMemory int64) *Manager {
	if log == nil {
		log = logger.Nop{}
	}
	return &Manager{
		logger:     log,
		maxMemory:  maxMemory,
		activeMats: make(map[uint64]*MatInfo),
	}
}

// GetMat allocates a tracked Mat, refusing when it would exceed the limit.
func (m *Manager) GetMat(rows, cols int, matType gocv.MatType, tag string) (*safe.Mat, error) {
	size := int64(rows * cols * getMatTypeSize(matType))
	if err := m.reserve(size); err != nil {
		return nil, err
	}
	return safe.NewMatWithTracker(rows, cols, matType, m, tag)
}

// Adopt tracks a Mat produced by gocv, such as the result of IMRead.
// Ownership of mat passes to the returned value.
func (m *Manager) Adopt(mat gocv.Mat, tag string) (*safe.Mat, error) {
	size := int64(mat.Rows() * mat.Cols() * mat.Channels())
	if err := m.reserve(size); err != nil {
		mat.Close()
		return nil, err
	}
	return safe.Adopt(mat, m, tag)
}

func (m *Manager) reserve(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usedMemory+size > m.maxMemory {
		return fmt.Errorf("memory limit exceeded: would use %d bytes, limit is %d",
			m.usedMemory+size, m.maxMemory)
	}
	return nil
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usedMemory += size
	m.allocCount++
	m.activeMats[id] = &MatInfo{
		ID:        id,
		Tag:       tag,
		Size:      size,
		Timestamp: time.Now(),
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deallocCount++
	if info, exists := m.activeMats[id]; exists {
		m.usedMemory -= info.Size
		delete(m.activeMats, id)
	}
}

func (m *Manager) ReleaseMat(mat *safe.Mat, tag string) {
	if mat == nil {
		return
	}

	m.logger.Debug("MemoryManager", "releasing Mat", map[string]interface{}{
		"tag":  tag,
		"rows": mat.Rows(),
		"cols": mat.Cols(),
	})
	mat.Close()
}

func (m *Manager) GetUsedMemory() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedMemory
}

func (m *Manager) GetStats() (allocCount, deallocCount int64, usedMemory int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocCount, m.deallocCount, m.usedMemory
}

func (m *Manager) GetActiveMatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.activeMats)
}

// Cleanup warns about every Mat still alive, oldest first, and forgets them.
// It does not close them: their owners may still hold references.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	leaked := make([]*MatInfo, 0, len(m.activeMats))
	for _, info := range m.activeMats {
		leaked = append(leaked, info)
	}
	sort.Slice(leaked, func(i, j int) bool {
		return leaked[i].Timestamp.Before(leaked[j].Timestamp)
	})

	for _, info := range leaked {
		m.logger.Warning("MemoryManager", "unreleased Mat at cleanup", map[string]interface{}{
			"tag":  info.Tag,
			"size": info.Size,
			"age":  time.Since(info.Timestamp).String(),
		})
		delete(m.activeMats, info.ID)
	}

	m.logger.Info("MemoryManager", "cleanup completed", map[string]interface{}{
		"mats_cleaned":  len(leaked),
		"allocations":   m.allocCount,
		"deallocations": m.deallocCount,
	})

	m.usedMemory = 0
}

func getMatTypeSize(matType gocv.MatType) int {
	switch matType {
	case gocv.MatTypeCV8UC1:
		return 1
	case gocv.MatTypeCV8UC3:
		return 3
	case gocv.MatTypeCV8UC4:
		return 4
	case gocv.MatTypeCV16UC1:
		return 2
	case gocv.MatTypeCV16UC3:
		return 6
	case gocv.MatTypeCV16UC4:
		return 8
	case gocv.MatTypeCV32FC1:
		return 4
	case gocv.MatTypeCV32FC3:
		return 12
	case gocv.MatTypeCV32FC4:
		return 16
	default:
		return 1
	}
}
