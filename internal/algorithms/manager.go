package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"grayscale-changer/internal/algorithms/outline"
	"grayscale-changer/internal/logger"
	"grayscale-changer/internal/raster"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm transforms a pixel buffer in place and returns a summary of the run
type Algorithm interface {
	Process(ctx context.Context, buf raster.Buffer, params map[string]interface{}) (map[string]interface{}, error)
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}

type Manager struct {
	algorithms       map[string]Algorithm
	currentAlgorithm string
	parameters       map[string]map[string]interface{}
	mu               sync.RWMutex
}

func NewManager(log logger.Logger) *Manager {
	manager := &Manager{
		algorithms:       make(map[string]Algorithm),
		currentAlgorithm: outline.Name,
		parameters:       make(map[string]map[string]interface{}),
	}

	manager.Register(outline.NewProcessor(log))

	return manager
}

// Register adds alg under its own name, replacing any previous entry, and
// seeds its parameters with the defaults.
func (m *Manager) Register(alg Algorithm) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.algorithms[alg.GetName()] = alg
	m.parameters[alg.GetName()] = alg.GetDefaultParameters()
}

func (m *Manager) SetCurrentAlgorithm(algorithm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.algorithms[algorithm]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}

	m.currentAlgorithm = algorithm
	return nil
}

func (m *Manager) GetCurrentAlgorithm() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAlgorithm
}

// GetParameters returns a copy of the stored parameters for algorithm.
func (m *Manager) GetParameters(algorithm string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]interface{})
	for k, v := range m.parameters[algorithm] {
		result[k] = v
	}
	return result
}

func (m *Manager) SetParameter(algorithm, name string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	params, exists := m.parameters[algorithm]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}

	candidate := map[string]interface{}{name: value}
	if err := m.algorithms[algorithm].ValidateParameters(candidate); err != nil {
		return err
	}

	params[name] = value
	return nil
}

func (m *Manager) GetAlgorithm(name string) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if algorithm, exists := m.algorithms[name]; exists {
		return algorithm, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
}

func (m *Manager) GetAvailableAlgorithms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	algorithms := make([]string, 0, len(m.algorithms))
	for name := range m.algorithms {
		algorithms = append(algorithms, name)
	}
	sort.Strings(algorithms)

	return algorithms
}
