package mocks

import (
	"image"
	"sync"

	"github.com/user/simpleimage/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Scratch map[string]image.Image
	Results map[int]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Scratch: make(map[string]image.Image),
		Results: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveScratch(name string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scratch[name] = img
	return nil
}

func (m *DebugSink) SaveResult(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[index] = img
	return nil
}

// ScratchCount returns the number of saved scratch rasters.
func (m *DebugSink) ScratchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Scratch)
}

var _ ports.DebugSink = (*DebugSink)(nil)
