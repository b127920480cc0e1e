// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/simpleimage/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveScratch does nothing.
func (s *Sink) SaveScratch(name string, img image.Image) error {
	return nil
}

// SaveResult does nothing.
func (s *Sink) SaveResult(index int, img image.Image) error {
	return nil
}

var _ ports.DebugSink = (*Sink)(nil)
