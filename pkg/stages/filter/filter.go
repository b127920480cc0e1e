// Package filter implements the filter chain stage.
package filter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/ports"
)

// ErrMissingImage is returned when the input raster is nil.
var ErrMissingImage = errors.New("filter: missing image")

// Stage applies a filter chain one filter at a time.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new filter stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("filter"),
	}
}

// Execute applies the filters in order. Cancellation is checked between
// filters.
func (s *Stage) Execute(ctx context.Context, input pipeline.FilterInput) (pipeline.FilterResult, error) {
	if input.Image == nil {
		return pipeline.FilterResult{}, ErrMissingImage
	}

	out := imaging.Clone(input.Image)
	applied := make([]string, 0, len(input.Filters))

	for i, f := range input.Filters {
		if err := ctx.Err(); err != nil {
			return pipeline.FilterResult{}, err
		}

		start := time.Now()
		next, err := f.Apply(out)
		if err != nil {
			return pipeline.FilterResult{}, fmt.Errorf("filter %d (%s): %w", i, f.Name(), err)
		}
		out = next
		applied = append(applied, f.Name())

		s.logger.Debug("Applied filter %s in %s", f.Name(), time.Since(start).Round(time.Millisecond))
	}

	return pipeline.FilterResult{Image: out, Applied: applied}, nil
}
