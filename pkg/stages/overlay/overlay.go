// Package overlay implements the image overlay stage.
package overlay

import (
	"context"
	"errors"
	"image"

	"github.com/user/simpleimage/pkg/compositor"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
)

// ErrMissingImage is returned when the base or overlay raster is nil.
var ErrMissingImage = errors.New("overlay: missing image")

// Stage merges an overlay raster onto a base raster at an anchored position.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new overlay stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("overlay"),
	}
}

// Execute places the overlay and merges it with alpha-preserving opacity.
// Parts of the overlay outside the base are dropped.
func (s *Stage) Execute(ctx context.Context, input pipeline.OverlayInput) (pipeline.OverlayResult, error) {
	if input.Base == nil || input.Overlay == nil {
		return pipeline.OverlayResult{}, ErrMissingImage
	}
	if err := ctx.Err(); err != nil {
		return pipeline.OverlayResult{}, err
	}

	size := placement.SizeOf(input.Overlay)
	pt := placement.Resolve(input.Anchor, placement.SizeOf(input.Base), size, input.Offset).Floor()
	opacity := compositor.NormalizeOpacity(input.Opacity)

	s.logger.Debug("Overlay %dx%d at (%d, %d) with opacity %d%%", size.Width, size.Height, pt.X, pt.Y, opacity)

	region := compositor.Clip(input.Base.Bounds(), input.Overlay.Bounds(), pt, image.Point{}, size)
	switch {
	case region.Empty():
		s.logger.Warn("Overlay lies outside the image")
	case region.Dst.Dx() != size.Width || region.Dst.Dy() != size.Height:
		s.logger.Debug("Overlay clipped to %dx%d", region.Dst.Dx(), region.Dst.Dy())
	}

	out := compositor.Merge(input.Base, input.Overlay, pt, image.Point{}, size, opacity)

	return pipeline.OverlayResult{
		Image:    out,
		Position: pt,
		Region:   region.Dst.Sub(input.Base.Bounds().Min),
	}, nil
}
