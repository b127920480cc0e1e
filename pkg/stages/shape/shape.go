// Package shape implements the drawing primitive stage.
package shape

import (
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/ports"
)

// ErrMissingImage is returned when the input raster is nil.
var ErrMissingImage = errors.New("shape: missing image")

// Stage draws rectangles, lines, ellipses and borders onto a raster.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new shape stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("shape"),
	}
}

// Execute copies the input onto a canvas and draws every shape in order.
func (s *Stage) Execute(ctx context.Context, input pipeline.ShapeInput) (pipeline.ShapeResult, error) {
	if input.Image == nil {
		return pipeline.ShapeResult{}, ErrMissingImage
	}
	if err := ctx.Err(); err != nil {
		return pipeline.ShapeResult{}, err
	}

	b := input.Image.Bounds()
	w, h := b.Dx(), b.Dy()

	canvas := s.renderer.CreateCanvas(w, h, colorspec.Transparent)
	canvas.DrawImage(input.Image, 0, 0)

	for i, shape := range input.Shapes {
		if err := draw(canvas, shape, w, h); err != nil {
			return pipeline.ShapeResult{}, fmt.Errorf("shape %d: %w", i, err)
		}
		s.logger.Debug("Drew %s in %s", shape.Kind, shape.Color.Hex())
	}

	return pipeline.ShapeResult{Image: imaging.Clone(canvas.ToImage())}, nil
}

func draw(canvas ports.Canvas, s pipeline.Shape, w, h int) error {
	switch s.Kind {
	case pipeline.ShapeRectangle:
		if s.Thickness > 0 {
			canvas.DrawRectStroke(s.X, s.Y, s.Width, s.Height, s.Color, s.Thickness)
		} else {
			canvas.DrawRect(s.X, s.Y, s.Width, s.Height, s.Color)
		}

	case pipeline.ShapeRoundedRectangle:
		canvas.DrawRoundedRect(s.X, s.Y, s.Width, s.Height, s.Radius, s.Color)

	case pipeline.ShapeLine:
		canvas.DrawLine(s.X, s.Y, s.X2, s.Y2, s.Color, max(s.Thickness, 1))

	case pipeline.ShapeEllipse:
		canvas.DrawEllipse(s.X, s.Y, s.Width/2, s.Height/2, s.Color, s.Thickness)

	case pipeline.ShapeBorder:
		// Drawn as four strips so the border stays inside the image
		t := max(int(s.Thickness), 1)
		canvas.DrawRect(0, 0, w, t, s.Color)
		canvas.DrawRect(0, h-t, w, t, s.Color)
		canvas.DrawRect(0, t, t, h-2*t, s.Color)
		canvas.DrawRect(w-t, t, t, h-2*t, s.Color)

	case pipeline.ShapeFill:
		canvas.DrawRect(0, 0, w, h, s.Color)

	default:
		return fmt.Errorf("unknown shape kind %d", int(s.Kind))
	}
	return nil
}
