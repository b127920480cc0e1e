// Package transform implements the geometric transform stage.
package transform

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/ports"
)

var (
	// ErrMissingImage is returned when the input raster is nil.
	ErrMissingImage = errors.New("transform: missing image")
	// ErrInvalidSize is returned for non-positive target dimensions.
	ErrInvalidSize = errors.New("transform: invalid size")
)

// Stage resizes, crops, rotates and mirrors rasters.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new transform stage. Plain resizes go through the
// renderer so they use the same scaler as the rest of the pipeline.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("transform"),
	}
}

// Execute applies the transforms in order.
func (s *Stage) Execute(ctx context.Context, input pipeline.TransformInput) (pipeline.TransformResult, error) {
	if input.Image == nil {
		return pipeline.TransformResult{}, ErrMissingImage
	}

	out := imaging.Clone(input.Image)
	for i, t := range input.Transforms {
		if err := ctx.Err(); err != nil {
			return pipeline.TransformResult{}, err
		}

		before := out.Bounds().Size()
		next, err := s.apply(out, t)
		if err != nil {
			return pipeline.TransformResult{}, fmt.Errorf("transform %d (%s): %w", i, t.Kind, err)
		}
		out = next

		after := out.Bounds().Size()
		s.logger.Debug("Applied %s: %dx%d -> %dx%d", t.Kind, before.X, before.Y, after.X, after.Y)
	}

	return pipeline.TransformResult{Image: out}, nil
}

func (s *Stage) apply(img *image.NRGBA, t pipeline.Transform) (*image.NRGBA, error) {
	switch t.Kind {
	case pipeline.TransformResize:
		w, h, err := AspectSize(img.Bounds().Dx(), img.Bounds().Dy(), t.Width, t.Height)
		if err != nil {
			return nil, err
		}
		return imaging.Clone(s.renderer.ResizeImage(img, w, h)), nil

	case pipeline.TransformFit:
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, t.Width, t.Height)
		}
		return imaging.Fit(img, t.Width, t.Height, imaging.Lanczos), nil

	case pipeline.TransformFill:
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, t.Width, t.Height)
		}
		return imaging.Fill(img, t.Width, t.Height, t.Anchor.ToImaging(), imaging.Lanczos), nil

	case pipeline.TransformCrop:
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, t.Width, t.Height)
		}
		var out *image.NRGBA
		if t.Anchored {
			out = imaging.CropAnchor(img, t.Width, t.Height, t.Anchor.ToImaging())
		} else {
			out = imaging.Crop(img, image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height))
		}
		if out.Bounds().Empty() {
			return nil, fmt.Errorf("%w: crop outside image", ErrInvalidSize)
		}
		return out, nil

	case pipeline.TransformRotate:
		return imaging.Rotate(img, t.Angle, t.Background), nil

	case pipeline.TransformFlip:
		switch t.Direction {
		case pipeline.FlipVertical:
			return imaging.FlipV(img), nil
		case pipeline.FlipBoth:
			return imaging.Rotate180(img), nil
		default:
			return imaging.FlipH(img), nil
		}
	}
	return nil, fmt.Errorf("unknown transform kind %d", int(t.Kind))
}

// AspectSize completes a target size. A zero dimension is derived from the
// other one so the aspect ratio of srcW x srcH is kept.
func AspectSize(srcW, srcH, w, h int) (int, int, error) {
	if w < 0 || h < 0 || (w == 0 && h == 0) || srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if w == 0 {
		w = int(math.Round(float64(srcW) * float64(h) / float64(srcH)))
	}
	if h == 0 {
		h = int(math.Round(float64(srcH) * float64(w) / float64(srcW)))
	}
	return max(w, 1), max(h, 1), nil
}
