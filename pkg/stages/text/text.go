// Package text implements the text block stage.
package text

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/textlayout"
)

// ErrMissingImage is returned when the base raster is nil.
var ErrMissingImage = errors.New("text: missing image")

// Stage renders wrapped text blocks onto images.
type Stage struct {
	engine ports.GlyphEngine
	sink   ports.DebugSink
	logger ports.Logger
	blocks atomic.Int64
}

// NewStage creates a new text stage.
func NewStage(engine ports.GlyphEngine, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		engine: engine,
		sink:   sink,
		logger: logger.WithComponent("text"),
	}
}

// Execute renders the text block and merges it onto a copy of the base.
// A zero width wraps to the base width. On error the base is untouched.
func (s *Stage) Execute(ctx context.Context, input pipeline.TextInput) (pipeline.TextResult, error) {
	if input.Base == nil {
		return pipeline.TextResult{}, ErrMissingImage
	}
	if err := ctx.Err(); err != nil {
		return pipeline.TextResult{}, err
	}

	opts := input.Options
	if opts.Width == 0 {
		opts.Width = input.Base.Bounds().Dx()
	}

	s.logger.Debug("Rendering text block: %d chars, width %d, %s aligned", len([]rune(input.Text)), opts.Width, opts.Align)

	block, err := textlayout.Render(s.engine, input.Text, opts)
	if err != nil {
		return pipeline.TextResult{}, fmt.Errorf("render text: %w", err)
	}

	n := s.blocks.Add(1)
	if s.sink.Enabled() {
		if err := s.sink.SaveScratch(fmt.Sprintf("text-%03d", n), block); err != nil {
			s.logger.Warn("Failed to save debug output: %s", err)
		}
	}

	out := imaging.Clone(input.Base)
	pt := textlayout.Place(out, block, opts)
	rect := image.Rectangle{Min: pt, Max: pt.Add(block.Bounds().Size())}

	s.logger.Debug("Text block %dx%d placed at (%d, %d)", rect.Dx(), rect.Dy(), pt.X, pt.Y)

	return pipeline.TextResult{Image: out, Block: rect}, nil
}
