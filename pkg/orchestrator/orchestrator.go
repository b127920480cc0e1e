// Package orchestrator runs image recipes through the pipeline stages.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ideamans/go-l10n"

	"github.com/user/simpleimage/pkg/filters"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/textlayout"
)

// OpKind identifies the stage an operation runs on.
type OpKind int

const (
	OpOverlay OpKind = iota
	OpText
	OpFilter
	OpTransform
	OpShape
)

// String returns the operation name used in logs and summaries.
func (k OpKind) String() string {
	switch k {
	case OpOverlay:
		return "overlay"
	case OpText:
		return "text"
	case OpFilter:
		return "filter"
	case OpTransform:
		return "transform"
	case OpShape:
		return "shape"
	default:
		return "unknown"
	}
}

// Operation is one step of a recipe. Only the fields of its Kind are used.
type Operation struct {
	Kind OpKind

	// Overlay
	OverlayPath string
	Anchor      placement.Anchor
	Offset      placement.Offset
	Opacity     float64

	// Text
	Text        string
	TextOptions textlayout.Options

	Filters    filters.Chain
	Transforms []pipeline.Transform
	Shapes     []pipeline.Shape
}

// Config contains one recipe: an input, an output and the operations in
// between.
type Config struct {
	InputPath  string
	OutputPath string

	// Format of the output. FormatAuto picks it from the output extension,
	// then from the input extension.
	Format  ports.ImageFormat
	Quality int

	Operations []Operation
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:  ports.FormatAuto,
		Quality: 90,
	}
}

// Orchestrator coordinates the execution of recipe operations.
type Orchestrator struct {
	overlayStage   pipeline.Stage[pipeline.OverlayInput, pipeline.OverlayResult]
	textStage      pipeline.Stage[pipeline.TextInput, pipeline.TextResult]
	filterStage    pipeline.Stage[pipeline.FilterInput, pipeline.FilterResult]
	transformStage pipeline.Stage[pipeline.TransformInput, pipeline.TransformResult]
	shapeStage     pipeline.Stage[pipeline.ShapeInput, pipeline.ShapeResult]
	renderer       ports.Renderer
	fs             ports.FileSystem
	sink           ports.DebugSink
	logger         ports.Logger
}

// New creates a new Orchestrator.
func New(
	overlayStage pipeline.Stage[pipeline.OverlayInput, pipeline.OverlayResult],
	textStage pipeline.Stage[pipeline.TextInput, pipeline.TextResult],
	filterStage pipeline.Stage[pipeline.FilterInput, pipeline.FilterResult],
	transformStage pipeline.Stage[pipeline.TransformInput, pipeline.TransformResult],
	shapeStage pipeline.Stage[pipeline.ShapeInput, pipeline.ShapeResult],
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		overlayStage:   overlayStage,
		textStage:      textStage,
		filterStage:    filterStage,
		transformStage: transformStage,
		shapeStage:     shapeStage,
		renderer:       renderer,
		fs:             fs,
		sink:           sink,
		logger:         logger,
	}
}

// Run executes one recipe.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	o.logger.Info(l10n.F("Processing %s", config.InputPath))

	// 1. Load input
	data, err := o.fs.ReadFile(config.InputPath)
	if err != nil {
		o.logger.Error(l10n.F("Failed to read input: %s", err))
		return RunResult{}, fmt.Errorf("read input: %w", err)
	}
	decoded, err := o.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		o.logger.Error(l10n.F("Failed to decode input: %s", err))
		return RunResult{}, fmt.Errorf("decode input: %w", err)
	}
	img := imaging.Clone(decoded)

	result := RunResult{
		InputPath:   config.InputPath,
		OutputPath:  config.OutputPath,
		InputBytes:  int64(len(data)),
		InputWidth:  img.Bounds().Dx(),
		InputHeight: img.Bounds().Dy(),
	}

	// 2. Apply operations in order
	for i, op := range config.Operations {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		stepStart := time.Now()
		next, err := o.execute(ctx, img, op)
		if err != nil {
			o.logger.Error(l10n.F("Operation %d (%s) failed: %s", i+1, op.Kind, err))
			return RunResult{}, fmt.Errorf("%s stage: %w", op.Kind, err)
		}
		img = next

		result.Steps = append(result.Steps, StepResult{
			Name:       op.Kind.String(),
			DurationMs: time.Since(stepStart).Milliseconds(),
		})
		o.logger.Debug(l10n.F("Operation %d (%s) completed", i+1, op.Kind))

		if o.sink.Enabled() {
			if err := o.sink.SaveResult(i, img); err != nil {
				o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
			}
		}
	}

	// 3. Encode and write output
	format := outputFormat(config)
	encoded, err := o.renderer.EncodeImage(img, format, config.Quality)
	if err != nil {
		o.logger.Error(l10n.F("Failed to encode output: %s", err))
		return RunResult{}, fmt.Errorf("encode output: %w", err)
	}
	if err := o.fs.WriteFile(config.OutputPath, encoded); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}

	result.Format = format
	result.OutputBytes = int64(len(encoded))
	result.OutputWidth = img.Bounds().Dx()
	result.OutputHeight = img.Bounds().Dy()
	result.DurationMs = time.Since(start).Milliseconds()

	o.logger.Info(l10n.F("Output saved to %s", config.OutputPath))
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, img *image.NRGBA, op Operation) (*image.NRGBA, error) {
	switch op.Kind {
	case OpOverlay:
		src, err := o.loadOverlay(op.OverlayPath)
		if err != nil {
			return nil, err
		}
		r, err := o.overlayStage.Execute(ctx, pipeline.OverlayInput{
			Base:    img,
			Overlay: src,
			Anchor:  op.Anchor,
			Offset:  op.Offset,
			Opacity: op.Opacity,
		})
		return r.Image, err

	case OpText:
		r, err := o.textStage.Execute(ctx, pipeline.TextInput{Base: img, Text: op.Text, Options: op.TextOptions})
		return r.Image, err

	case OpFilter:
		r, err := o.filterStage.Execute(ctx, pipeline.FilterInput{Image: img, Filters: op.Filters})
		return r.Image, err

	case OpTransform:
		r, err := o.transformStage.Execute(ctx, pipeline.TransformInput{Image: img, Transforms: op.Transforms})
		return r.Image, err

	case OpShape:
		r, err := o.shapeStage.Execute(ctx, pipeline.ShapeInput{Image: img, Shapes: op.Shapes})
		return r.Image, err
	}
	return nil, fmt.Errorf("unknown operation kind %d", int(op.Kind))
}

func (o *Orchestrator) loadOverlay(path string) (image.Image, error) {
	data, err := o.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}
	img, err := o.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode overlay %s: %w", path, err)
	}
	return img, nil
}

func outputFormat(config Config) ports.ImageFormat {
	if config.Format != ports.FormatAuto {
		return config.Format
	}
	if f := ports.FormatFromPath(config.OutputPath); f != ports.FormatAuto {
		return f
	}
	if f := ports.FormatFromPath(config.InputPath); f != ports.FormatAuto {
		return f
	}
	return ports.FormatPNG
}

// StepResult records one executed operation.
type StepResult struct {
	Name       string
	DurationMs int64
}

// RunResult contains the results of a recipe run for summary generation.
type RunResult struct {
	InputPath  string
	OutputPath string
	Format     ports.ImageFormat

	// Dimensions
	InputWidth   int
	InputHeight  int
	OutputWidth  int
	OutputHeight int

	// Sizes in bytes
	InputBytes  int64
	OutputBytes int64

	Steps      []StepResult
	DurationMs int64
}
