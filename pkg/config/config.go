// Package config loads YAML recipes and converts them into orchestrator
// configurations.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/filters"
	"github.com/user/simpleimage/pkg/orchestrator"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/textlayout"
)

// ErrUnknownOperation is returned for an operation type no stage handles.
var ErrUnknownOperation = errors.New("unknown operation")

// Config represents a recipe file.
type Config struct {
	// Input/Output
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`

	// Operations are applied in order
	Operations []Operation `yaml:"operations"`

	// Batch
	Batch   BatchConfig `yaml:"batch"`
	Workers int         `yaml:"workers"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
	LogLevel string `yaml:"log_level"`
}

// BatchConfig selects many inputs for the same operations.
type BatchConfig struct {
	Inputs    []string `yaml:"inputs"`
	OutputDir string   `yaml:"output_dir"`
	Suffix    string   `yaml:"suffix"`
}

// Operation is one recipe step. Type selects which fields apply.
type Operation struct {
	Type string `yaml:"type"`

	// Geometry
	X         int     `yaml:"x"`
	Y         int     `yaml:"y"`
	X2        int     `yaml:"x2"`
	Y2        int     `yaml:"y2"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Radius    int     `yaml:"radius"`
	Thickness float64 `yaml:"thickness"`
	Angle     float64 `yaml:"angle"`
	Anchor    string  `yaml:"anchor"`
	Direction string  `yaml:"direction"`

	// Colors
	Color      string   `yaml:"color"`
	Colors     []string `yaml:"colors"`
	Background string   `yaml:"background"`

	// Overlay
	Image   string   `yaml:"image"`
	Opacity *float64 `yaml:"opacity"`

	// Text
	Text    string       `yaml:"text"`
	Font    string       `yaml:"font"`
	Size    float64      `yaml:"size"`
	Align   string       `yaml:"align"`
	Leading float64      `yaml:"leading"`
	Stroke  StrokeConfig `yaml:"stroke"`

	// Filter
	Filters []string `yaml:"filters"`
}

// StrokeConfig is a text outline.
type StrokeConfig struct {
	Size    int      `yaml:"size"`
	Colors  []string `yaml:"colors"`
	Spacing float64  `yaml:"spacing"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Quality: 90,

		Workers: 4,

		DebugDir: "./debug",
		LogLevel: "info",
	}
}

// LoadFromFile loads a recipe from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	return Parse(data)
}

// Parse parses a YAML recipe on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseColor parses a color string. It accepts #rgb, #rgba, #rrggbb,
// #rrggbbaa and "transparent".
func ParseColor(s string) (colorspec.Color, error) {
	return colorspec.Parse(s)
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	ops, err := c.operations()
	if err != nil {
		return orchestrator.Config{}, err
	}
	return orchestrator.Config{
		InputPath:  c.Input,
		OutputPath: c.Output,
		Format:     ports.ParseFormat(c.Format),
		Quality:    c.Quality,
		Operations: ops,
	}, nil
}

// ToBatch converts Config to an orchestrator.Batch. Without batch inputs the
// single input is used.
func (c Config) ToBatch() (orchestrator.Batch, error) {
	template, err := c.ToOrchestratorConfig()
	if err != nil {
		return orchestrator.Batch{}, err
	}
	inputs := c.Batch.Inputs
	if len(inputs) == 0 && c.Input != "" {
		inputs = []string{c.Input}
	}
	return orchestrator.Batch{
		Inputs:    inputs,
		OutputDir: c.Batch.OutputDir,
		Suffix:    c.Batch.Suffix,
		Workers:   c.Workers,
		Template:  template,
	}, nil
}

func (c Config) operations() ([]orchestrator.Operation, error) {
	ops := make([]orchestrator.Operation, 0, len(c.Operations))
	for i, op := range c.Operations {
		converted, err := op.ToOperation()
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i+1, op.Type, err)
		}
		ops = append(ops, converted)
	}
	return ops, nil
}

// ToOperation converts the step into an orchestrator operation.
func (o Operation) ToOperation() (orchestrator.Operation, error) {
	switch placement.Normalize(o.Type) {
	case "overlay", "watermark":
		return o.overlay()
	case "text":
		return o.text()
	case "filter", "filters":
		return o.filter()
	case "resize":
		return transformOp(pipeline.Transform{Kind: pipeline.TransformResize, Width: o.Width, Height: o.Height}), nil
	case "fit", "best fit":
		return transformOp(pipeline.Transform{Kind: pipeline.TransformFit, Width: o.Width, Height: o.Height}), nil
	case "thumbnail", "fill to":
		return transformOp(pipeline.Transform{
			Kind: pipeline.TransformFill, Width: o.Width, Height: o.Height, Anchor: placement.ParseAnchor(o.Anchor),
		}), nil
	case "crop":
		return transformOp(pipeline.Transform{
			Kind: pipeline.TransformCrop, X: o.X, Y: o.Y, Width: o.Width, Height: o.Height,
			Anchor: placement.ParseAnchor(o.Anchor), Anchored: o.Anchor != "",
		}), nil
	case "rotate":
		bg, err := optionalColor(o.Background, colorspec.Transparent)
		if err != nil {
			return orchestrator.Operation{}, err
		}
		return transformOp(pipeline.Transform{Kind: pipeline.TransformRotate, Angle: o.Angle, Background: bg}), nil
	case "flip":
		return transformOp(pipeline.Transform{Kind: pipeline.TransformFlip, Direction: parseDirection(o.Direction)}), nil
	case "rectangle":
		return o.shape(pipeline.ShapeRectangle)
	case "rounded rectangle":
		return o.shape(pipeline.ShapeRoundedRectangle)
	case "line":
		return o.shape(pipeline.ShapeLine)
	case "ellipse":
		return o.shape(pipeline.ShapeEllipse)
	case "border":
		return o.shape(pipeline.ShapeBorder)
	case "fill":
		return o.shape(pipeline.ShapeFill)
	}
	return orchestrator.Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, o.Type)
}

func (o Operation) opacity() float64 {
	if o.Opacity == nil {
		return 1
	}
	return *o.Opacity
}

func (o Operation) overlay() (orchestrator.Operation, error) {
	if o.Image == "" {
		return orchestrator.Operation{}, errors.New("overlay requires an image")
	}
	return orchestrator.Operation{
		Kind:        orchestrator.OpOverlay,
		OverlayPath: o.Image,
		Anchor:      placement.ParseAnchor(o.Anchor),
		Offset:      placement.Offset{X: o.X, Y: o.Y},
		Opacity:     o.opacity(),
	}, nil
}

func (o Operation) text() (orchestrator.Operation, error) {
	opts := textlayout.DefaultOptions()
	opts.Font.File = o.Font
	if o.Size > 0 {
		opts.Font.Size = o.Size
	}
	opts.Font.Angle = o.Angle
	opts.Width = o.Width
	opts.Leading = o.Leading
	opts.Align = textlayout.ParseMode(o.Align)
	if o.Anchor != "" {
		opts.Anchor = placement.ParseAnchor(o.Anchor)
	}
	opts.Offset = placement.Offset{X: o.X, Y: o.Y}
	opts.Opacity = o.opacity()

	colors, err := o.colors()
	if err != nil {
		return orchestrator.Operation{}, err
	}
	if len(colors) > 0 {
		opts.Colors = colors
	}

	if o.Stroke.Size > 0 {
		strokes, err := parseColors(o.Stroke.Colors)
		if err != nil {
			return orchestrator.Operation{}, fmt.Errorf("stroke: %w", err)
		}
		if len(strokes) == 0 {
			strokes = []colorspec.Color{colorspec.Black}
		}
		opts.StrokeSize = o.Stroke.Size
		opts.StrokeColors = strokes
	}
	opts.StrokeSpacing = o.Stroke.Spacing

	return orchestrator.Operation{Kind: orchestrator.OpText, Text: o.Text, TextOptions: opts}, nil
}

func (o Operation) filter() (orchestrator.Operation, error) {
	chain := make(filters.Chain, 0, len(o.Filters))
	for _, s := range o.Filters {
		f, err := filters.Parse(s)
		if err != nil {
			return orchestrator.Operation{}, err
		}
		chain = append(chain, f)
	}
	return orchestrator.Operation{Kind: orchestrator.OpFilter, Filters: chain}, nil
}

func (o Operation) shape(kind pipeline.ShapeKind) (orchestrator.Operation, error) {
	c, err := optionalColor(o.Color, colorspec.Black)
	if err != nil {
		return orchestrator.Operation{}, err
	}
	s := pipeline.Shape{
		Kind:      kind,
		X:         o.X,
		Y:         o.Y,
		X2:        o.X2,
		Y2:        o.Y2,
		Width:     o.Width,
		Height:    o.Height,
		Radius:    o.Radius,
		Thickness: o.Thickness,
		Color:     c,
	}
	// Rectangles may be given by two corners instead of a size
	boxed := kind == pipeline.ShapeRectangle || kind == pipeline.ShapeRoundedRectangle
	if boxed && o.Width == 0 && o.Height == 0 && (o.X2 != 0 || o.Y2 != 0) {
		r := image.Rect(o.X, o.Y, o.X2, o.Y2)
		s.X, s.Y, s.Width, s.Height = r.Min.X, r.Min.Y, r.Dx(), r.Dy()
	}
	return orchestrator.Operation{Kind: orchestrator.OpShape, Shapes: []pipeline.Shape{s}}, nil
}

// colors merges the single color field with the color list.
func (o Operation) colors() ([]colorspec.Color, error) {
	raw := o.Colors
	if o.Color != "" {
		raw = append([]string{o.Color}, raw...)
	}
	return parseColors(raw)
}

func transformOp(t pipeline.Transform) orchestrator.Operation {
	return orchestrator.Operation{Kind: orchestrator.OpTransform, Transforms: []pipeline.Transform{t}}
}

func parseColors(raw []string) ([]colorspec.Color, error) {
	out := make([]colorspec.Color, 0, len(raw))
	for _, s := range raw {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func optionalColor(s string, fallback colorspec.Color) (colorspec.Color, error) {
	if s == "" {
		return fallback, nil
	}
	return ParseColor(s)
}

func parseDirection(s string) pipeline.FlipDirection {
	switch placement.Normalize(s) {
	case "y", "vertical":
		return pipeline.FlipVertical
	case "both", "xy":
		return pipeline.FlipBoth
	default:
		return pipeline.FlipHorizontal
	}
}
