package text

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/mocks"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/textlayout"
)

func white(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func options() textlayout.Options {
	opts := textlayout.DefaultOptions()
	opts.Font.Size = 7.5
	opts.Anchor = placement.TopLeft
	return opts
}

func TestStage_Execute(t *testing.T) {
	engine := mocks.NewGlyphEngine()
	sink := mocks.NewDebugSink(true)
	stage := NewStage(engine, sink, mocks.NewLogger())

	base := white(100, 40)
	opts := options()
	opts.Offset = placement.Offset{X: 5, Y: 5}

	result, err := stage.Execute(context.Background(), pipeline.TextInput{
		Base:    base,
		Text:    "aaaa bbbb cccc",
		Options: opts,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Wraps to the base width: "aaaa bbbb" then "cccc"
	if result.Block != image.Rect(5, 5, 105, 25) {
		t.Errorf("unexpected block rectangle %v", result.Block)
	}
	if got := result.Image.NRGBAAt(10, 8); got.R != 0 {
		t.Errorf("expected text pixel at (10,8), got %v", got)
	}
	if got := result.Image.NRGBAAt(10, 30); got.R != 255 {
		t.Errorf("expected background at (10,30), got %v", got)
	}
	if base.NRGBAAt(10, 8).R != 255 {
		t.Error("expected base input untouched")
	}
	if sink.ScratchCount() != 1 {
		t.Errorf("expected one scratch raster, got %d", sink.ScratchCount())
	}
	if _, ok := sink.Scratch["text-001"]; !ok {
		t.Errorf("expected scratch named text-001, got %v", sink.Scratch)
	}
}

func TestStage_ExecuteHalfOpacity(t *testing.T) {
	stage := NewStage(mocks.NewGlyphEngine(), mocks.NewDebugSink(false), mocks.NewLogger())

	opts := options()
	opts.Opacity = 0.5

	result, err := stage.Execute(context.Background(), pipeline.TextInput{Base: white(50, 20), Text: "ab", Options: opts})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := result.Image.NRGBAAt(3, 3)
	if got.R < 110 || got.R > 140 {
		t.Errorf("expected half-blended gray, got %v", got)
	}
}

func TestStage_ExecuteMultiColor(t *testing.T) {
	engine := mocks.NewGlyphEngine()
	stage := NewStage(engine, mocks.NewDebugSink(false), mocks.NewLogger())

	opts := options()
	opts.Colors = []colorspec.Color{colorspec.FromHex("#ff0000").Normalize(), colorspec.FromHex("#0000ff").Normalize()}

	result, err := stage.Execute(context.Background(), pipeline.TextInput{Base: white(50, 20), Text: "ab", Options: opts})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := result.Image.NRGBAAt(3, 3); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("expected red first glyph, got %v", got)
	}
	if got := result.Image.NRGBAAt(13, 3); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("expected blue second glyph, got %v", got)
	}
}

func TestStage_ExecuteFontError(t *testing.T) {
	engine := mocks.NewGlyphEngine()
	engine.MeasureFunc = func(font ports.FontSpec, text string) (ports.BoundingBox, error) {
		return ports.BoundingBox{}, &ports.FontLoadError{Path: font.File, Err: os.ErrNotExist}
	}
	stage := NewStage(engine, mocks.NewDebugSink(true), mocks.NewLogger())

	opts := options()
	opts.Font.File = "nope.ttf"

	_, err := stage.Execute(context.Background(), pipeline.TextInput{Base: white(10, 10), Text: "hi", Options: opts})
	var fontErr *ports.FontLoadError
	if !errors.As(err, &fontErr) {
		t.Fatalf("expected FontLoadError, got %v", err)
	}
}

func TestStage_ExecuteInvalidWidth(t *testing.T) {
	stage := NewStage(mocks.NewGlyphEngine(), mocks.NewDebugSink(false), mocks.NewLogger())

	opts := options()
	opts.Width = -3

	_, err := stage.Execute(context.Background(), pipeline.TextInput{Base: white(10, 10), Text: "hi", Options: opts})
	if !errors.Is(err, textlayout.ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestStage_ExecuteMissingImage(t *testing.T) {
	stage := NewStage(mocks.NewGlyphEngine(), mocks.NewDebugSink(false), mocks.NewLogger())

	if _, err := stage.Execute(context.Background(), pipeline.TextInput{Text: "x"}); !errors.Is(err, ErrMissingImage) {
		t.Errorf("expected ErrMissingImage, got %v", err)
	}
}
