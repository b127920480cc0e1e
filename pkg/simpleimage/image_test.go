package simpleimage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/mocks"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/stages/transform"
	"github.com/user/simpleimage/pkg/textlayout"
)

var (
	red   = colorspec.FromHex("#ff0000").Normalize()
	white = colorspec.White
)

func testOptions(fs ports.FileSystem) []Option {
	return []Option{
		WithFileSystem(fs),
		WithGlyphEngine(mocks.NewGlyphEngine()),
		WithLogger(mocks.NewLogger()),
	}
}

func TestNew(t *testing.T) {
	img := New(10, 5, red, testOptions(mocks.NewFileSystem())...)
	if err := img.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width() != 10 || img.Height() != 5 {
		t.Errorf("expected 10x5, got %dx%d", img.Width(), img.Height())
	}
	if img.Orientation() != Landscape {
		t.Errorf("expected landscape, got %s", img.Orientation())
	}
	if img.AspectRatio() != 2 {
		t.Errorf("expected aspect ratio 2, got %v", img.AspectRatio())
	}
	if got := img.ColorAt(3, 3); got != red {
		t.Errorf("expected red, got %+v", got)
	}
	if got := img.ColorAt(30, 3); got != colorspec.Transparent {
		t.Errorf("expected transparent outside, got %+v", got)
	}
	if img.Format() != ports.FormatPNG {
		t.Errorf("expected png format, got %s", img.Format())
	}
}

func TestOrientation(t *testing.T) {
	fs := mocks.NewFileSystem()
	if got := New(5, 10, white, testOptions(fs)...).Orientation(); got != Portrait {
		t.Errorf("expected portrait, got %s", got)
	}
	if got := New(7, 7, white, testOptions(fs)...).Orientation(); got != Square {
		t.Errorf("expected square, got %s", got)
	}
}

func TestNew_InvalidSizeCarriesError(t *testing.T) {
	img := New(0, 5, white, testOptions(mocks.NewFileSystem())...).Grayscale().Resize(3, 3)
	if !errors.Is(img.Err(), ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", img.Err())
	}
	if img.Image() != nil {
		t.Error("expected nil raster after error")
	}
	if _, err := img.Encode(ports.FormatPNG, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected Encode to return the chain error, got %v", err)
	}
}

func TestChain_FirstErrorWins(t *testing.T) {
	img := New(10, 10, white, testOptions(mocks.NewFileSystem())...).
		Resize(0, 0).
		Crop(50, 50, 60, 60)

	if !errors.Is(img.Err(), transform.ErrInvalidSize) {
		t.Fatalf("expected transform.ErrInvalidSize, got %v", img.Err())
	}
	if !strings.HasPrefix(img.Err().Error(), "resize:") {
		t.Errorf("expected the resize error to win, got %v", img.Err())
	}
	if img.Width() != 10 {
		t.Errorf("expected raster untouched, got width %d", img.Width())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fs := mocks.NewFileSystem()
	data, err := New(12, 8, red, testOptions(fs)...).Encode(ports.FormatAuto, 0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img := FromBytes(data, testOptions(fs)...)
	if err := img.Err(); err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if img.Format() != ports.FormatPNG {
		t.Errorf("expected png, got %s", img.Format())
	}
	if img.Width() != 12 || img.Height() != 8 {
		t.Errorf("expected 12x8, got %dx%d", img.Width(), img.Height())
	}
	if got := img.ColorAt(1, 1); got != red {
		t.Errorf("expected red, got %+v", got)
	}
}

func TestFromBytes_Garbage(t *testing.T) {
	img := FromBytes([]byte("not an image"), testOptions(mocks.NewFileSystem())...)
	if img.Err() == nil {
		t.Error("expected decode error")
	}
}

func TestOpenAndSave(t *testing.T) {
	fs := mocks.NewFileSystem()
	opts := testOptions(fs)

	if err := New(20, 10, white, opts...).Save("in.png", 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img := Open("in.png", opts...).Fill(red)
	if err := img.Save("out.jpg", 80); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := fs.ReadFile("out.jpg")
	if err != nil {
		t.Fatalf("expected out.jpg to be written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("expected JPEG data")
	}
}

func TestOpen_Missing(t *testing.T) {
	img := Open("missing.png", testOptions(mocks.NewFileSystem())...)
	if img.Err() == nil || !strings.Contains(img.Err().Error(), "missing.png") {
		t.Errorf("expected error naming the file, got %v", img.Err())
	}
}

func TestDataURI(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	uri, err := New(6, 4, red, opts...).DataURI(ports.FormatAuto, 0)
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected prefix: %.30s", uri)
	}

	img := FromDataURI(uri, opts...)
	if err := img.Err(); err != nil {
		t.Fatalf("FromDataURI failed: %v", err)
	}
	if img.Width() != 6 || img.Height() != 4 {
		t.Errorf("expected 6x4, got %dx%d", img.Width(), img.Height())
	}

	for _, bad := range []string{"image/png;base64,AAAA", "data:text/plain;base64,AAAA", "data:image/png,raw", "data:image/png;base64,!!"} {
		if err := FromDataURI(bad, opts...).Err(); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("%q: expected ErrInvalidDataURI, got %v", bad, err)
		}
	}
}

func TestOverlay(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())
	badge := New(20, 10, red, opts...)

	img := New(100, 50, white, opts...).OverlayImage(badge, placement.BottomRight, placement.Offset{}, 1)
	if err := img.Err(); err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if got := img.ColorAt(90, 45); got != red {
		t.Errorf("expected red at (90,45), got %+v", got)
	}
	if got := img.ColorAt(79, 45); got != white {
		t.Errorf("expected white at (79,45), got %+v", got)
	}
}

func TestOverlayFile(t *testing.T) {
	fs := mocks.NewFileSystem()
	opts := testOptions(fs)

	if err := New(4, 4, red, opts...).Save("badge.png", 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img := New(10, 10, white, opts...).OverlayFile("badge.png", placement.TopLeft, placement.Offset{X: 1, Y: 1}, 100)
	if err := img.Err(); err != nil {
		t.Fatalf("OverlayFile failed: %v", err)
	}
	if got := img.ColorAt(2, 2); got != red {
		t.Errorf("expected red at (2,2), got %+v", got)
	}

	img = New(10, 10, white, opts...).OverlayFile("nope.png", placement.Center, placement.Offset{}, 1)
	if img.Err() == nil {
		t.Error("expected error for missing overlay file")
	}
}

func TestText(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	style := NewText().WithSize(7.5).WithAnchor(placement.TopLeft).WithOffset(2, 2).Build()
	img := New(100, 40, white, opts...).Text("ab", style)
	if err := img.Err(); err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if got := img.ColorAt(5, 5); got != colorspec.Black {
		t.Errorf("expected black glyph at (5,5), got %+v", got)
	}
	if got := img.ColorAt(50, 30); got != white {
		t.Errorf("expected white background, got %+v", got)
	}
}

func TestText_FontErrorLeavesImage(t *testing.T) {
	engine := mocks.NewGlyphEngine()
	engine.MetricsFunc = func(font ports.FontSpec) (ports.FontMetrics, error) {
		return ports.FontMetrics{}, &ports.FontLoadError{Path: font.File, Err: os.ErrNotExist}
	}

	img := New(20, 20, white, WithGlyphEngine(engine), WithFileSystem(mocks.NewFileSystem())).
		Text("hi", NewText().WithFont("missing.ttf").Build())

	var fontErr *ports.FontLoadError
	if !errors.As(img.Err(), &fontErr) {
		t.Fatalf("expected FontLoadError, got %v", img.Err())
	}
	if fontErr.Path != "missing.ttf" {
		t.Errorf("expected path missing.ttf, got %s", fontErr.Path)
	}
}

func TestTransforms(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	tests := []struct {
		name  string
		apply func(*Image) *Image
		w, h  int
	}{
		{"resize keeps aspect", func(i *Image) *Image { return i.Resize(50, 0) }, 50, 25},
		{"best fit", func(i *Image) *Image { return i.BestFit(40, 40) }, 40, 20},
		{"thumbnail", func(i *Image) *Image { return i.Thumbnail(30, 30, placement.Center) }, 30, 30},
		{"crop reversed corners", func(i *Image) *Image { return i.Crop(60, 40, 10, 10) }, 50, 30},
		{"crop anchor", func(i *Image) *Image { return i.CropAnchor(10, 10, placement.BottomRight) }, 10, 10},
		{"rotate", func(i *Image) *Image { return i.Rotate(90, colorspec.Transparent) }, 50, 100},
		{"flip", func(i *Image) *Image { return i.Flip(pipeline.FlipBoth) }, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.apply(New(100, 50, white, opts...))
			if err := img.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Width() != tt.w || img.Height() != tt.h {
				t.Errorf("expected %dx%d, got %dx%d", tt.w, tt.h, img.Width(), img.Height())
			}
		})
	}
}

func TestFilters(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	img := New(4, 4, red, opts...).Invert()
	if got := img.ColorAt(0, 0); got != (colorspec.Color{G: 255, B: 255}) {
		t.Errorf("expected cyan after invert, got %+v", got)
	}

	img = New(4, 4, red, opts...).Grayscale()
	if got := img.ColorAt(0, 0); got.R != got.G || got.G != got.B {
		t.Errorf("expected gray, got %+v", got)
	}

	img = New(4, 4, colorspec.Black, opts...).Colorize(colorspec.Color{R: 40})
	if got := img.ColorAt(0, 0); got.R != 40 || got.G != 0 {
		t.Errorf("expected colorized red channel, got %+v", got)
	}
}

func TestShapes(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	img := New(20, 20, white, opts...).
		Rectangle(2, 2, 8, 8, red, 0).
		Border(colorspec.Black, 1)
	if err := img.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := img.ColorAt(5, 5); got != red {
		t.Errorf("expected red rectangle, got %+v", got)
	}
	if got := img.ColorAt(0, 10); got != colorspec.Black {
		t.Errorf("expected black border, got %+v", got)
	}
	if got := img.ColorAt(15, 15); got != white {
		t.Errorf("expected white interior, got %+v", got)
	}

	img = New(10, 10, white, opts...).Fill(red)
	if got := img.ColorAt(9, 9); got != red {
		t.Errorf("expected red fill, got %+v", got)
	}
}

func TestClone(t *testing.T) {
	opts := testOptions(mocks.NewFileSystem())

	a := New(4, 4, white, opts...)
	b := a.Clone().Fill(red)

	if a.ColorAt(0, 0) != white {
		t.Error("expected original untouched")
	}
	if b.ColorAt(0, 0) != red {
		t.Error("expected clone filled")
	}
}

func TestWithContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := New(4, 4, white, testOptions(mocks.NewFileSystem())...).WithContext(ctx).Grayscale()
	if !errors.Is(img.Err(), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", img.Err())
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 10))
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 255})

	img := FromImage(src, testOptions(mocks.NewFileSystem())...)
	if img.Width() != 10 || img.Height() != 5 {
		t.Errorf("expected 10x5, got %dx%d", img.Width(), img.Height())
	}
	if got := img.ColorAt(0, 0); got != red {
		t.Errorf("expected zero-origin copy, got %+v", got)
	}

	if FromImage(nil).Err() == nil {
		t.Error("expected error for nil image")
	}
}

func TestTextBuilder(t *testing.T) {
	opts := NewText().
		WithFont("a.ttf").
		WithSize(20).
		WithAngle(15).
		WithColor().
		WithStroke(2).
		WithLeading(4).
		WithWidth(300).
		WithAlign(textlayout.Justify).
		WithAnchor(placement.Bottom).
		WithOpacity(0.5).
		Build()

	if opts.Font != (ports.FontSpec{File: "a.ttf", Size: 20, Angle: 15}) {
		t.Errorf("unexpected font %+v", opts.Font)
	}
	if len(opts.Colors) != 1 || opts.Colors[0] != colorspec.Black {
		t.Errorf("expected default black, got %v", opts.Colors)
	}
	if opts.StrokeSize != 0 {
		t.Errorf("expected stroke dropped without colors, got %d", opts.StrokeSize)
	}
	if opts.Width != 300 || opts.Leading != 4 || opts.Align != textlayout.Justify || opts.Anchor != placement.Bottom || opts.Opacity != 0.5 {
		t.Errorf("unexpected options %+v", opts)
	}
}
