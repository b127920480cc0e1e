// Package simpleimage provides a fluent API to load, edit and save raster
// images.
//
// Every operation records the first error it hits and turns later calls into
// no-ops, so a chain is checked once at the end:
//
//	img := simpleimage.Open("in.jpg").
//		Thumbnail(640, 480, placement.Center).
//		Text("Hello", simpleimage.NewText().WithSize(24).Build()).
//		Sepia()
//	if err := img.Save("out.png", 90); err != nil {
//		...
//	}
package simpleimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/adapters/fontengine"
	"github.com/user/simpleimage/pkg/adapters/ggrenderer"
	"github.com/user/simpleimage/pkg/adapters/logger"
	"github.com/user/simpleimage/pkg/adapters/nullsink"
	"github.com/user/simpleimage/pkg/adapters/osfilesystem"
	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/stages/filter"
	"github.com/user/simpleimage/pkg/stages/overlay"
	"github.com/user/simpleimage/pkg/stages/shape"
	"github.com/user/simpleimage/pkg/stages/text"
	"github.com/user/simpleimage/pkg/stages/transform"
)

// ErrInvalidSize is returned by New for non-positive dimensions.
var ErrInvalidSize = errors.New("simpleimage: invalid size")

// Orientation names returned by Image.Orientation.
const (
	Landscape = "landscape"
	Portrait  = "portrait"
	Square    = "square"
)

// env holds the adapters and stages shared by an image and its clones.
type env struct {
	renderer ports.Renderer
	glyphs   ports.GlyphEngine
	fs       ports.FileSystem
	sink     ports.DebugSink
	logger   ports.Logger

	overlay   *overlay.Stage
	text      *text.Stage
	filter    *filter.Stage
	transform *transform.Stage
	shape     *shape.Stage
}

// Option configures the adapters used by an Image.
type Option func(*env)

// WithRenderer sets the codec and canvas implementation.
func WithRenderer(r ports.Renderer) Option {
	return func(e *env) { e.renderer = r }
}

// WithGlyphEngine sets the font implementation.
func WithGlyphEngine(g ports.GlyphEngine) Option {
	return func(e *env) { e.glyphs = g }
}

// WithFileSystem sets the file system used by Open and Save.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(e *env) { e.fs = fs }
}

// WithDebugSink sets where intermediate rasters are written.
func WithDebugSink(s ports.DebugSink) Option {
	return func(e *env) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(e *env) { e.logger = l }
}

func newEnv(opts []Option) *env {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = ggrenderer.New()
	}
	if e.glyphs == nil {
		e.glyphs = fontengine.New()
	}
	if e.fs == nil {
		e.fs = osfilesystem.New()
	}
	if e.sink == nil {
		e.sink = nullsink.New()
	}
	if e.logger == nil {
		e.logger = logger.NewNoop()
	}

	e.overlay = overlay.NewStage(e.logger)
	e.text = text.NewStage(e.glyphs, e.sink, e.logger)
	e.filter = filter.NewStage(e.logger)
	e.transform = transform.NewStage(e.renderer, e.logger)
	e.shape = shape.NewStage(e.renderer, e.logger)
	return e
}

// Image is a mutable raster with chainable operations.
type Image struct {
	ctx    context.Context
	env    *env
	img    *image.NRGBA
	format ports.ImageFormat
	err    error
}

// New creates a width x height image filled with bg.
func New(width, height int, bg colorspec.Color, opts ...Option) *Image {
	i := &Image{ctx: context.Background(), env: newEnv(opts), format: ports.FormatPNG}
	if width <= 0 || height <= 0 {
		i.err = fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
		return i
	}
	i.img = imaging.New(width, height, bg)
	return i
}

// Open reads and decodes an image file.
func Open(path string, opts ...Option) *Image {
	e := newEnv(opts)
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return &Image{ctx: context.Background(), env: e, err: fmt.Errorf("open %s: %w", path, err)}
	}
	i := fromBytes(e, data)
	if i.err != nil {
		i.err = fmt.Errorf("open %s: %w", path, i.err)
	}
	return i
}

// FromBytes decodes JPEG, PNG or GIF data. EXIF orientation is applied when
// the renderer supports it.
func FromBytes(data []byte, opts ...Option) *Image {
	return fromBytes(newEnv(opts), data)
}

// FromDataURI decodes a base64 data URI such as the output of DataURI.
func FromDataURI(uri string, opts ...Option) *Image {
	e := newEnv(opts)
	data, err := decodeDataURI(uri)
	if err != nil {
		return &Image{ctx: context.Background(), env: e, err: err}
	}
	return fromBytes(e, data)
}

func fromBytes(e *env, data []byte) *Image {
	i := &Image{ctx: context.Background(), env: e}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		i.err = fmt.Errorf("decode: %w", err)
		return i
	}
	i.format = ports.ParseFormat(name)

	img, err := e.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		i.err = fmt.Errorf("decode: %w", err)
		return i
	}
	i.img = imaging.Clone(img)
	return i
}

// FromImage wraps a copy of img.
func FromImage(img image.Image, opts ...Option) *Image {
	i := &Image{ctx: context.Background(), env: newEnv(opts), format: ports.FormatPNG}
	if img == nil {
		i.err = fmt.Errorf("%w: nil image", ErrInvalidSize)
		return i
	}
	i.img = imaging.Clone(img)
	return i
}

// WithContext sets the context checked by every later operation.
func (i *Image) WithContext(ctx context.Context) *Image {
	i.ctx = ctx
	return i
}

// Clone returns an independent copy sharing the same adapters.
func (i *Image) Clone() *Image {
	c := *i
	if i.img != nil {
		c.img = imaging.Clone(i.img)
	}
	return &c
}

// Err returns the first error recorded by the chain.
func (i *Image) Err() error {
	return i.err
}

// Image returns the current raster, or nil after an error.
func (i *Image) Image() *image.NRGBA {
	if i.err != nil {
		return nil
	}
	return i.img
}

// Format returns the format the image was decoded from. Created images
// report PNG.
func (i *Image) Format() ports.ImageFormat {
	return i.format
}

// Width returns the current width in pixels.
func (i *Image) Width() int {
	if i.img == nil {
		return 0
	}
	return i.img.Bounds().Dx()
}

// Height returns the current height in pixels.
func (i *Image) Height() int {
	if i.img == nil {
		return 0
	}
	return i.img.Bounds().Dy()
}

// AspectRatio returns width / height, or 0 for an empty image.
func (i *Image) AspectRatio() float64 {
	if i.Height() == 0 {
		return 0
	}
	return float64(i.Width()) / float64(i.Height())
}

// Orientation reports whether the image is landscape, portrait or square.
func (i *Image) Orientation() string {
	switch w, h := i.Width(), i.Height(); {
	case w > h:
		return Landscape
	case w < h:
		return Portrait
	default:
		return Square
	}
}

// ColorAt returns the color of the pixel at (x, y). Points outside the image
// report transparent.
func (i *Image) ColorAt(x, y int) colorspec.Color {
	if i.img == nil || !(image.Point{X: x, Y: y}).In(i.img.Bounds()) {
		return colorspec.Transparent
	}
	return colorspec.FromColor(i.img.NRGBAAt(x, y))
}

// Encode encodes the image. FormatAuto keeps the source format. Quality only
// applies to JPEG.
func (i *Image) Encode(format ports.ImageFormat, quality int) ([]byte, error) {
	if i.err != nil {
		return nil, i.err
	}
	if format == ports.FormatAuto {
		format = i.format
	}
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	data, err := i.env.renderer.EncodeImage(i.img, format, quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return data, nil
}

// Save encodes the image in the format implied by the path extension and
// writes it.
func (i *Image) Save(path string, quality int) error {
	data, err := i.Encode(ports.FormatFromPath(path), quality)
	if err != nil {
		return err
	}
	if err := i.env.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	i.env.logger.Debug("Saved %s", path)
	return nil
}

// DataURI encodes the image as a base64 data URI.
func (i *Image) DataURI(format ports.ImageFormat, quality int) (string, error) {
	if format == ports.FormatAuto {
		format = i.format
	}
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	data, err := i.Encode(format, quality)
	if err != nil {
		return "", err
	}
	return "data:" + format.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// apply runs fn unless the chain already failed.
func (i *Image) apply(op string, fn func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error)) *Image {
	if i.err != nil {
		return i
	}
	if i.img == nil {
		i.err = fmt.Errorf("%s: %w", op, ErrInvalidSize)
		return i
	}
	out, err := fn(i.ctx, i.img)
	if err != nil {
		i.err = fmt.Errorf("%s: %w", op, err)
		return i
	}
	i.img = out
	return i
}
