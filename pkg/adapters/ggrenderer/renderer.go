// Package ggrenderer provides a renderer implementation using the gg and
// imaging libraries.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/simpleimage/pkg/ports"
)

// Renderer implements ports.Renderer. Codecs go through imaging, which
// applies EXIF orientation on decode; canvases are gg contexts.
type Renderer struct {
	autoOrient bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAutoOrientation toggles EXIF orientation correction on decode.
// It is enabled by default.
func WithAutoOrientation(enabled bool) Option {
	return func(r *Renderer) {
		r.autoOrient = enabled
	}
}

// New creates a new Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{autoOrient: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// DecodeImage decodes JPEG, PNG or GIF data. The format is sniffed from the
// data; a mismatch with an explicit format is an error.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if format != ports.FormatAuto {
		_, name, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", format, err)
		}
		if got := ports.ParseFormat(name); got != format {
			return nil, fmt.Errorf("decode %s: data is %s", format, name)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(r.autoOrient))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, nil
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var f imaging.Format
	switch format {
	case ports.FormatJPEG:
		f = imaging.JPEG
	case ports.FormatPNG:
		f = imaging.PNG
	case ports.FormatGIF:
		f = imaging.GIF
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if quality <= 0 || quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc *gg.Context
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawRoundedRect draws a filled rounded rectangle.
func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

// DrawRectStroke draws a rectangle outline.
func (c *Canvas) DrawRectStroke(x, y, w, h int, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(strokeWidth)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Stroke()
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	c.dc.Stroke()
}

// DrawEllipse draws a filled or outlined ellipse.
func (c *Canvas) DrawEllipse(cx, cy, rx, ry int, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.DrawEllipse(float64(cx), float64(cy), float64(rx), float64(ry))
	if strokeWidth > 0 {
		c.dc.SetLineWidth(strokeWidth)
		c.dc.Stroke()
		return
	}
	c.dc.Fill()
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
