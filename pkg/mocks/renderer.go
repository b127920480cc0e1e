package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/simpleimage/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return NewCanvas(width, height)
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewNRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte(format.String()), nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// DrawCall records one Canvas operation.
type DrawCall struct {
	Op    string
	Rect  image.Rectangle
	Color color.Color
}

// Canvas is a mock implementation of ports.Canvas that records calls.
type Canvas struct {
	mu     sync.Mutex
	width  int
	height int
	img    *image.NRGBA
	Calls  []DrawCall
}

// NewCanvas creates a mock Canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

func (m *Canvas) record(op string, r image.Rectangle, c color.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, DrawCall{Op: op, Rect: r, Color: c})
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.record("image", img.Bounds().Sub(img.Bounds().Min).Add(image.Pt(x, y)), nil)
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.record("rect", image.Rect(x, y, x+w, y+h), c)
}

func (m *Canvas) DrawRoundedRect(x, y, w, h, radius int, c color.Color) {
	m.record("rounded", image.Rect(x, y, x+w, y+h), c)
}

func (m *Canvas) DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64) {
	m.record("stroke", image.Rect(x, y, x+w, y+h), c)
}

func (m *Canvas) DrawLine(x1, y1, x2, y2 int, c color.Color, width float64) {
	m.record("line", image.Rect(x1, y1, x2, y2), c)
}

func (m *Canvas) DrawEllipse(cx, cy, rx, ry int, c color.Color, strokeWidth float64) {
	m.record("ellipse", image.Rect(cx-rx, cy-ry, cx+rx, cy+ry), c)
}

func (m *Canvas) ToImage() image.Image {
	if m.img != nil {
		return m.img
	}
	return image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
}

// Ops returns the recorded operation names in order.
func (m *Canvas) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		ops[i] = c.Op
	}
	return ops
}

var _ ports.Canvas = (*Canvas)(nil)
