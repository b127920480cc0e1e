package mocks

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"unicode/utf8"

	"github.com/user/simpleimage/pkg/ports"
)

// GlyphEngine is a monospace mock of ports.GlyphEngine. Every rune advances
// by CharWidth pixels and is drawn as a solid block from the baseline up to
// the ascent. Spaces advance but draw nothing.
type GlyphEngine struct {
	mu sync.Mutex

	CharWidth float64
	Ascent    float64
	Descent   float64

	MeasureFunc func(font ports.FontSpec, text string) (ports.BoundingBox, error)
	MetricsFunc func(font ports.FontSpec) (ports.FontMetrics, error)
	DrawFunc    func(dst draw.Image, font ports.FontSpec, x, y float64, c color.Color, text string) error

	// Drawn records the text of every Draw call.
	Drawn []string
	// Colors records the color of every Draw call.
	Colors []color.Color
}

// NewGlyphEngine creates a mock engine with 10px wide glyphs, 8px ascent and
// 2px descent.
func NewGlyphEngine() *GlyphEngine {
	return &GlyphEngine{CharWidth: 10, Ascent: 8, Descent: 2}
}

func (m *GlyphEngine) Measure(font ports.FontSpec, text string) (ports.BoundingBox, error) {
	if m.MeasureFunc != nil {
		return m.MeasureFunc(font, text)
	}
	w := float64(utf8.RuneCountInString(text)) * m.CharWidth
	return ports.BoundingBox{MinX: 0, MinY: -m.Ascent, MaxX: w, MaxY: m.Descent}, nil
}

func (m *GlyphEngine) Metrics(font ports.FontSpec) (ports.FontMetrics, error) {
	if m.MetricsFunc != nil {
		return m.MetricsFunc(font)
	}
	return ports.FontMetrics{Ascent: m.Ascent, Descent: m.Descent, Height: m.Ascent + m.Descent}, nil
}

func (m *GlyphEngine) Draw(dst draw.Image, font ports.FontSpec, x, y float64, c color.Color, text string) error {
	m.mu.Lock()
	m.Drawn = append(m.Drawn, text)
	m.Colors = append(m.Colors, c)
	m.mu.Unlock()

	if m.DrawFunc != nil {
		return m.DrawFunc(dst, font, x, y, c, text)
	}

	src := image.NewUniform(c)
	cx := x
	for _, r := range text {
		if r != ' ' {
			rect := image.Rect(int(cx), int(y-m.Ascent), int(cx+m.CharWidth), int(y))
			draw.Draw(dst, rect.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
		}
		cx += m.CharWidth
	}
	return nil
}

// Calls returns the number of Draw calls so far.
func (m *GlyphEngine) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Drawn)
}

var _ ports.GlyphEngine = (*GlyphEngine)(nil)
