package ports

import (
	"fmt"
	"image/color"
	"image/draw"
)

// FontSpec selects a face for glyph operations.
type FontSpec struct {
	// File is a path to a TrueType/OpenType font. Empty selects the
	// embedded Go Regular face.
	File string
	// Size is the font size in points.
	Size float64
	// Angle rotates the text counter-clockwise, in degrees.
	Angle float64
}

// BoundingBox is the extent of rendered text relative to the drawing origin
// (the baseline start). Y grows downward, so MinY is usually negative.
type BoundingBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// FontMetrics holds vertical metrics of a face in pixels.
type FontMetrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}

// GlyphEngine measures and rasterizes text.
type GlyphEngine interface {
	// Measure returns the bounding box of text drawn with the given font.
	Measure(font FontSpec, text string) (BoundingBox, error)

	// Metrics returns vertical metrics for the given font.
	Metrics(font FontSpec) (FontMetrics, error)

	// Draw renders text with its baseline origin at (x, y).
	Draw(dst draw.Image, font FontSpec, x, y float64, c color.Color, text string) error
}

// FontLoadError reports a font file that could not be read or parsed.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load embedded font: %v", e.Err)
	}
	return fmt.Sprintf("load font %s: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}
