package simpleimage

import (
	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/textlayout"
)

// TextBuilder provides a fluent interface for building text options.
type TextBuilder struct {
	opts textlayout.Options
}

// NewText creates a TextBuilder with the default options: 12pt black text in
// the embedded face, left aligned and centered on the image.
func NewText() *TextBuilder {
	return &TextBuilder{opts: textlayout.DefaultOptions()}
}

// Build returns the final options, applying constraints.
func (b *TextBuilder) Build() textlayout.Options {
	opts := b.opts

	// No colors means black
	if len(opts.Colors) == 0 {
		opts.Colors = []colorspec.Color{colorspec.Black}
	}

	// A stroke without colors is not drawn
	if len(opts.StrokeColors) == 0 {
		opts.StrokeSize = 0
	}

	return opts
}

// WithFont sets the TrueType or OpenType font file. An empty path selects
// the embedded face.
func (b *TextBuilder) WithFont(path string) *TextBuilder {
	b.opts.Font.File = path
	return b
}

// WithSize sets the font size in points.
func (b *TextBuilder) WithSize(pt float64) *TextBuilder {
	b.opts.Font.Size = pt
	return b
}

// WithAngle rotates the block counter-clockwise by deg degrees.
func (b *TextBuilder) WithAngle(deg float64) *TextBuilder {
	b.opts.Font.Angle = deg
	return b
}

// WithColor sets the fill colors. Several colors are cycled per glyph.
func (b *TextBuilder) WithColor(colors ...colorspec.Color) *TextBuilder {
	b.opts.Colors = colors
	return b
}

// WithStroke sets the outline radius and colors.
func (b *TextBuilder) WithStroke(size int, colors ...colorspec.Color) *TextBuilder {
	b.opts.StrokeSize = size
	b.opts.StrokeColors = colors
	return b
}

// WithStrokeSpacing adds extra advance after each glyph in per-glyph
// rendering.
func (b *TextBuilder) WithStrokeSpacing(px float64) *TextBuilder {
	b.opts.StrokeSpacing = px
	return b
}

// WithLeading adds px between lines. Negative values tighten lines.
func (b *TextBuilder) WithLeading(px float64) *TextBuilder {
	b.opts.Leading = px
	return b
}

// WithWidth sets the wrap width. Zero wraps to the image width.
func (b *TextBuilder) WithWidth(px int) *TextBuilder {
	b.opts.Width = px
	return b
}

// WithAlign sets the line alignment.
func (b *TextBuilder) WithAlign(mode textlayout.Mode) *TextBuilder {
	b.opts.Align = mode
	return b
}

// WithAnchor sets where the block is placed on the image.
func (b *TextBuilder) WithAnchor(anchor placement.Anchor) *TextBuilder {
	b.opts.Anchor = anchor
	return b
}

// WithOffset displaces the block after anchoring.
func (b *TextBuilder) WithOffset(x, y int) *TextBuilder {
	b.opts.Offset = placement.Offset{X: x, Y: y}
	return b
}

// WithOpacity sets the block opacity as a fraction or percentage.
func (b *TextBuilder) WithOpacity(opacity float64) *TextBuilder {
	b.opts.Opacity = opacity
	return b
}
