package textlayout

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/compositor"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
)

// Options configures a text block. Start from DefaultOptions.
type Options struct {
	Font ports.FontSpec

	// Colors are the fill colors. More than one color switches to per-glyph
	// rendering, cycling through the colors.
	Colors []colorspec.Color
	// StrokeColors are the outline colors. More than one color switches to
	// per-glyph rendering.
	StrokeColors []colorspec.Color
	// StrokeSize is the outline radius in pixels. Zero disables the stroke.
	StrokeSize int
	// StrokeSpacing is extra advance added after each glyph in per-glyph
	// rendering.
	StrokeSpacing float64

	Leading float64
	// Width is the wrap width. Apply substitutes the destination width
	// when it is zero.
	Width int
	Align Mode

	Anchor  placement.Anchor
	Offset  placement.Offset
	Opacity float64
}

// DefaultOptions returns 12pt black text in the embedded face, left
// aligned, centered on the destination at full opacity.
func DefaultOptions() Options {
	return Options{
		Font:    ports.FontSpec{Size: 12},
		Colors:  []colorspec.Color{colorspec.Black},
		Align:   Left,
		Anchor:  placement.Center,
		Opacity: 1,
	}
}

// Block returns the layout geometry of the options.
func (o Options) Block() Block {
	return Block{
		Width:    float64(o.Width),
		FontSize: o.Font.Size,
		Leading:  o.Leading,
		Mode:     o.Align,
	}
}

func (o Options) perGlyph() bool {
	return len(o.Colors) > 1 || len(o.StrokeColors) > 1
}

func (o Options) fill(i int) color.Color {
	if len(o.Colors) == 0 {
		return colorspec.Black
	}
	return o.Colors[i%len(o.Colors)]
}

func (o Options) stroke(i int) (color.Color, bool) {
	if o.StrokeSize <= 0 || len(o.StrokeColors) == 0 {
		return nil, false
	}
	return o.StrokeColors[i%len(o.StrokeColors)], true
}

// Render wraps, lays out and draws text into a new transparent raster. The
// raster is Width plus twice the stroke size wide and is cropped below the
// last drawn row. A non-zero font angle rotates the finished block.
func Render(engine ports.GlyphEngine, text string, opts Options) (*image.NRGBA, error) {
	block := opts.Block()
	if err := block.validate(); err != nil {
		return nil, err
	}

	// Lines are laid out unrotated; the whole block is rotated at the end
	flat := opts.Font
	flat.Angle = 0

	measure := func(s string) (float64, error) {
		bb, err := engine.Measure(flat, s)
		if err != nil {
			return 0, err
		}
		return bb.Width(), nil
	}

	metrics, err := engine.Metrics(flat)
	if err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}

	lines, err := Wrap(text, block.Width, measure)
	if err != nil {
		return nil, err
	}
	runs, err := Layout(lines, block, measure)
	if err != nil {
		return nil, err
	}

	margin := opts.StrokeSize
	if margin < 0 {
		margin = 0
	}
	w := int(math.Ceil(block.Width)) + 2*margin
	h := int(math.Ceil(block.Height(len(lines)))) + 2*margin
	scratch := image.NewNRGBA(image.Rect(0, 0, w, h))

	p := painter{engine: engine, font: flat, opts: opts, dst: scratch, measure: measure}
	for _, run := range runs {
		x := float64(margin) + run.X
		y := float64(margin) + run.Y + metrics.Ascent
		if opts.perGlyph() {
			err = p.glyphs(run.Text, x, y)
		} else {
			err = p.run(run.Text, x, y)
		}
		if err != nil {
			return nil, err
		}
	}

	out := cropRows(scratch)
	if opts.Font.Angle != 0 && !out.Bounds().Empty() {
		out = imaging.Rotate(out, opts.Font.Angle, color.Transparent)
	}
	return out, nil
}

// Apply renders text and merges it onto dst at the anchored position with
// the configured opacity. dst is untouched when an error is returned.
func Apply(dst draw.Image, engine ports.GlyphEngine, text string, opts Options) error {
	if opts.Width == 0 {
		opts.Width = dst.Bounds().Dx()
	}

	block, err := Render(engine, text, opts)
	if err != nil {
		return err
	}
	Place(dst, block, opts)
	return nil
}

// Place merges a rendered block onto dst at the anchor and offset of opts
// and returns the block's top-left corner relative to dst's origin.
func Place(dst draw.Image, block image.Image, opts Options) image.Point {
	size := placement.SizeOf(block)
	pt := placement.Resolve(opts.Anchor, placement.SizeOf(dst), size, opts.Offset).Floor()
	if !size.Empty() {
		compositor.MergeInto(dst, block, pt, image.Point{}, size, compositor.NormalizeOpacity(opts.Opacity))
	}
	return pt
}

type painter struct {
	engine  ports.GlyphEngine
	font    ports.FontSpec
	opts    Options
	dst     draw.Image
	measure MeasureFunc
	glyph   int
}

// run draws a whole run in the first stroke and fill colors.
func (p *painter) run(text string, x, y float64) error {
	if c, ok := p.opts.stroke(0); ok {
		if err := p.stamp(text, x, y, c); err != nil {
			return err
		}
	}
	return p.draw(text, x, y, p.opts.fill(0))
}

// glyphs draws text one rune at a time, cycling colors. Spaces advance the
// pen without consuming a color.
func (p *painter) glyphs(text string, x, y float64) error {
	for _, r := range text {
		ch := string(r)
		w, err := p.measure(ch)
		if err != nil {
			return err
		}
		if r != ' ' {
			if c, ok := p.opts.stroke(p.glyph); ok {
				if err := p.stamp(ch, x, y, c); err != nil {
					return err
				}
			}
			if err := p.draw(ch, x, y, p.opts.fill(p.glyph)); err != nil {
				return err
			}
			p.glyph++
		}
		x += w + p.opts.StrokeSpacing
	}
	return nil
}

// stamp draws text at every offset in the stroke square.
func (p *painter) stamp(text string, x, y float64, c color.Color) error {
	s := p.opts.StrokeSize
	for dy := -s; dy <= s; dy++ {
		for dx := -s; dx <= s; dx++ {
			if err := p.draw(text, x+float64(dx), y+float64(dy), c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *painter) draw(text string, x, y float64, c color.Color) error {
	if err := p.engine.Draw(p.dst, p.font, x, y, c, text); err != nil {
		return fmt.Errorf("draw %q: %w", text, err)
	}
	return nil
}

// cropRows drops empty rows at the bottom of img.
func cropRows(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	last := b.Min.Y - 1
	for y := b.Max.Y - 1; y >= b.Min.Y && last < b.Min.Y; y-- {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				last = y
				break
			}
		}
	}
	return img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Max.X, last+1)).(*image.NRGBA)
}
