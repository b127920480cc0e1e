// Package fontengine provides a glyph engine backed by golang.org/x/image/font.
//
// The embedded Go Regular face is used when no font file is given. Font files
// are loaded through gg at 96 DPI so point sizes match the layout engine's
// pixel conversion.
package fontengine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/user/simpleimage/pkg/ports"
)

const dpi = 96

type faceKey struct {
	file string
	size float64
}

// Engine implements ports.GlyphEngine. Faces are cached per file and size.
// Faces are not safe for concurrent use, so every operation holds the lock.
type Engine struct {
	mu       sync.Mutex
	faces    map[faceKey]font.Face
	embedded *opentype.Font
}

// New creates a new Engine.
func New() *Engine {
	return &Engine{faces: make(map[faceKey]font.Face)}
}

// Measure returns the bounding box of text. The box spans at least the pen
// advance so trailing spaces count toward the width.
func (e *Engine) Measure(spec ports.FontSpec, text string) (ports.BoundingBox, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	face, err := e.face(spec)
	if err != nil {
		return ports.BoundingBox{}, err
	}
	bb := measure(face, text)
	if spec.Angle != 0 {
		bb = rotateBox(bb, spec.Angle)
	}
	return bb, nil
}

// Metrics returns the face's vertical metrics in pixels.
func (e *Engine) Metrics(spec ports.FontSpec) (ports.FontMetrics, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	face, err := e.face(spec)
	if err != nil {
		return ports.FontMetrics{}, err
	}
	m := face.Metrics()
	return ports.FontMetrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}, nil
}

// Draw renders text with its baseline origin at (x, y). Rotated text is
// rasterized upright and rotated about the origin.
func (e *Engine) Draw(dst draw.Image, spec ports.FontSpec, x, y float64, c color.Color, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	face, err := e.face(spec)
	if err != nil {
		return err
	}

	if spec.Angle == 0 {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
		}
		d.DrawString(text)
		return nil
	}

	drawRotated(dst, face, x, y, spec.Angle, c, text)
	return nil
}

// Close releases all cached faces.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for k, f := range e.faces {
		f.Close()
		delete(e.faces, k)
	}
	return nil
}

// face returns a cached face. The caller must hold the lock.
func (e *Engine) face(spec ports.FontSpec) (font.Face, error) {
	if spec.Size <= 0 {
		return nil, &ports.FontLoadError{Path: spec.File, Err: fmt.Errorf("invalid font size %v", spec.Size)}
	}

	key := faceKey{file: spec.File, size: spec.Size}
	if f, ok := e.faces[key]; ok {
		return f, nil
	}

	var (
		f   font.Face
		err error
	)
	if spec.File == "" {
		f, err = e.embeddedFace(spec.Size)
	} else {
		f, err = gg.LoadFontFace(spec.File, spec.Size*dpi/72)
	}
	if err != nil {
		return nil, &ports.FontLoadError{Path: spec.File, Err: err}
	}

	e.faces[key] = f
	return f, nil
}

func (e *Engine) embeddedFace(size float64) (font.Face, error) {
	if e.embedded == nil {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		e.embedded = parsed
	}
	return opentype.NewFace(e.embedded, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func measure(face font.Face, text string) ports.BoundingBox {
	bounds, advance := font.BoundString(face, text)
	return ports.BoundingBox{
		MinX: math.Min(fromFixed(bounds.Min.X), 0),
		MinY: fromFixed(bounds.Min.Y),
		MaxX: math.Max(fromFixed(bounds.Max.X), fromFixed(advance)),
		MaxY: fromFixed(bounds.Max.Y),
	}
}

// rotate turns (x, y) counter-clockwise on screen, where y grows downward.
func rotate(x, y, deg float64) (float64, float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return x*cos + y*sin, -x*sin + y*cos
}

func rotateBox(bb ports.BoundingBox, deg float64) ports.BoundingBox {
	corners := [4][2]float64{
		{bb.MinX, bb.MinY}, {bb.MaxX, bb.MinY},
		{bb.MinX, bb.MaxY}, {bb.MaxX, bb.MaxY},
	}
	out := ports.BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range corners {
		x, y := rotate(p[0], p[1], deg)
		out.MinX = math.Min(out.MinX, x)
		out.MinY = math.Min(out.MinY, y)
		out.MaxX = math.Max(out.MaxX, x)
		out.MaxY = math.Max(out.MaxY, y)
	}
	return out
}

// drawRotated renders text upright into a scratch raster, rotates it with
// imaging and composites it so the baseline origin lands on (x, y).
func drawRotated(dst draw.Image, face font.Face, x, y, deg float64, c color.Color, text string) {
	bb := measure(face, text)
	w := int(math.Ceil(bb.Width())) + 2
	h := int(math.Ceil(bb.Height())) + 2
	if w <= 2 || h <= 2 {
		return
	}

	ox, oy := 1-bb.MinX, 1-bb.MinY
	scratch := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(ox), Y: toFixed(oy)},
	}
	d.DrawString(text)

	rotated := imaging.Rotate(scratch, deg, color.Transparent)

	// Track the origin through a rotation about the raster center
	px, py := rotate(ox-float64(w)/2, oy-float64(h)/2, deg)
	rb := rotated.Bounds()
	nx := float64(rb.Dx())/2 + px
	ny := float64(rb.Dy())/2 + py

	at := image.Pt(int(math.Round(x-nx)), int(math.Round(y-ny)))
	draw.Draw(dst, rb.Add(at), rotated, image.Point{}, draw.Over)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

var _ ports.GlyphEngine = (*Engine)(nil)
