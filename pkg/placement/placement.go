// Package placement resolves symbolic anchors into pixel coordinates.
//
// The same resolution is used for image overlays, text blocks and for each
// line inside a text block.
package placement

import (
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/text/cases"
)

// Size is a pixel dimension.
type Size struct {
	Width  int
	Height int
}

// SizeOf returns the size of an image's bounds.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Offset is a signed displacement applied after anchor resolution.
type Offset struct {
	X int
	Y int
}

// Point is a resolved top-left coordinate. Coordinates stay fractional so
// callers decide how to round.
type Point struct {
	X float64
	Y float64
}

// Floor truncates the point toward negative infinity.
func (p Point) Floor() image.Point {
	return image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// Anchor is one of the nine placement reference points.
type Anchor int

const (
	Center Anchor = iota
	TopLeft
	Top
	TopRight
	Left
	Right
	BottomLeft
	Bottom
	BottomRight
)

var anchorNames = map[Anchor]string{
	Center:      "center",
	TopLeft:     "top left",
	Top:         "top",
	TopRight:    "top right",
	Left:        "left",
	Right:       "right",
	BottomLeft:  "bottom left",
	Bottom:      "bottom",
	BottomRight: "bottom right",
}

var anchorTokens = map[string]Anchor{
	"center":       Center,
	"middle":       Center,
	"top left":     TopLeft,
	"top":          Top,
	"top right":    TopRight,
	"left":         Left,
	"right":        Right,
	"bottom left":  BottomLeft,
	"bottom":       Bottom,
	"bottom right": BottomRight,
}

// String returns the canonical space-separated name.
func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return anchorNames[Center]
}

// ParseAnchor normalizes a free-form anchor name. Case is folded, "-" and
// "_" act as spaces and repeated whitespace collapses. Anything unrecognized
// resolves to Center.
func ParseAnchor(s string) Anchor {
	if a, ok := anchorTokens[normalize(s)]; ok {
		return a
	}
	return Center
}

// Normalize folds case, maps separators to spaces and collapses whitespace.
// Exposed for other packages that accept symbolic names.
func Normalize(s string) string {
	return normalize(s)
}

func normalize(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// column returns 0, 1 or 2 for left, centered and right alignment.
func (a Anchor) column() int {
	switch a {
	case TopLeft, Left, BottomLeft:
		return 0
	case TopRight, Right, BottomRight:
		return 2
	default:
		return 1
	}
}

// row returns 0, 1 or 2 for top, middle and bottom alignment.
func (a Anchor) row() int {
	switch a {
	case TopLeft, Top, TopRight:
		return 0
	case BottomLeft, Bottom, BottomRight:
		return 2
	default:
		return 1
	}
}

// Resolve returns the top-left coordinate at which a box must be placed so
// that it sits at the anchor of the canvas, displaced by offset.
func Resolve(anchor Anchor, canvas, box Size, offset Offset) Point {
	xs := [3]float64{
		float64(offset.X),
		float64(offset.X) + float64(canvas.Width)/2 - float64(box.Width)/2,
		float64(offset.X + canvas.Width - box.Width),
	}
	ys := [3]float64{
		float64(offset.Y),
		float64(offset.Y) + float64(canvas.Height)/2 - float64(box.Height)/2,
		float64(offset.Y + canvas.Height - box.Height),
	}
	return Point{X: xs[anchor.column()], Y: ys[anchor.row()]}
}

// ResolveString is Resolve with a free-form anchor name.
func ResolveString(anchor string, canvas, box Size, offset Offset) Point {
	return Resolve(ParseAnchor(anchor), canvas, box, offset)
}

// ToImaging maps the anchor onto the imaging package's anchor for crop and
// fill operations.
func (a Anchor) ToImaging() imaging.Anchor {
	switch a {
	case TopLeft:
		return imaging.TopLeft
	case Top:
		return imaging.Top
	case TopRight:
		return imaging.TopRight
	case Left:
		return imaging.Left
	case Right:
		return imaging.Right
	case BottomLeft:
		return imaging.BottomLeft
	case Bottom:
		return imaging.Bottom
	case BottomRight:
		return imaging.BottomRight
	default:
		return imaging.Center
	}
}
