package pipeline

import (
	"image"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/filters"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/textlayout"
)

// =============================================================================
// Overlay Stage Types
// =============================================================================

// OverlayInput places one raster on top of another.
type OverlayInput struct {
	Base    image.Image
	Overlay image.Image
	Anchor  placement.Anchor
	Offset  placement.Offset
	// Opacity is a fraction (<= 1) or a percentage.
	Opacity float64
}

// OverlayResult contains the merged raster.
type OverlayResult struct {
	Image *image.NRGBA
	// Position is the resolved top-left corner of the overlay.
	Position image.Point
	// Region is the part of the output actually merged. It is empty when the
	// overlay fell outside the base.
	Region image.Rectangle
}

// =============================================================================
// Text Stage Types
// =============================================================================

// TextInput draws a text block onto a base raster.
type TextInput struct {
	Base    image.Image
	Text    string
	Options textlayout.Options
}

// TextResult contains the annotated raster.
type TextResult struct {
	Image *image.NRGBA
	// Block is where the rendered block was placed, before clipping.
	Block image.Rectangle
}

// =============================================================================
// Filter Stage Types
// =============================================================================

// FilterInput applies a filter chain.
type FilterInput struct {
	Image   image.Image
	Filters filters.Chain
}

// FilterResult contains the filtered raster.
type FilterResult struct {
	Image   *image.NRGBA
	Applied []string
}

// =============================================================================
// Transform Stage Types
// =============================================================================

// TransformKind identifies a geometric transform.
type TransformKind int

const (
	// TransformResize scales to Width x Height. A zero dimension keeps the
	// aspect ratio.
	TransformResize TransformKind = iota
	// TransformFit scales down to fit within Width x Height.
	TransformFit
	// TransformFill scales and crops to exactly Width x Height around Anchor.
	TransformFill
	// TransformCrop cuts the rectangle at (X, Y) of Width x Height, or around
	// Anchor when Anchored is set.
	TransformCrop
	// TransformRotate rotates counter-clockwise by Angle degrees, filling
	// uncovered areas with Background.
	TransformRotate
	// TransformFlip mirrors along Direction.
	TransformFlip
)

// FlipDirection selects a mirror axis.
type FlipDirection int

const (
	FlipHorizontal FlipDirection = iota
	FlipVertical
	FlipBoth
)

// Transform is one geometric operation.
type Transform struct {
	Kind       TransformKind
	Width      int
	Height     int
	X          int
	Y          int
	Anchor     placement.Anchor
	Anchored   bool
	Angle      float64
	Background colorspec.Color
	Direction  FlipDirection
}

// TransformInput applies transforms in order.
type TransformInput struct {
	Image      image.Image
	Transforms []Transform
}

// TransformResult contains the transformed raster.
type TransformResult struct {
	Image *image.NRGBA
}

// =============================================================================
// Shape Stage Types
// =============================================================================

// ShapeKind identifies a drawing primitive.
type ShapeKind int

const (
	// ShapeRectangle covers (X, Y) to (X+Width, Y+Height).
	ShapeRectangle ShapeKind = iota
	// ShapeRoundedRectangle is a rectangle with corners of Radius.
	ShapeRoundedRectangle
	// ShapeLine joins (X, Y) and (X2, Y2).
	ShapeLine
	// ShapeEllipse is centered on (X, Y) with Width and Height diameters.
	ShapeEllipse
	// ShapeBorder outlines the whole image with Thickness.
	ShapeBorder
	// ShapeFill paints the whole image.
	ShapeFill
)

// Shape is one drawing primitive. A zero Thickness fills closed shapes.
type Shape struct {
	Kind      ShapeKind
	X, Y      int
	X2, Y2    int
	Width     int
	Height    int
	Radius    int
	Thickness float64
	Color     colorspec.Color
}

// ShapeInput draws shapes onto a raster.
type ShapeInput struct {
	Image  image.Image
	Shapes []Shape
}

// ShapeResult contains the drawn raster.
type ShapeResult struct {
	Image *image.NRGBA
}

// String returns the transform name used in recipes and logs.
func (k TransformKind) String() string {
	switch k {
	case TransformResize:
		return "resize"
	case TransformFit:
		return "fit"
	case TransformFill:
		return "fill"
	case TransformCrop:
		return "crop"
	case TransformRotate:
		return "rotate"
	case TransformFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// String returns the shape name used in recipes and logs.
func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "rectangle"
	case ShapeRoundedRectangle:
		return "rounded rectangle"
	case ShapeLine:
		return "line"
	case ShapeEllipse:
		return "ellipse"
	case ShapeBorder:
		return "border"
	case ShapeFill:
		return "fill"
	default:
		return "unknown"
	}
}
