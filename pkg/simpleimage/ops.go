package simpleimage

import (
	"context"
	"fmt"
	"image"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/filters"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/textlayout"
)

// Overlay merges src onto the image at anchor plus offset. Opacity is a
// fraction (<= 1) or a percentage. The transparency of src is kept.
func (i *Image) Overlay(src image.Image, anchor placement.Anchor, offset placement.Offset, opacity float64) *Image {
	return i.apply("overlay", func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error) {
		result, err := i.env.overlay.Execute(ctx, pipeline.OverlayInput{
			Base:    img,
			Overlay: src,
			Anchor:  anchor,
			Offset:  offset,
			Opacity: opacity,
		})
		return result.Image, err
	})
}

// OverlayImage is Overlay with another Image. An error in other is carried
// over.
func (i *Image) OverlayImage(other *Image, anchor placement.Anchor, offset placement.Offset, opacity float64) *Image {
	if i.err == nil && other.err != nil {
		i.err = fmt.Errorf("overlay: %w", other.err)
		return i
	}
	return i.Overlay(other.img, anchor, offset, opacity)
}

// OverlayFile loads an image file and merges it like Overlay.
func (i *Image) OverlayFile(path string, anchor placement.Anchor, offset placement.Offset, opacity float64) *Image {
	if i.err != nil {
		return i
	}
	data, err := i.env.fs.ReadFile(path)
	if err != nil {
		i.err = fmt.Errorf("overlay %s: %w", path, err)
		return i
	}
	src := fromBytes(i.env, data)
	if src.err != nil {
		i.err = fmt.Errorf("overlay %s: %w", path, src.err)
		return i
	}
	return i.Overlay(src.img, anchor, offset, opacity)
}

// Text draws a wrapped text block. A zero opts.Width wraps to the image
// width. On error the image is left unchanged.
func (i *Image) Text(s string, opts textlayout.Options) *Image {
	return i.apply("text", func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error) {
		result, err := i.env.text.Execute(ctx, pipeline.TextInput{Base: img, Text: s, Options: opts})
		return result.Image, err
	})
}

// Filter applies filters in order.
func (i *Image) Filter(fs ...filters.Filter) *Image {
	return i.apply("filter", func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error) {
		result, err := i.env.filter.Execute(ctx, pipeline.FilterInput{Image: img, Filters: fs})
		return result.Image, err
	})
}

func (i *Image) Grayscale() *Image { return i.Filter(filters.New(filters.Grayscale)) }
func (i *Image) Invert() *Image    { return i.Filter(filters.New(filters.Invert)) }
func (i *Image) Sepia() *Image     { return i.Filter(filters.New(filters.Sepia)) }
func (i *Image) EdgeDetect() *Image {
	return i.Filter(filters.New(filters.EdgeDetect))
}
func (i *Image) Emboss() *Image { return i.Filter(filters.New(filters.Emboss)) }
func (i *Image) Sketch() *Image { return i.Filter(filters.New(filters.MeanRemove)) }

// Blur applies a gaussian blur with the given sigma.
func (i *Image) Blur(sigma float64) *Image { return i.Filter(filters.New(filters.Blur, sigma)) }

// Sharpen sharpens with the given sigma.
func (i *Image) Sharpen(sigma float64) *Image { return i.Filter(filters.New(filters.Sharpen, sigma)) }

// Brightness changes brightness by pct in [-100, 100].
func (i *Image) Brightness(pct float64) *Image {
	return i.Filter(filters.New(filters.Brightness, pct))
}

// Contrast changes contrast by pct in [-100, 100].
func (i *Image) Contrast(pct float64) *Image { return i.Filter(filters.New(filters.Contrast, pct)) }

// Pixelate replaces blocks of size pixels with their average.
func (i *Image) Pixelate(size int) *Image {
	return i.Filter(filters.New(filters.Pixelate, float64(size)))
}

// Colorize tints the image toward c.
func (i *Image) Colorize(c colorspec.Color) *Image {
	return i.Filter(filters.New(filters.Colorize, float64(c.R), float64(c.G), float64(c.B), float64(c.A)))
}

func (i *Image) transform(t pipeline.Transform) *Image {
	return i.apply(t.Kind.String(), func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error) {
		result, err := i.env.transform.Execute(ctx, pipeline.TransformInput{Image: img, Transforms: []pipeline.Transform{t}})
		return result.Image, err
	})
}

// Resize scales to width x height. A zero dimension keeps the aspect ratio.
func (i *Image) Resize(width, height int) *Image {
	return i.transform(pipeline.Transform{Kind: pipeline.TransformResize, Width: width, Height: height})
}

// BestFit scales down to fit within width x height keeping the aspect ratio.
func (i *Image) BestFit(width, height int) *Image {
	return i.transform(pipeline.Transform{Kind: pipeline.TransformFit, Width: width, Height: height})
}

// Thumbnail scales and crops to exactly width x height around anchor.
func (i *Image) Thumbnail(width, height int, anchor placement.Anchor) *Image {
	return i.transform(pipeline.Transform{Kind: pipeline.TransformFill, Width: width, Height: height, Anchor: anchor})
}

// Crop keeps the rectangle between two corners. Corners may be given in any
// order.
func (i *Image) Crop(x1, y1, x2, y2 int) *Image {
	r := image.Rect(x1, y1, x2, y2)
	return i.transform(pipeline.Transform{
		Kind: pipeline.TransformCrop, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
	})
}

// CropAnchor keeps a width x height rectangle around anchor.
func (i *Image) CropAnchor(width, height int, anchor placement.Anchor) *Image {
	return i.transform(pipeline.Transform{
		Kind: pipeline.TransformCrop, Width: width, Height: height, Anchor: anchor, Anchored: true,
	})
}

// Rotate rotates counter-clockwise by angle degrees, filling uncovered areas
// with bg.
func (i *Image) Rotate(angle float64, bg colorspec.Color) *Image {
	return i.transform(pipeline.Transform{Kind: pipeline.TransformRotate, Angle: angle, Background: bg})
}

// Flip mirrors along dir.
func (i *Image) Flip(dir pipeline.FlipDirection) *Image {
	return i.transform(pipeline.Transform{Kind: pipeline.TransformFlip, Direction: dir})
}

func (i *Image) shapes(s ...pipeline.Shape) *Image {
	return i.apply(s[0].Kind.String(), func(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error) {
		result, err := i.env.shape.Execute(ctx, pipeline.ShapeInput{Image: img, Shapes: s})
		return result.Image, err
	})
}

// Rectangle draws the rectangle between two corners. A positive thickness
// outlines it, otherwise it is filled.
func (i *Image) Rectangle(x1, y1, x2, y2 int, c colorspec.Color, thickness float64) *Image {
	r := image.Rect(x1, y1, x2, y2)
	return i.shapes(pipeline.Shape{
		Kind: pipeline.ShapeRectangle, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
		Thickness: thickness, Color: c,
	})
}

// RoundedRectangle fills the rectangle between two corners with rounded
// corners of radius.
func (i *Image) RoundedRectangle(x1, y1, x2, y2, radius int, c colorspec.Color) *Image {
	r := image.Rect(x1, y1, x2, y2)
	return i.shapes(pipeline.Shape{
		Kind: pipeline.ShapeRoundedRectangle, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
		Radius: radius, Color: c,
	})
}

// Line draws a line between two points.
func (i *Image) Line(x1, y1, x2, y2 int, c colorspec.Color, thickness float64) *Image {
	return i.shapes(pipeline.Shape{Kind: pipeline.ShapeLine, X: x1, Y: y1, X2: x2, Y2: y2, Thickness: thickness, Color: c})
}

// Ellipse draws an ellipse centered at (x, y) with the given diameters.
func (i *Image) Ellipse(x, y, width, height int, c colorspec.Color, thickness float64) *Image {
	return i.shapes(pipeline.Shape{
		Kind: pipeline.ShapeEllipse, X: x, Y: y, Width: width, Height: height, Thickness: thickness, Color: c,
	})
}

// Border draws a border of thickness pixels inside the image edges.
func (i *Image) Border(c colorspec.Color, thickness int) *Image {
	return i.shapes(pipeline.Shape{Kind: pipeline.ShapeBorder, Thickness: float64(thickness), Color: c})
}

// Fill paints the whole image with c.
func (i *Image) Fill(c colorspec.Color) *Image {
	return i.shapes(pipeline.Shape{Kind: pipeline.ShapeFill, Color: c})
}
