// Package compositor merges a source raster onto a destination raster while
// keeping the source's per-pixel transparency.
//
// A plain opacity blend flattens partially transparent pixels and an
// overwrite destroys the destination's transparency. Merge instead rescales
// each source pixel's alpha relative to the most opaque pixel in the merged
// region and then composites with the Porter-Duff over operator.
package compositor

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/placement"
)

// NormalizeOpacity maps an opacity given either as a fraction (<= 1) or as
// a percentage onto an integer percentage in [0, 100].
func NormalizeOpacity(v float64) int {
	if v <= 1 {
		v *= 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// Region is the clipped rectangle pair a merge operates on.
type Region struct {
	Dst image.Rectangle
	Src image.Rectangle
}

// Empty reports whether nothing would be merged.
func (r Region) Empty() bool {
	return r.Dst.Empty()
}

// Clip computes the overlapping region of a size-sized copy from src at
// srcPt to dst at dstPt. Out-of-bounds parts are dropped silently; negative
// offsets shift both origins together.
func Clip(dstBounds, srcBounds image.Rectangle, dstPt, srcPt image.Point, size placement.Size) Region {
	if size.Empty() {
		return Region{}
	}

	// Absolute rectangles in each image's coordinate space
	dstRect := image.Rect(0, 0, size.Width, size.Height).Add(dstBounds.Min).Add(dstPt)
	srcRect := image.Rect(0, 0, size.Width, size.Height).Add(srcBounds.Min).Add(srcPt)

	// Move everything into a common frame anchored at the destination
	delta := dstRect.Min.Sub(srcRect.Min)
	common := dstRect.Intersect(dstBounds).Intersect(srcRect.Intersect(srcBounds).Add(delta))
	if common.Empty() {
		return Region{}
	}

	return Region{Dst: common, Src: common.Sub(delta)}
}

// MinAlpha returns the smallest 7-bit alpha in the region of src, i.e. the
// alpha of its most opaque pixel. An empty region reports fully transparent.
func MinAlpha(src image.Image, r image.Rectangle) int {
	minAlpha := colorspec.AlphaTransparent
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := alphaAt(src, x, y)
			if a < minAlpha {
				minAlpha = a
				if minAlpha == colorspec.AlphaOpaque {
					return minAlpha
				}
			}
		}
	}
	return minAlpha
}

// ScaleAlpha rescales one 7-bit alpha for the given opacity percentage and
// region minimum. The result is clamped to [0, 127] and truncated.
func ScaleAlpha(alpha, minAlpha, opacity int) int {
	pct := float64(opacity) / 100
	var v float64
	if minAlpha != colorspec.AlphaTransparent {
		v = 127 + 127*pct*float64(alpha-127)/float64(127-minAlpha)
	} else {
		v = float64(alpha) + 127*pct
	}
	if v < 0 {
		v = 0
	}
	if v > colorspec.AlphaTransparent {
		v = colorspec.AlphaTransparent
	}
	return int(v)
}

// MergeInto merges size pixels of src starting at srcPt into dst at dstPt
// with the given opacity percentage. dst is modified in place.
func MergeInto(dst draw.Image, src image.Image, dstPt, srcPt image.Point, size placement.Size, opacity int) {
	if dst == nil || src == nil {
		return
	}
	region := Clip(dst.Bounds(), src.Bounds(), dstPt, srcPt, size)
	if region.Empty() {
		return
	}

	minAlpha := MinAlpha(src, region.Src)
	if opacity <= 0 || minAlpha == colorspec.AlphaTransparent {
		// Nothing in the source can contribute
		return
	}

	scratch := rescaled(src, region.Src, minAlpha, opacity)
	draw.Draw(dst, region.Dst, scratch, image.Point{}, draw.Over)
}

// Merge is the pure form of MergeInto: it returns a new raster holding dst
// with src merged in and leaves both inputs untouched.
func Merge(dst, src image.Image, dstPt, srcPt image.Point, size placement.Size, opacity int) *image.NRGBA {
	out := clone(dst)
	MergeInto(out, src, dstPt, srcPt, size, opacity)
	return out
}

// Overlay merges the whole of src onto dst with its top-left at pt.
func Overlay(dst, src image.Image, pt image.Point, opacity int) *image.NRGBA {
	return Merge(dst, src, pt, image.Point{}, placement.SizeOf(src), opacity)
}

// rescaled copies the region of src into a zero-origin scratch raster with
// alpha rescaled for opacity.
func rescaled(src image.Image, r image.Rectangle, minAlpha, opacity int) *image.NRGBA {
	scratch := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			a := ScaleAlpha(colorspec.AlphaFrom8(c.A), minAlpha, opacity)
			c.A = colorspec.AlphaTo8(a)
			scratch.SetNRGBA(x-r.Min.X, y-r.Min.Y, c)
		}
	}
	return scratch
}

func alphaAt(img image.Image, x, y int) int {
	if n, ok := img.(*image.NRGBA); ok {
		return colorspec.AlphaFrom8(n.NRGBAAt(x, y).A)
	}
	_, _, _, a := img.At(x, y).RGBA()
	return colorspec.AlphaFrom8(uint8(a >> 8))
}

// clone copies img into a zero-origin NRGBA raster.
func clone(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
