package filters

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

func grayscale(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.Grayscale(img)
}

func invert(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.Invert(img)
}

func sepia(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clampByte(r*0.393 + g*0.769 + b*0.189),
			G: clampByte(r*0.349 + g*0.686 + b*0.168),
			B: clampByte(r*0.272 + g*0.534 + b*0.131),
			A: c.A,
		}
	})
}

// blur takes the gaussian sigma.
func blur(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.Blur(img, args[0])
}

// sharpen takes the gaussian sigma.
func sharpen(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.Sharpen(img, args[0])
}

// brightness takes a percentage in [-100, 100].
func brightness(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.AdjustBrightness(img, args[0])
}

// contrast takes a percentage in [-100, 100].
func contrast(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.AdjustContrast(img, args[0])
}

func gamma(img *image.NRGBA, args ...float64) *image.NRGBA {
	if args[0] <= 0 {
		return img
	}
	return imaging.AdjustGamma(img, args[0])
}

// saturation takes a percentage in [-100, 100].
func saturation(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.AdjustSaturation(img, args[0])
}

// colorize adds r, g and b in [-255, 255] to each channel. The fourth
// argument is a 7-bit alpha added to the pixel's transparency.
func colorize(img *image.NRGBA, args ...float64) *image.NRGBA {
	dr, dg, db, da := args[0], args[1], args[2], args[3]
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampByte(float64(c.R) + dr),
			G: clampByte(float64(c.G) + dg),
			B: clampByte(float64(c.B) + db),
			A: clampByte(float64(c.A) - da*255/127),
		}
	})
}

// pixelate takes the block size in pixels.
func pixelate(img *image.NRGBA, args ...float64) *image.NRGBA {
	size := int(args[0])
	b := img.Bounds()
	if size <= 1 || b.Empty() {
		return img
	}
	w := (b.Dx() + size - 1) / size
	h := (b.Dy() + size - 1) / size
	small := imaging.Resize(img, w, h, imaging.Box)
	return imaging.Resize(small, b.Dx(), b.Dy(), imaging.NearestNeighbor)
}

func edgeDetect(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		-1, 0, -1,
		0, 4, 0,
		-1, 0, -1,
	}, &imaging.ConvolveOptions{Bias: 127})
}

func emboss(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		1.5, 0, 0,
		0, 0, 0,
		0, 0, -1.5,
	}, &imaging.ConvolveOptions{Bias: 127})
}

func meanRemove(img *image.NRGBA, _ ...float64) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}, nil)
}

// smooth takes the weight of the center pixel.
func smooth(img *image.NRGBA, args ...float64) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		1, 1, 1,
		1, args[0], 1,
		1, 1, 1,
	}, &imaging.ConvolveOptions{Normalize: true})
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
