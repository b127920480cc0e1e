// Package colorspec normalizes the different ways callers describe a color
// into one canonical record.
//
// The canonical Color keeps alpha in the legacy 7-bit convention used by the
// compositor: 0 is fully opaque and 127 is fully transparent. Conversion to
// Go's 8-bit straight alpha happens only at the image.Image boundary:
//
//	a8 = 255 - round(a7*255/127)
//	a7 = 127 - (a8 >> 1)
package colorspec

import (
	"fmt"
	"image/color"
	"strings"
)

const (
	// AlphaOpaque is the 7-bit alpha of a fully opaque pixel.
	AlphaOpaque = 0
	// AlphaTransparent is the 7-bit alpha of a fully transparent pixel.
	AlphaTransparent = 127
)

// Color is the canonical color record. A is in the 0 (opaque) to 127
// (transparent) range.
type Color struct {
	R, G, B uint8
	A       uint8
}

var (
	// Black is opaque black.
	Black = Color{}
	// White is opaque white.
	White = Color{R: 255, G: 255, B: 255}
	// Transparent is fully transparent black.
	Transparent = Color{A: AlphaTransparent}
)

// NRGBA converts the color to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: AlphaTo8(int(c.A))}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	if c.A == AlphaOpaque {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, AlphaTo8(int(c.A)))
}

// FromColor converts any color.Color into the canonical record.
func FromColor(c color.Color) Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: uint8(AlphaFrom8(n.A))}
}

// AlphaTo8 converts a 7-bit alpha (0 opaque) to 8-bit alpha (255 opaque).
// Out-of-range input is clamped.
func AlphaTo8(a7 int) uint8 {
	a7 = clamp(a7, AlphaOpaque, AlphaTransparent)
	return uint8(255 - (a7*255+63)/127)
}

// AlphaFrom8 converts an 8-bit alpha (255 opaque) to 7-bit alpha (0 opaque).
func AlphaFrom8(a8 uint8) int {
	return AlphaTransparent - int(a8>>1)
}

type kind int

const (
	kindHex kind = iota
	kindRGB
	kindRGBA
	kindGD
)

// Spec is an unnormalized color description. Build one with FromHex, FromRGB,
// FromRGBA or FromGD, then call Normalize.
type Spec struct {
	kind    kind
	hex     string
	r, g, b int
	opacity float64
	alpha   int
}

// FromHex describes a color as #rgb, #rgba, #rrggbb or #rrggbbaa. The
// leading # is optional.
func FromHex(hex string) Spec {
	return Spec{kind: kindHex, hex: hex}
}

// FromRGB describes an opaque color from 0-255 channels.
func FromRGB(r, g, b int) Spec {
	return Spec{kind: kindRGB, r: r, g: g, b: b}
}

// FromRGBA describes a color from 0-255 channels and an opacity fraction
// where 1.0 is opaque and 0.0 is transparent.
func FromRGBA(r, g, b int, opacity float64) Spec {
	return Spec{kind: kindRGBA, r: r, g: g, b: b, opacity: opacity}
}

// FromGD describes a color from 0-255 channels and a 7-bit alpha where 0 is
// opaque and 127 is transparent.
func FromGD(r, g, b, alpha int) Spec {
	return Spec{kind: kindGD, r: r, g: g, b: b, alpha: alpha}
}

// Normalize produces the canonical record. Channels are clamped to their
// valid ranges; a malformed hex string yields opaque black.
func (s Spec) Normalize() Color {
	switch s.kind {
	case kindHex:
		c, err := parseHex(s.hex)
		if err != nil {
			return Black
		}
		return c
	case kindRGBA:
		opacity := s.opacity
		if opacity < 0 {
			opacity = 0
		}
		if opacity > 1 {
			opacity = 1
		}
		a := AlphaTransparent - int(opacity*AlphaTransparent+0.5)
		return Color{R: channel(s.r), G: channel(s.g), B: channel(s.b), A: uint8(a)}
	case kindGD:
		return Color{R: channel(s.r), G: channel(s.g), B: channel(s.b), A: uint8(clamp(s.alpha, AlphaOpaque, AlphaTransparent))}
	default:
		return Color{R: channel(s.r), G: channel(s.g), B: channel(s.b)}
	}
}

// Parse parses a color string strictly. It accepts the hex forms of FromHex
// and the keyword "transparent".
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return Transparent, nil
	}
	return parseHex(s)
}

// MustParse is like Parse but panics on malformed input. Intended for
// package-level defaults.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(hex string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	// Expand shorthand forms (#rgb, #rgba)
	if len(raw) == 3 || len(raw) == 4 {
		var b strings.Builder
		for i := 0; i < len(raw); i++ {
			b.WriteByte(raw[i])
			b.WriteByte(raw[i])
		}
		raw = b.String()
	}

	if len(raw) != 6 && len(raw) != 8 {
		return Black, fmt.Errorf("invalid hex color %q", hex)
	}

	var v [4]uint8
	v[3] = 255
	for i := 0; i < len(raw)/2; i++ {
		hi, ok1 := hexValue(raw[i*2])
		lo, ok2 := hexValue(raw[i*2+1])
		if !ok1 || !ok2 {
			return Black, fmt.Errorf("invalid hex color %q", hex)
		}
		v[i] = hi<<4 | lo
	}

	return Color{R: v[0], G: v[1], B: v[2], A: uint8(AlphaFrom8(v[3]))}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func channel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
