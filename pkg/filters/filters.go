// Package filters applies named color and convolution effects to rasters.
//
// Built-in filters are a closed set of kinds. Callers that need something
// else wrap a function with Custom.
package filters

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/user/simpleimage/pkg/placement"
)

// ErrUnknownFilter is returned for filter names that are not built in.
var ErrUnknownFilter = errors.New("unknown filter")

// Kind identifies a built-in filter.
type Kind int

const (
	KindCustom Kind = iota
	Grayscale
	Invert
	Sepia
	Blur
	Sharpen
	Brightness
	Contrast
	Gamma
	Saturation
	Colorize
	Pixelate
	EdgeDetect
	Emboss
	MeanRemove
	Smooth
)

// Func is the signature of a filter implementation. It must not modify img.
type Func func(img *image.NRGBA, args ...float64) *image.NRGBA

type definition struct {
	name     string
	aliases  []string
	defaults []float64
	apply    Func
}

var definitions = map[Kind]definition{
	Grayscale:  {name: "grayscale", aliases: []string{"greyscale", "desaturate"}, apply: grayscale},
	Invert:     {name: "invert", aliases: []string{"negate"}, apply: invert},
	Sepia:      {name: "sepia", apply: sepia},
	Blur:       {name: "blur", aliases: []string{"gaussian blur"}, defaults: []float64{1}, apply: blur},
	Sharpen:    {name: "sharpen", defaults: []float64{1}, apply: sharpen},
	Brightness: {name: "brightness", defaults: []float64{0}, apply: brightness},
	Contrast:   {name: "contrast", defaults: []float64{0}, apply: contrast},
	Gamma:      {name: "gamma", defaults: []float64{1}, apply: gamma},
	Saturation: {name: "saturation", defaults: []float64{0}, apply: saturation},
	Colorize:   {name: "colorize", defaults: []float64{0, 0, 0, 0}, apply: colorize},
	Pixelate:   {name: "pixelate", defaults: []float64{8}, apply: pixelate},
	EdgeDetect: {name: "edge detect", aliases: []string{"edges", "edgedetect"}, apply: edgeDetect},
	Emboss:     {name: "emboss", apply: emboss},
	MeanRemove: {name: "mean remove", aliases: []string{"sketch", "meanremove"}, apply: meanRemove},
	Smooth:     {name: "smooth", defaults: []float64{8}, apply: smooth},
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind)
	for k, d := range definitions {
		m[d.name] = k
		for _, a := range d.aliases {
			m[a] = k
		}
	}
	return m
}()

// String returns the canonical filter name.
func (k Kind) String() string {
	if d, ok := definitions[k]; ok {
		return d.name
	}
	return "custom"
}

// ParseKind resolves a filter name. Case is ignored and "-" or "_" match
// spaces.
func ParseKind(name string) (Kind, error) {
	if k, ok := byName[placement.Normalize(name)]; ok {
		return k, nil
	}
	return KindCustom, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// Filter is one configured filter.
type Filter struct {
	Kind Kind
	Args []float64

	name string
	fn   Func
}

// New creates a built-in filter. Missing arguments take the kind's defaults.
func New(kind Kind, args ...float64) Filter {
	return Filter{Kind: kind, Args: args}
}

// Custom wraps a caller-supplied function.
func Custom(name string, fn Func, args ...float64) Filter {
	return Filter{Kind: KindCustom, Args: args, name: name, fn: fn}
}

// Parse parses "name" or "name:arg,arg,...", e.g. "blur:2" or
// "colorize:255,0,0,0".
func Parse(s string) (Filter, error) {
	name, rawArgs, _ := strings.Cut(s, ":")
	kind, err := ParseKind(name)
	if err != nil {
		return Filter{}, err
	}

	var args []float64
	if strings.TrimSpace(rawArgs) != "" {
		for _, raw := range strings.Split(rawArgs, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return Filter{}, fmt.Errorf("filter %s: argument %q: %w", kind, raw, err)
			}
			args = append(args, v)
		}
	}
	return New(kind, args...), nil
}

// Name returns the filter's display name.
func (f Filter) Name() string {
	if f.Kind == KindCustom && f.name != "" {
		return f.name
	}
	return f.Kind.String()
}

// Apply runs the filter on img and returns a new raster.
func (f Filter) Apply(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)

	if f.Kind == KindCustom {
		if f.fn == nil {
			return nil, fmt.Errorf("%w: custom filter %q has no function", ErrUnknownFilter, f.name)
		}
		return f.fn(src, f.Args...), nil
	}

	d, ok := definitions[f.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownFilter, int(f.Kind))
	}
	return d.apply(src, withDefaults(f.Args, d.defaults)...), nil
}

// Chain applies filters in order.
type Chain []Filter

// Apply runs every filter in order and returns the final raster.
func (c Chain) Apply(img image.Image) (*image.NRGBA, error) {
	out := imaging.Clone(img)
	for i, f := range c {
		next, err := f.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, f.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Names returns the filter names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return names
}

func withDefaults(args, defaults []float64) []float64 {
	if len(args) >= len(defaults) {
		return args
	}
	out := make([]float64, len(defaults))
	copy(out, defaults)
	copy(out, args)
	return out
}
