package textlayout

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/simpleimage/pkg/placement"
)

// Mode is a horizontal alignment mode.
type Mode int

const (
	Left Mode = iota
	Center
	Right
	Justify
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Center:
		return "center"
	case Right:
		return "right"
	case Justify:
		return "justify"
	default:
		return "left"
	}
}

// ParseMode parses an alignment name. Unknown names yield Left.
func ParseMode(s string) Mode {
	switch placement.Normalize(s) {
	case "center", "centre", "middle":
		return Center
	case "right":
		return Right
	case "justify", "justified", "full":
		return Justify
	default:
		return Left
	}
}

// anchor maps a simple mode onto the top row of the placement grid.
func (m Mode) anchor() placement.Anchor {
	switch m {
	case Center:
		return placement.Top
	case Right:
		return placement.TopRight
	default:
		return placement.TopLeft
	}
}

// Block describes the geometry shared by all lines of a text block.
type Block struct {
	// Width is the wrap width in pixels.
	Width float64
	// FontSize is the font size in points.
	FontSize float64
	// Leading is extra space between lines in pixels. It may be negative
	// down to minus the pixel font size.
	Leading float64
	Mode    Mode
}

// FontSizePx converts the point size to pixels at 96 DPI.
func (b Block) FontSizePx() float64 {
	return b.FontSize / 0.75
}

// LineHeight is the distance between consecutive line tops.
func (b Block) LineHeight() float64 {
	px := b.FontSizePx()
	return px*1.2 + math.Max(b.Leading, -px)
}

// Height is the height of a block of n lines.
func (b Block) Height(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n-1)*b.LineHeight() + b.FontSizePx()*1.2
}

func (b Block) validate() error {
	if b.Width <= 0 {
		return fmt.Errorf("%w: width %v", ErrInvalidLayout, b.Width)
	}
	if b.FontSize <= 0 {
		return fmt.Errorf("%w: font size %v", ErrInvalidLayout, b.FontSize)
	}
	return nil
}

// Run is a piece of text at its top-left position inside the block.
type Run struct {
	Text  string
	X     float64
	Y     float64
	Width float64
	Line  int
}

// Layout positions wrapped lines inside the block. Simple modes produce one
// run per line; Justify produces one run per word except on the last line
// of a paragraph, which is emitted whole at x=0.
func Layout(lines []Line, block Block, measure MeasureFunc) ([]Run, error) {
	if err := block.validate(); err != nil {
		return nil, err
	}

	canvas := placement.Size{
		Width:  int(math.Round(block.Width)),
		Height: int(math.Ceil(block.Height(len(lines)))),
	}

	var runs []Run
	for i, line := range lines {
		y := float64(i) * block.LineHeight()

		if block.Mode == Justify && !line.LastOfParagraph {
			justified, err := justifyLine(line.Text, i, y, block.Width, measure)
			if err != nil {
				return nil, err
			}
			runs = append(runs, justified...)
			continue
		}

		text := line.Text
		mode := block.Mode
		if mode == Justify {
			mode = Left
		}
		if mode == Center {
			text = strings.TrimSpace(text)
		}
		if text == "" {
			continue
		}

		w, err := measure(text)
		if err != nil {
			return nil, fmt.Errorf("measure line %d: %w", i, err)
		}
		box := placement.Size{Width: int(math.Ceil(w))}
		pt := placement.Resolve(mode.anchor(), canvas, box, placement.Offset{})
		runs = append(runs, Run{Text: text, X: pt.X, Y: y, Width: w, Line: i})
	}
	return runs, nil
}

func justifyLine(text string, index int, y, width float64, measure MeasureFunc) ([]Run, error) {
	words := Words(text)
	if len(words) == 0 {
		return nil, nil
	}

	widths := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w, err := measure(word)
		if err != nil {
			return nil, fmt.Errorf("measure word %q: %w", word, err)
		}
		widths[i] = w
		total += w
	}

	spacing := 0.0
	if len(words) > 1 {
		spacing = (width - total) / float64(len(words)-1)
	}

	runs := make([]Run, len(words))
	x := 0.0
	for i, word := range words {
		runs[i] = Run{Text: word, X: x, Y: y, Width: widths[i], Line: index}
		x += widths[i] + spacing
	}
	return runs, nil
}
