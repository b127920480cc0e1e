// Package textlayout wraps text to a pixel width, lays lines out in one of
// four alignment modes and renders the block into a scratch raster that is
// then placed and merged onto a destination.
package textlayout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLayout is returned for a non-positive width or font size.
var ErrInvalidLayout = errors.New("invalid text layout")

// MeasureFunc returns the pixel width of text.
type MeasureFunc func(text string) (float64, error)

// Line is one wrapped line.
type Line struct {
	Text string
	// LastOfParagraph is set on the final line before a hard break and on
	// the final line of the text. Justify leaves these lines ragged.
	LastOfParagraph bool
}

// Wrap breaks text into lines no wider than maxWidth using greedy filling.
//
// Hard breaks (\r\n, \r, \n) always end a line. Leading spaces of a line are
// kept with its first word. A single word wider than maxWidth gets a line of
// its own and is not split.
func Wrap(text string, maxWidth float64, measure MeasureFunc) ([]Line, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("%w: width %v", ErrInvalidLayout, maxWidth)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []Line
	for _, paragraph := range strings.Split(text, "\n") {
		wrapped, err := wrapParagraph(paragraph, maxWidth, measure)
		if err != nil {
			return nil, err
		}
		wrapped[len(wrapped)-1].LastOfParagraph = true
		lines = append(lines, wrapped...)
	}
	return lines, nil
}

func wrapParagraph(paragraph string, maxWidth float64, measure MeasureFunc) ([]Line, error) {
	var lines []Line
	current := ""
	for _, word := range Words(paragraph) {
		if current == "" {
			// A word wider than maxWidth still opens its own line rather than leaving an empty one
			current = word + " "
			continue
		}
		w, err := measure(current + word)
		if err != nil {
			return nil, fmt.Errorf("measure line: %w", err)
		}
		if w < maxWidth {
			current += word + " "
			continue
		}
		lines = append(lines, Line{Text: strings.TrimRight(current, " ")})
		current = word + " "
	}
	return append(lines, Line{Text: strings.TrimRight(current, " ")}), nil
}

// Words splits a line on runs of spaces. Leading spaces are prepended to the
// first word.
func Words(line string) []string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	words := strings.Fields(trimmed)
	if len(words) == 0 {
		if indent != "" {
			return []string{indent}
		}
		return nil
	}
	words[0] = indent + words[0]
	return words
}
