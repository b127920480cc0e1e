package textlayout

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// mono measures 10px per rune.
func mono(s string) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * 10, nil
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestWrap_TwoWordsPerLine(t *testing.T) {
	lines, err := Wrap("aaaa bbbb cccc", 100, mono)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), texts(lines))
	}
	if lines[0].Text != "aaaa bbbb" || lines[1].Text != "cccc" {
		t.Errorf("unexpected lines: %q", texts(lines))
	}
	if lines[0].LastOfParagraph {
		t.Error("expected first line not to end the paragraph")
	}
	if !lines[1].LastOfParagraph {
		t.Error("expected second line to end the paragraph")
	}
}

func TestWrap_ShortTextIsSingleLine(t *testing.T) {
	lines, err := Wrap("hello world", 500, mono)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "hello world" || !lines[0].LastOfParagraph {
		t.Errorf("unexpected line: %+v", lines[0])
	}
}

func TestWrap_WidthBound(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog while a supercalifragilistic word tries to escape"

	for maxWidth := 30.0; maxWidth <= 400; maxWidth += 17 {
		lines, err := Wrap(text, maxWidth, mono)
		if err != nil {
			t.Fatalf("Wrap(%v) failed: %v", maxWidth, err)
		}
		for _, line := range lines {
			if len(Words(line.Text)) == 1 {
				continue
			}
			w, _ := mono(line.Text)
			if w >= maxWidth {
				t.Errorf("width %v: line %q is %v wide", maxWidth, line.Text, w)
			}
		}
		if got := strings.Join(texts(lines), " "); got != text {
			t.Errorf("width %v: words lost or reordered: %q", maxWidth, got)
		}
	}
}

func TestWrap_HardBreaks(t *testing.T) {
	lines, err := Wrap("one\r\ntwo\rthree\n\nfour", 1000, mono)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	expected := []Line{
		{Text: "one", LastOfParagraph: true},
		{Text: "two", LastOfParagraph: true},
		{Text: "three", LastOfParagraph: true},
		{Text: "", LastOfParagraph: true},
		{Text: "four", LastOfParagraph: true},
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %q", len(expected), len(lines), texts(lines))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d: expected %+v, got %+v", i, expected[i], lines[i])
		}
	}
}

func TestWrap_KeepsLeadingSpaces(t *testing.T) {
	lines, err := Wrap("  indented text  ", 1000, mono)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if lines[0].Text != "  indented text" {
		t.Errorf("expected leading spaces kept and trailing trimmed, got %q", lines[0].Text)
	}
}

func TestWrap_OverlongWordGetsOwnLine(t *testing.T) {
	lines, err := Wrap("hi abcdefghijkl yo", 50, mono)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	got := texts(lines)
	expected := []string{"hi", "abcdefghijkl", "yo"}
	if strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestWrap_InvalidWidth(t *testing.T) {
	for _, w := range []float64{0, -10} {
		if _, err := Wrap("text", w, mono); !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("width %v: expected ErrInvalidLayout, got %v", w, err)
		}
	}
}

func TestWrap_PropagatesMeasureError(t *testing.T) {
	boom := errors.New("boom")
	failing := func(string) (float64, error) { return 0, boom }

	if _, err := Wrap("two words", 100, failing); !errors.Is(err, boom) {
		t.Errorf("expected measure error, got %v", err)
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a b  c", []string{"a", "b", "c"}},
		{"   lead", []string{"   lead"}},
		{"  two words", []string{"  two", "words"}},
		{"", nil},
		{"   ", []string{"   "}},
	}
	for _, tt := range tests {
		got := Words(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.expected, "|") || len(got) != len(tt.expected) {
			t.Errorf("Words(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}
