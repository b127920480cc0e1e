package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := imaging.New(w, h, c)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"simpleimage"}, args...))
	return out.String(), err
}

func openImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return img
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	writePNG(t, path, 40, 20, color.NRGBA{R: 255, A: 255})

	out, err := run(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "40x20 png") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestInfoCommand_MissingArgument(t *testing.T) {
	if _, err := run(t, "info"); err == nil {
		t.Error("expected error without arguments")
	}
}

func TestFilterCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 8, 8, color.NRGBA{R: 255, A: 255})

	if _, err := run(t, "filter", "-Q", "-o", out, in, "invert"); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	got := color.NRGBAModel.Convert(openImage(t, out).At(3, 3)).(color.NRGBA)
	if got.R != 0 || got.G != 255 || got.B != 255 {
		t.Errorf("expected inverted red to be cyan, got %v", got)
	}
}

func TestFilterCommand_UnknownFilter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 4, 4, color.NRGBA{A: 255})

	_, err := run(t, "filter", "-Q", "-o", filepath.Join(dir, "out.png"), in, "sparkle")
	if err == nil || !strings.Contains(err.Error(), "unknown filter") {
		t.Errorf("expected unknown filter error, got %v", err)
	}
}

func TestOverlayCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.png")
	logo := filepath.Join(dir, "logo.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, base, 20, 20, color.NRGBA{A: 255})
	writePNG(t, logo, 5, 5, color.NRGBA{G: 255, A: 255})

	if _, err := run(t, "overlay", "-Q", "-o", out, "-a", "bottom right", base, logo); err != nil {
		t.Fatalf("overlay failed: %v", err)
	}

	img := openImage(t, out)
	if got := color.NRGBAModel.Convert(img.At(17, 17)).(color.NRGBA); got.G != 255 {
		t.Errorf("expected overlay at bottom right, got %v", got)
	}
	if got := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA); got.G != 0 {
		t.Errorf("expected top left untouched, got %v", got)
	}
}

func TestTextCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 120, 40, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	_, err := run(t, "text", "-Q", "-o", out, "-s", "16", "-c", "#000000", "--align", "center", in, "Hello")
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}

	img := openImage(t, out)
	dark := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA); c.R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected text pixels in output")
	}
}

func TestTextCommand_BadColor(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 10, 10, color.NRGBA{A: 255})

	if _, err := run(t, "text", "-Q", "-o", filepath.Join(dir, "o.png"), "-c", "nope", in, "x"); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 40, 30, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	recipe := filepath.Join(dir, "recipe.yaml")
	yaml := "operations:\n" +
		"  - type: resize\n    width: 20\n" +
		"  - type: filter\n    filters: [grayscale]\n"
	if err := os.WriteFile(recipe, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "run", "-Q", "-i", in, "-o", out, recipe); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img := openImage(t, out)
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 15 {
		t.Errorf("expected 20x15, got %v", img.Bounds())
	}
	c := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA)
	if c.R != c.G || c.G != c.B {
		t.Errorf("expected gray pixel, got %v", c)
	}
}

func TestRunCommand_MissingOutput(t *testing.T) {
	dir := t.TempDir()
	recipe := filepath.Join(dir, "recipe.yaml")
	if err := os.WriteFile(recipe, []byte("input: a.png\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "run", "-Q", recipe); err == nil {
		t.Error("expected error when recipe has no output")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	for _, name := range []string{"a.png", "b.png"} {
		writePNG(t, filepath.Join(dir, name), 10, 10, color.NRGBA{B: 255, A: 255})
	}
	recipe := filepath.Join(dir, "recipe.yaml")
	if err := os.WriteFile(recipe, []byte("operations:\n  - type: flip\n    direction: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	summary := filepath.Join(dir, "summary.md")

	_, err := run(t, "batch", "-Q", "--output-dir", outDir, "--summary", summary, "-w", "2",
		recipe, filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	for _, name := range []string{"a.png", "b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s in output dir: %v", name, err)
		}
	}
	data, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("expected summary file: %v", err)
	}
	if !strings.Contains(string(data), "flip") {
		t.Errorf("expected recipe operations in summary, got %q", data)
	}
}
