package transform

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/mocks"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
)

// quadrants returns an image whose left half is red and right half blue.
func quadrants(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func newStage() (*Stage, *mocks.Renderer) {
	renderer := &mocks.Renderer{}
	return NewStage(renderer, mocks.NewLogger()), renderer
}

func run(t *testing.T, stage *Stage, img image.Image, transforms ...pipeline.Transform) *image.NRGBA {
	t.Helper()
	result, err := stage.Execute(context.Background(), pipeline.TransformInput{Image: img, Transforms: transforms})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return result.Image
}

func TestAspectSize(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		w, h       int
		wantW      int
		wantH      int
	}{
		{"width only", 200, 100, 50, 0, 50, 25},
		{"height only", 200, 100, 0, 50, 100, 50},
		{"both", 200, 100, 30, 30, 30, 30},
		{"tiny clamps to one", 1000, 10, 10, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := AspectSize(tt.srcW, tt.srcH, tt.w, tt.h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}

	if _, _, err := AspectSize(10, 10, 0, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize for 0x0, got %v", err)
	}
	if _, _, err := AspectSize(10, 10, -1, 5); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize for negative width, got %v", err)
	}
}

func TestStage_Resize(t *testing.T) {
	stage, renderer := newStage()

	var gotW, gotH int
	renderer.ResizeImageFunc = func(img image.Image, width, height int) image.Image {
		gotW, gotH = width, height
		return image.NewNRGBA(image.Rect(0, 0, width, height))
	}

	out := run(t, stage, quadrants(200, 100), pipeline.Transform{Kind: pipeline.TransformResize, Width: 50})
	if gotW != 50 || gotH != 25 {
		t.Errorf("expected renderer resize to 50x25, got %dx%d", gotW, gotH)
	}
	if out.Bounds() != image.Rect(0, 0, 50, 25) {
		t.Errorf("unexpected bounds %v", out.Bounds())
	}
}

func TestStage_Fit(t *testing.T) {
	stage, _ := newStage()
	out := run(t, stage, quadrants(200, 100), pipeline.Transform{Kind: pipeline.TransformFit, Width: 50, Height: 50})
	if out.Bounds() != image.Rect(0, 0, 50, 25) {
		t.Errorf("unexpected bounds %v", out.Bounds())
	}
}

func TestStage_Fill(t *testing.T) {
	stage, _ := newStage()
	out := run(t, stage, quadrants(200, 100), pipeline.Transform{
		Kind: pipeline.TransformFill, Width: 40, Height: 40, Anchor: placement.Left,
	})
	if out.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.NRGBAAt(20, 20); got.R < 200 || got.B > 50 {
		t.Errorf("expected left anchored fill to keep red, got %v", got)
	}
}

func TestStage_Crop(t *testing.T) {
	stage, _ := newStage()

	out := run(t, stage, quadrants(100, 50), pipeline.Transform{
		Kind: pipeline.TransformCrop, X: 60, Y: 10, Width: 20, Height: 20,
	})
	if out.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.NRGBAAt(5, 5); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("expected blue crop, got %v", got)
	}

	out = run(t, stage, quadrants(100, 50), pipeline.Transform{
		Kind: pipeline.TransformCrop, Width: 20, Height: 20, Anchor: placement.TopLeft, Anchored: true,
	})
	if got := out.NRGBAAt(5, 5); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("expected red anchored crop, got %v", got)
	}
}

func TestStage_CropOutside(t *testing.T) {
	stage, _ := newStage()
	_, err := stage.Execute(context.Background(), pipeline.TransformInput{
		Image:      quadrants(10, 10),
		Transforms: []pipeline.Transform{{Kind: pipeline.TransformCrop, X: 50, Y: 50, Width: 5, Height: 5}},
	})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestStage_Rotate(t *testing.T) {
	stage, _ := newStage()
	out := run(t, stage, quadrants(40, 20), pipeline.Transform{
		Kind: pipeline.TransformRotate, Angle: 90, Background: colorspec.Transparent,
	})
	if out.Bounds() != image.Rect(0, 0, 20, 40) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	// Counter-clockwise: the right (blue) half ends up on top
	if got := out.NRGBAAt(10, 5); got.B != 255 {
		t.Errorf("expected blue at the top, got %v", got)
	}
}

func TestStage_Flip(t *testing.T) {
	stage, _ := newStage()

	out := run(t, stage, quadrants(10, 4), pipeline.Transform{Kind: pipeline.TransformFlip, Direction: pipeline.FlipHorizontal})
	if got := out.NRGBAAt(0, 0); got.B != 255 {
		t.Errorf("expected blue on the left after horizontal flip, got %v", got)
	}

	out = run(t, stage, quadrants(10, 4), pipeline.Transform{Kind: pipeline.TransformFlip, Direction: pipeline.FlipVertical})
	if got := out.NRGBAAt(0, 0); got.R != 255 {
		t.Errorf("expected red kept on the left after vertical flip, got %v", got)
	}
}

func TestStage_Chain(t *testing.T) {
	stage, _ := newStage()
	out := run(t, stage, quadrants(100, 50),
		pipeline.Transform{Kind: pipeline.TransformFit, Width: 50, Height: 50},
		pipeline.Transform{Kind: pipeline.TransformRotate, Angle: 90},
	)
	if out.Bounds() != image.Rect(0, 0, 25, 50) {
		t.Errorf("unexpected bounds %v", out.Bounds())
	}
}

func TestStage_InvalidFitSize(t *testing.T) {
	stage, _ := newStage()
	_, err := stage.Execute(context.Background(), pipeline.TransformInput{
		Image:      quadrants(10, 10),
		Transforms: []pipeline.Transform{{Kind: pipeline.TransformFit, Width: 0, Height: 10}},
	})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestStage_Cancelled(t *testing.T) {
	stage, _ := newStage()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.TransformInput{
		Image:      quadrants(10, 10),
		Transforms: []pipeline.Transform{{Kind: pipeline.TransformFlip}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStage_MissingImage(t *testing.T) {
	stage, _ := newStage()
	if _, err := stage.Execute(context.Background(), pipeline.TransformInput{}); !errors.Is(err, ErrMissingImage) {
		t.Errorf("expected ErrMissingImage, got %v", err)
	}
}
