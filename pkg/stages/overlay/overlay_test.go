package overlay

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/simpleimage/pkg/adapters/logger"
	"github.com/user/simpleimage/pkg/mocks"
	"github.com/user/simpleimage/pkg/pipeline"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/ports"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	base := solid(100, 50, color.NRGBA{A: 255})
	mark := solid(20, 10, color.NRGBA{R: 255, A: 255})

	result, err := stage.Execute(context.Background(), pipeline.OverlayInput{
		Base:    base,
		Overlay: mark,
		Anchor:  placement.BottomRight,
		Opacity: 1,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Position != image.Pt(80, 40) {
		t.Errorf("expected position (80, 40), got %v", result.Position)
	}
	if result.Region != image.Rect(80, 40, 100, 50) {
		t.Errorf("expected full region, got %v", result.Region)
	}
	if got := result.Image.NRGBAAt(90, 45); got.R != 255 {
		t.Errorf("expected overlay pixel, got %v", got)
	}
	if got := result.Image.NRGBAAt(10, 10); got.R != 0 {
		t.Errorf("expected base pixel, got %v", got)
	}
	if base.NRGBAAt(90, 45).R != 0 {
		t.Error("expected base input untouched")
	}
}

func TestStage_ExecuteOffsetClips(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.OverlayInput{
		Base:    solid(50, 50, color.NRGBA{A: 255}),
		Overlay: solid(20, 20, color.NRGBA{G: 255, A: 255}),
		Anchor:  placement.TopLeft,
		Offset:  placement.Offset{X: -10, Y: 40},
		Opacity: 100,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Region != image.Rect(0, 40, 10, 50) {
		t.Errorf("expected clipped region, got %v", result.Region)
	}
	if got := result.Image.NRGBAAt(5, 45); got.G != 255 {
		t.Errorf("expected overlay in clipped region, got %v", got)
	}
}

func TestStage_ExecuteOutside(t *testing.T) {
	log := mocks.NewLogger()
	stage := NewStage(log)

	base := solid(10, 10, color.NRGBA{B: 255, A: 255})
	result, err := stage.Execute(context.Background(), pipeline.OverlayInput{
		Base:    base,
		Overlay: solid(5, 5, color.NRGBA{R: 255, A: 255}),
		Anchor:  placement.TopLeft,
		Offset:  placement.Offset{X: 100},
		Opacity: 1,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Region.Empty() {
		t.Errorf("expected empty region, got %v", result.Region)
	}
	if log.Count(ports.LevelWarn) != 1 {
		t.Errorf("expected one warning, got %+v", log.Entries())
	}
	for i := range base.Pix {
		if result.Image.Pix[i] != base.Pix[i] {
			t.Fatal("expected output identical to base")
		}
	}
}

func TestStage_ExecuteMissingImage(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.OverlayInput{Base: solid(1, 1, color.NRGBA{})})
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("expected ErrMissingImage, got %v", err)
	}
}

func TestStage_ExecuteCancelled(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.OverlayInput{
		Base:    solid(1, 1, color.NRGBA{}),
		Overlay: solid(1, 1, color.NRGBA{}),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
