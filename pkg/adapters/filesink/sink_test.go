package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/simpleimage/pkg/mocks"
	"github.com/user/simpleimage/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveScratch(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if err := sink.SaveScratch("text block/1", img); err != nil {
		t.Fatalf("SaveScratch failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "scratch", "text_block_1.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file at %s, got %v", expectedPath, fs.GetAllFiles())
	}
	if string(saved) != "png" {
		t.Errorf("expected PNG encoding, got %q", saved)
	}
}

func TestSink_SaveResult(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if err := sink.SaveResult(3, img); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "steps", "step-0003.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file at %s", expectedPath)
	}
	if exists, _ := fs.Exists(filepath.Join(testBaseDir, "steps")); !exists {
		t.Error("expected steps directory to be created")
	}
}

func TestSink_EncodeError(t *testing.T) {
	boom := errors.New("boom")
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, boom
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer)

	if err := sink.SaveResult(0, image.NewNRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, boom) {
		t.Errorf("expected encode error, got %v", err)
	}
}
