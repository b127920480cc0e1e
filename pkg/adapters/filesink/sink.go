// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"regexp"

	"github.com/user/simpleimage/pkg/ports"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Sink saves intermediate rasters as PNG files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveScratch saves a scratch raster to scratch/<name>.png. Characters that
// are unsafe in file names are replaced with "_".
func (s *Sink) SaveScratch(name string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "scratch")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.savePNG(filepath.Join(dir, unsafeName.ReplaceAllString(name, "_")+".png"), img)
}

// SaveResult saves the result of one operation to steps/step-NNNN.png.
func (s *Sink) SaveResult(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "steps")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.savePNG(filepath.Join(dir, fmt.Sprintf("step-%04d.png", index)), img)
}

func (s *Sink) savePNG(path string, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return s.fs.WriteFile(path, data)
}

var _ ports.DebugSink = (*Sink)(nil)
