package ports

import (
	"image"
)

// DebugSink receives intermediate rasters for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveScratch saves an intermediate raster such as a rendered text block.
	SaveScratch(name string, img image.Image) error

	// SaveResult saves the output of the index-th operation of a recipe.
	SaveResult(index int, img image.Image) error
}
