// Package summarizer generates reports of batch runs.
package summarizer

import (
	"strings"
	"time"

	"github.com/user/simpleimage/pkg/orchestrator"
)

// Summary contains all data collected during a batch run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Recipe that was applied
	Recipe RecipeInfo

	// Batch totals
	Batch BatchInfo

	// One entry per input, in input order
	Images []ImageInfo
}

// RecipeInfo describes the applied recipe.
type RecipeInfo struct {
	Source     string
	Operations []string
	Format     string
	Quality    int
}

// BatchInfo contains batch totals.
type BatchInfo struct {
	Workers    int
	Succeeded  int
	Failed     int
	DurationMs int64
}

// ImageInfo describes one processed input.
type ImageInfo struct {
	Input  string
	Output string

	InputWidth   int
	InputHeight  int
	OutputWidth  int
	OutputHeight int

	InputBytes  int64
	OutputBytes int64

	DurationMs int64
	// Error is empty on success
	Error string
}

// TotalInputBytes sums the input sizes of successful images.
func (s *Summary) TotalInputBytes() int64 {
	var n int64
	for _, img := range s.Images {
		if img.Error == "" {
			n += img.InputBytes
		}
	}
	return n
}

// TotalOutputBytes sums the output sizes of successful images.
func (s *Summary) TotalOutputBytes() int64 {
	var n int64
	for _, img := range s.Images {
		if img.Error == "" {
			n += img.OutputBytes
		}
	}
	return n
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRecipe sets recipe information.
func (b *Builder) WithRecipe(recipe RecipeInfo) *Builder {
	b.summary.Recipe = recipe
	return b
}

// WithRecipeConfig derives recipe information from an orchestrator config.
func (b *Builder) WithRecipeConfig(source string, config orchestrator.Config) *Builder {
	ops := make([]string, len(config.Operations))
	for i, op := range config.Operations {
		ops[i] = operationName(op)
	}
	b.summary.Recipe = RecipeInfo{
		Source:     source,
		Operations: ops,
		Format:     config.Format.String(),
		Quality:    config.Quality,
	}
	return b
}

// WithBatch sets batch totals and one image entry per job.
func (b *Builder) WithBatch(result orchestrator.BatchResult) *Builder {
	b.summary.Batch = BatchInfo{
		Workers:    result.Workers,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		DurationMs: result.DurationMs,
	}
	b.summary.Images = b.summary.Images[:0]
	for _, job := range result.Jobs {
		b.AddImage(imageFromJob(job))
	}
	return b
}

// AddImage appends one image entry.
func (b *Builder) AddImage(img ImageInfo) *Builder {
	b.summary.Images = append(b.summary.Images, img)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

func imageFromJob(job orchestrator.JobResult) ImageInfo {
	info := ImageInfo{
		Input:        job.Config.InputPath,
		Output:       job.Config.OutputPath,
		InputWidth:   job.Result.InputWidth,
		InputHeight:  job.Result.InputHeight,
		OutputWidth:  job.Result.OutputWidth,
		OutputHeight: job.Result.OutputHeight,
		InputBytes:   job.Result.InputBytes,
		OutputBytes:  job.Result.OutputBytes,
		DurationMs:   job.Result.DurationMs,
	}
	if job.Err != nil {
		info.Error = job.Err.Error()
	}
	return info
}

// operationName describes an operation by its most specific step name.
func operationName(op orchestrator.Operation) string {
	switch {
	case op.Kind == orchestrator.OpTransform && len(op.Transforms) == 1:
		return op.Transforms[0].Kind.String()
	case op.Kind == orchestrator.OpShape && len(op.Shapes) == 1:
		return op.Shapes[0].Kind.String()
	case op.Kind == orchestrator.OpFilter && len(op.Filters) > 0:
		return "filter(" + strings.Join(op.Filters.Names(), ", ") + ")"
	}
	return op.Kind.String()
}
