package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/simpleimage/pkg/ports"
)

var (
	// ErrNoInputs is returned when a batch matches no files.
	ErrNoInputs = errors.New("no input files")
	// ErrOverwrite is returned when an output path would replace its input.
	ErrOverwrite = errors.New("output would overwrite input")
)

// Batch applies one recipe to many inputs.
type Batch struct {
	// Inputs are file paths or glob patterns.
	Inputs []string
	// OutputDir receives the outputs. Empty keeps each output next to its
	// input.
	OutputDir string
	// Suffix is appended to each output's base name.
	Suffix string
	// Workers is the number of recipes run in parallel. Zero uses the number
	// of CPUs.
	Workers int
	// Template provides the format, quality and operations. Its paths are
	// ignored.
	Template Config
}

// JobResult is the outcome of one recipe of a batch.
type JobResult struct {
	Index  int
	Config Config
	Result RunResult
	Err    error
}

// BatchResult contains every job in input order.
type BatchResult struct {
	Jobs       []JobResult
	Succeeded  int
	Failed     int
	Workers    int
	DurationMs int64
}

// Plan expands the batch inputs and derives one Config per file.
func (o *Orchestrator) Plan(batch Batch) ([]Config, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range batch.Inputs {
		matches := []string{pattern}
		if strings.ContainsAny(pattern, "*?[") {
			var err error
			matches, err = o.fs.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("expand %s: %w", pattern, err)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	configs := make([]Config, len(paths))
	for i, path := range paths {
		cfg := batch.Template
		cfg.InputPath = path
		cfg.OutputPath = OutputPath(path, batch.OutputDir, batch.Suffix, batch.Template.Format)
		if filepath.Clean(cfg.OutputPath) == filepath.Clean(path) {
			return nil, fmt.Errorf("%w: %s", ErrOverwrite, path)
		}
		configs[i] = cfg
	}
	return configs, nil
}

// OutputPath derives an output path from an input path. A non-auto format
// replaces the extension.
func OutputPath(input, dir, suffix string, format ports.ImageFormat) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if format != ports.FormatAuto {
		ext = Extension(format)
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+suffix+ext)
}

// Extension returns the conventional file extension of a format.
func Extension(format ports.ImageFormat) string {
	switch format {
	case ports.FormatJPEG:
		return ".jpg"
	case ports.FormatGIF:
		return ".gif"
	default:
		return ".png"
	}
}

// RunBatch runs every recipe of the batch with a worker pool. A failing
// recipe does not stop the others; its error is recorded in its JobResult.
func (o *Orchestrator) RunBatch(ctx context.Context, batch Batch) (BatchResult, error) {
	start := time.Now()

	configs, err := o.Plan(batch)
	if err != nil {
		return BatchResult{}, err
	}

	numWorkers := batch.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(configs))

	o.logger.Info(l10n.F("Processing %d images with %d workers", len(configs), numWorkers))

	jobs := make(chan int, len(configs))
	results := make(chan JobResult, len(configs))

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go o.worker(ctx, &wg, configs, jobs, results)
	}

	// Send jobs
	for i := range configs {
		jobs <- i
	}
	close(jobs)

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	out := BatchResult{Workers: numWorkers}
	for result := range results {
		out.Jobs = append(out.Jobs, result)
		if result.Err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	// Sort by index to maintain order
	sort.Slice(out.Jobs, func(i, j int) bool {
		return out.Jobs[i].Index < out.Jobs[j].Index
	})
	out.DurationMs = time.Since(start).Milliseconds()

	o.logger.Info(l10n.F("Batch completed: %d succeeded, %d failed", out.Succeeded, out.Failed))
	return out, nil
}

// worker runs recipes from the jobs channel. After cancellation the
// remaining jobs are reported with the context error.
func (o *Orchestrator) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	configs []Config,
	jobs <-chan int,
	results chan<- JobResult,
) {
	defer wg.Done()

	for idx := range jobs {
		job := JobResult{Index: idx, Config: configs[idx]}
		if err := ctx.Err(); err != nil {
			job.Err = err
			results <- job
			continue
		}

		// Config.InputPath identifies the job, so the error stays unprefixed
		job.Result, job.Err = o.Run(ctx, configs[idx])
		results <- job
	}
}
