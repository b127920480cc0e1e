package main

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/simpleimage/pkg/adapters/filesink"
	"github.com/user/simpleimage/pkg/adapters/fontengine"
	"github.com/user/simpleimage/pkg/adapters/ggrenderer"
	"github.com/user/simpleimage/pkg/adapters/logger"
	"github.com/user/simpleimage/pkg/adapters/nullsink"
	"github.com/user/simpleimage/pkg/adapters/osfilesystem"
	"github.com/user/simpleimage/pkg/orchestrator"
	"github.com/user/simpleimage/pkg/ports"
	"github.com/user/simpleimage/pkg/simpleimage"
	"github.com/user/simpleimage/pkg/stages/filter"
	"github.com/user/simpleimage/pkg/stages/overlay"
	"github.com/user/simpleimage/pkg/stages/shape"
	"github.com/user/simpleimage/pkg/stages/text"
	"github.com/user/simpleimage/pkg/stages/transform"
)

// runtimeEnv holds the adapters shared by all commands.
type runtimeEnv struct {
	log      ports.Logger
	fs       ports.FileSystem
	renderer *ggrenderer.Renderer
	glyphs   *fontengine.Engine
	sink     ports.DebugSink
}

func newRuntimeEnv(c *cli.Context) (*runtimeEnv, error) {
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if c.Bool("debug") {
		dir := c.String("debug-dir")
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(dir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	return &runtimeEnv{
		log:      log,
		fs:       fs,
		renderer: renderer,
		glyphs:   fontengine.New(),
		sink:     sink,
	}, nil
}

func (e *runtimeEnv) Close() error {
	return e.glyphs.Close()
}

// orchestrator wires every stage to the shared adapters.
func (e *runtimeEnv) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		overlay.NewStage(e.log),
		text.NewStage(e.glyphs, e.sink, e.log),
		filter.NewStage(e.log),
		transform.NewStage(e.renderer, e.log),
		shape.NewStage(e.renderer, e.log),
		e.renderer,
		e.fs,
		e.sink,
		e.log,
	)
}

// imageOptions configures the fluent wrapper with the shared adapters.
func (e *runtimeEnv) imageOptions() []simpleimage.Option {
	return []simpleimage.Option{
		simpleimage.WithRenderer(e.renderer),
		simpleimage.WithGlyphEngine(e.glyphs),
		simpleimage.WithFileSystem(e.fs),
		simpleimage.WithDebugSink(e.sink),
		simpleimage.WithLogger(e.log),
	}
}

// save writes img to the output flag's path.
func (e *runtimeEnv) save(c *cli.Context, img *simpleimage.Image) error {
	out := c.String("output")
	if err := img.Save(out, c.Int("quality")); err != nil {
		return err
	}
	e.log.Info(l10n.F("Output saved to %s", out))
	return nil
}

func requireArgs(c *cli.Context, n int, msg string) error {
	if c.NArg() < n {
		return cli.Exit(l10n.T(msg), 2)
	}
	return nil
}
