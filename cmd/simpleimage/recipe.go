package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/simpleimage/pkg/config"
	"github.com/user/simpleimage/pkg/summarizer"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     l10n.T("Apply a YAML recipe to one image"),
		ArgsUsage: "RECIPE",
		Flags: withFlags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Usage:    l10n.T("Input image path (overrides the recipe)"),
					Category: l10n.T("Input"),
				},
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Usage:    l10n.T("Output image path (overrides the recipe)"),
					Category: l10n.T("Output"),
				},
			},
			commonFlags(),
		),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "Recipe argument is required"); err != nil {
				return err
			}
			cfg, err := loadRecipe(c)
			if err != nil {
				return err
			}

			env, err := newRuntimeEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			orchConfig, err := cfg.ToOrchestratorConfig()
			if err != nil {
				return err
			}
			if orchConfig.InputPath == "" || orchConfig.OutputPath == "" {
				return cli.Exit(l10n.T("Recipe needs both input and output"), 2)
			}

			_, err = env.orchestrator().Run(c.Context, orchConfig)
			return err
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     l10n.T("Apply a YAML recipe to many images in parallel"),
		ArgsUsage: "RECIPE [INPUT...]",
		Flags: withFlags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:     "output-dir",
					Usage:    l10n.T("Directory for output images (overrides the recipe)"),
					Category: l10n.T("Output"),
				},
				&cli.StringFlag{
					Name:     "suffix",
					Usage:    l10n.T("Suffix appended to output file names"),
					Category: l10n.T("Output"),
				},
				&cli.IntFlag{
					Name:     "workers",
					Aliases:  []string{"w"},
					Usage:    l10n.T("Number of parallel workers (overrides the recipe)"),
					Category: l10n.T("Performance"),
				},
				&cli.StringFlag{
					Name:     "summary",
					Usage:    l10n.T("Output batch summary to file (Markdown format)"),
					Category: l10n.T("Output"),
				},
			},
			commonFlags(),
		),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "Recipe argument is required"); err != nil {
				return err
			}
			cfg, err := loadRecipe(c)
			if err != nil {
				return err
			}
			if extra := c.Args().Tail(); len(extra) > 0 {
				cfg.Batch.Inputs = extra
			}
			if c.IsSet("output-dir") {
				cfg.Batch.OutputDir = c.String("output-dir")
			}
			if c.IsSet("suffix") {
				cfg.Batch.Suffix = c.String("suffix")
			}
			if c.IsSet("workers") {
				cfg.Workers = c.Int("workers")
			}

			env, err := newRuntimeEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			batch, err := cfg.ToBatch()
			if err != nil {
				return err
			}

			result, err := env.orchestrator().RunBatch(c.Context, batch)
			if err != nil {
				return err
			}

			if path := c.String("summary"); path != "" {
				summary := summarizer.NewBuilder().
					WithRecipeConfig(c.Args().First(), batch.Template).
					WithBatch(result).
					Build()
				formatter := summarizer.NewMarkdownFormatter(
					summarizer.WithTranslator(l10n.T),
					summarizer.WithVersion(version),
				)
				if err := summarizer.NewWriter(formatter, env.fs).Write(path, summary); err != nil {
					env.log.Warn(l10n.F("Failed to write summary: %s", err))
				} else {
					env.log.Info(l10n.F("Summary saved to %s", path))
				}
			}

			if result.Failed > 0 {
				for _, job := range result.Jobs {
					if job.Err != nil {
						env.log.Error(l10n.F("Failed to process %s: %s", job.Config.InputPath, job.Err))
					}
				}
				return cli.Exit(l10n.F("%d of %d images failed", result.Failed, len(result.Jobs)), 1)
			}
			return nil
		},
	}
}

// loadRecipe reads the recipe named by the first argument and applies the
// shared flag overrides.
func loadRecipe(c *cli.Context) (config.Config, error) {
	cfg, err := config.LoadFromFile(c.Args().First())
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if cfg.Debug && !c.IsSet("debug") {
		if err := c.Set("debug", "true"); err != nil {
			return config.Config{}, err
		}
	}
	if cfg.DebugDir != "" && !c.IsSet("debug-dir") {
		if err := c.Set("debug-dir", cfg.DebugDir); err != nil {
			return config.Config{}, err
		}
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		if err := c.Set("log-level", cfg.LogLevel); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}
