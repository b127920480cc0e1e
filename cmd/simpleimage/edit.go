package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/simpleimage/pkg/colorspec"
	"github.com/user/simpleimage/pkg/filters"
	"github.com/user/simpleimage/pkg/placement"
	"github.com/user/simpleimage/pkg/simpleimage"
	"github.com/user/simpleimage/pkg/textlayout"
)

func placementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "anchor",
			Aliases:  []string{"a"},
			Value:    "center",
			Usage:    l10n.T("Anchor (top left, top, top right, left, center, right, bottom left, bottom, bottom right)"),
			Category: l10n.T("Placement"),
		},
		&cli.IntFlag{
			Name:     "x",
			Usage:    l10n.T("Horizontal offset in pixels"),
			Category: l10n.T("Placement"),
		},
		&cli.IntFlag{
			Name:     "y",
			Usage:    l10n.T("Vertical offset in pixels"),
			Category: l10n.T("Placement"),
		},
		&cli.Float64Flag{
			Name:     "opacity",
			Value:    1,
			Usage:    l10n.T("Opacity (0-1 or 0-100)"),
			Category: l10n.T("Placement"),
		},
	}
}

func overlayCommand() *cli.Command {
	return &cli.Command{
		Name:      "overlay",
		Usage:     l10n.T("Overlay one image onto another"),
		ArgsUsage: "INPUT OVERLAY",
		Flags:     withFlags(outputFlags(), placementFlags(), commonFlags()),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "Input and overlay arguments are required"); err != nil {
				return err
			}
			env, err := newRuntimeEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			img := simpleimage.Open(c.Args().Get(0), env.imageOptions()...).
				WithContext(c.Context).
				OverlayFile(
					c.Args().Get(1),
					placement.ParseAnchor(c.String("anchor")),
					placement.Offset{X: c.Int("x"), Y: c.Int("y")},
					c.Float64("opacity"),
				)
			return env.save(c, img)
		},
	}
}

func textCommand() *cli.Command {
	return &cli.Command{
		Name:      "text",
		Usage:     l10n.T("Draw a block of text onto an image"),
		ArgsUsage: "INPUT TEXT",
		Flags: withFlags(
			outputFlags(),
			placementFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:     "font",
					Aliases:  []string{"f"},
					Usage:    l10n.T("Path to a TrueType/OpenType font (default: embedded Go Regular)"),
					Category: l10n.T("Text"),
				},
				&cli.Float64Flag{
					Name:     "size",
					Aliases:  []string{"s"},
					Value:    12,
					Usage:    l10n.T("Font size in points"),
					Category: l10n.T("Text"),
				},
				&cli.Float64Flag{
					Name:     "angle",
					Usage:    l10n.T("Rotation in degrees, counter-clockwise"),
					Category: l10n.T("Text"),
				},
				&cli.StringSliceFlag{
					Name:     "color",
					Aliases:  []string{"c"},
					Usage:    l10n.T("Text color; repeat to cycle colors per line"),
					Category: l10n.T("Text"),
				},
				&cli.StringFlag{
					Name:     "align",
					Value:    "left",
					Usage:    l10n.T("Alignment (left, center, right, justify)"),
					Category: l10n.T("Text"),
				},
				&cli.IntFlag{
					Name:     "width",
					Usage:    l10n.T("Wrap width in pixels (0 = image width)"),
					Category: l10n.T("Text"),
				},
				&cli.Float64Flag{
					Name:     "leading",
					Usage:    l10n.T("Extra space between lines in pixels"),
					Category: l10n.T("Text"),
				},
				&cli.IntFlag{
					Name:     "stroke",
					Usage:    l10n.T("Stroke size in pixels"),
					Category: l10n.T("Text"),
				},
				&cli.StringSliceFlag{
					Name:     "stroke-color",
					Usage:    l10n.T("Stroke color; repeat to cycle colors per line"),
					Category: l10n.T("Text"),
				},
			},
			commonFlags(),
		),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "Input and text arguments are required"); err != nil {
				return err
			}
			colors, err := parseColors(c.StringSlice("color"))
			if err != nil {
				return err
			}
			strokeColors, err := parseColors(c.StringSlice("stroke-color"))
			if err != nil {
				return err
			}

			env, err := newRuntimeEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			opts := simpleimage.NewText().
				WithFont(c.String("font")).
				WithSize(c.Float64("size")).
				WithAngle(c.Float64("angle")).
				WithColor(colors...).
				WithStroke(c.Int("stroke"), strokeColors...).
				WithLeading(c.Float64("leading")).
				WithWidth(c.Int("width")).
				WithAlign(textlayout.ParseMode(c.String("align"))).
				WithAnchor(placement.ParseAnchor(c.String("anchor"))).
				WithOffset(c.Int("x"), c.Int("y")).
				WithOpacity(c.Float64("opacity")).
				Build()

			img := simpleimage.Open(c.Args().Get(0), env.imageOptions()...).
				WithContext(c.Context).
				Text(c.Args().Get(1), opts)
			return env.save(c, img)
		},
	}
}

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     l10n.T("Apply filters to an image"),
		ArgsUsage: "INPUT FILTER...",
		Description: l10n.T("Filters are given as name or name:arg,arg, e.g. grayscale, blur:2 or colorize:255,0,0,0. " +
			"They are applied in order."),
		Flags: withFlags(outputFlags(), commonFlags()),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "Input and at least one filter are required"); err != nil {
				return err
			}
			chain := make([]filters.Filter, 0, c.NArg()-1)
			for _, spec := range c.Args().Tail() {
				f, err := filters.Parse(spec)
				if err != nil {
					return err
				}
				chain = append(chain, f)
			}

			env, err := newRuntimeEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			img := simpleimage.Open(c.Args().Get(0), env.imageOptions()...).
				WithContext(c.Context).
				Filter(chain...)
			return env.save(c, img)
		},
	}
}

func parseColors(raw []string) ([]colorspec.Color, error) {
	colors := make([]colorspec.Color, 0, len(raw))
	for _, s := range raw {
		c, err := colorspec.Parse(s)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
