package main

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/simpleimage/pkg/adapters/logger"
	"github.com/user/simpleimage/pkg/adapters/osfilesystem"
	"github.com/user/simpleimage/pkg/simpleimage"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     l10n.T("Show dimensions and format of images"),
		ArgsUsage: "IMAGE...",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "At least one image argument is required"); err != nil {
				return err
			}
			fs := osfilesystem.New()
			for _, path := range c.Args().Slice() {
				img := simpleimage.Open(path,
					simpleimage.WithFileSystem(fs),
					simpleimage.WithLogger(logger.NewNoop()),
				)
				if err := img.Err(); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, l10n.F("%s: %dx%d %s, %s (aspect %.3f)",
					path, img.Width(), img.Height(), img.Format(), l10n.T(img.Orientation()), img.AspectRatio()))
			}
			return nil
		},
	}
}
