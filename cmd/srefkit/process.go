package main

import (
	"context"
	"os"

	"github.com/imiko/srefkit/config"
	"github.com/imiko/srefkit/gallery"
	"github.com/imiko/srefkit/report"
	"github.com/imiko/srefkit/resolve"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.Load(cmd.String("config"))
}

func newPipeline(cmd *cli.Command) (*gallery.Pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return &gallery.Pipeline{
		Config:   cfg,
		Prompter: resolve.NewConsole(os.Stdin, os.Stdout),
	}, nil
}

func processCmd() *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Run the full pipeline: resolve names, convert, sync the manifest",
		Description: `Renames raw downloads to canonical form (prompting on conflicts and
duplicates), converts new PNGs to WebP on a worker pool, sweeps orphaned
outputs, and reconciles the image manifest.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "auto",
				Usage: "Skip interactive resolution; report unclean names and continue",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := newPipeline(cmd)
			if err != nil {
				return err
			}

			var rep *gallery.RunReport
			if cmd.Bool("auto") {
				rep, err = p.RunAuto(ctx)
			} else {
				rep, err = p.Run(ctx)
			}
			if err != nil {
				return err
			}

			(&report.Renderer{}).Render(os.Stdout, rep)
			return nil
		},
	}
}
