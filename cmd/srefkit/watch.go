package main

import (
	"context"
	"errors"
	"os"

	"github.com/imiko/srefkit/gallery"
	"github.com/imiko/srefkit/report"
	"github.com/imiko/srefkit/watch"
	"github.com/urfave/cli/v3"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the source directories and auto-convert new downloads",
		Description: `Runs the non-interactive pipeline stages whenever a burst of new files
settles. Naming conflicts are reported but left for an interactive
'srefkit process' run.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			p := &gallery.Pipeline{Config: cfg}
			w := &watch.Watcher{
				Config: cfg,
				Trigger: func(ctx context.Context) error {
					rep, err := p.RunAuto(ctx)
					if err != nil {
						return err
					}
					(&report.Renderer{}).Render(os.Stdout, rep)
					return nil
				},
			}

			err = w.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
