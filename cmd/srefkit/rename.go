package main

import (
	"context"
	"fmt"

	"github.com/imiko/srefkit/gallery"
	"github.com/urfave/cli/v3"
)

func renameCmd() *cli.Command {
	return &cli.Command{
		Name:  "rename",
		Usage: "Collapse source and output filenames to their bare sref",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Perform the renames; without it, only print the plan",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p := &gallery.Pipeline{Config: cfg}

			rep, err := p.RenameSrefs(cmd.Bool("apply"))
			if err != nil {
				return err
			}

			for _, line := range rep.Renamed {
				fmt.Printf("Renamed: %s\n", line)
			}
			for _, line := range rep.Planned {
				fmt.Printf("Would rename: %s\n", line)
			}
			for _, line := range rep.Skipped {
				fmt.Printf("Skipped: %s\n", line)
			}
			if !cmd.Bool("apply") && len(rep.Planned) > 0 {
				fmt.Println("Run again with --apply to perform these renames.")
			}
			return nil
		},
	}
}
