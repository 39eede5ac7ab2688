package main

import (
	"context"
	"fmt"

	"github.com/imiko/srefkit/social"
	"github.com/urfave/cli/v3"
)

func socialCmd() *cli.Command {
	return &cli.Command{
		Name:  "social",
		Usage: "Cut source images into 4:5 promo quadrants, bucketed by dominant color",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory (default from config, else <root>/social)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			b := &social.Builder{Config: cfg, OutputDir: cmd.String("out")}
			rep, err := b.Run(ctx)
			if err != nil {
				return err
			}

			for _, line := range rep.Failed {
				fmt.Printf("ERROR: %s\n", line)
			}
			fmt.Printf("Wrote %d quadrant(s), %d image(s) failed\n", len(rep.Written), len(rep.Failed))
			return nil
		},
	}
}
