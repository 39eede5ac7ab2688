package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "srefkit",
		Usage: "Asset pipeline for the sref gallery: rename, dedupe, convert, catalog",
		Description: `
                 __ _    _ _
  ___ _ _ ___ / _| |__(_) |_
 (_-<| '_/ -_)  _| / /| |  _|
 /__/|_| \___|_| |_\_\|_|\__|

 Keeps the gallery's images clean, converted, and cataloged.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "error",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the srefkit config file",
				Value:   "srefkit.yaml",
				Sources: cli.EnvVars("SREFKIT_CONFIG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Best effort: SREFKIT_* variables may come from a .env.
			_ = godotenv.Load()

			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			processCmd(),
			ingestCmd(),
			renameCmd(),
			socialCmd(),
			watchCmd(),
			manifestCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
