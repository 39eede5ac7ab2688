package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Clean the downloads tree and copy new files into the source tree",
		Description: `Resolves names and duplicates in each category's downloads folder, then
copies surviving files into the source tree, skipping files already there.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := newPipeline(cmd)
			if err != nil {
				return err
			}

			rep, err := p.Ingest()
			if err != nil {
				return err
			}

			for _, line := range rep.Rename {
				fmt.Println(line)
			}
			for _, line := range rep.Copied {
				fmt.Printf("Copied: %s\n", line)
			}
			fmt.Printf("Copied %d new file(s), %d already present, %d skipped prompt(s)\n",
				len(rep.Copied), len(rep.Existed), rep.Skipped)
			return nil
		},
	}
}
