package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/imiko/srefkit/config"
	"github.com/imiko/srefkit/gallery"
	"github.com/imiko/srefkit/manifest"
	"github.com/urfave/cli/v3"
)

func manifestCmd() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Maintain the image manifest",
		Commands: []*cli.Command{
			manifestAuditCmd(),
			manifestDedupeCmd(),
			manifestExpireCmd(),
			manifestRelinkCmd(),
		},
	}
}

// withManifest loads config and manifest, runs fn, and writes the manifest
// back only when fn reports a change.
func withManifest(cmd *cli.Command, fn func(cfg *config.Config, m *manifest.Manifest) (changed bool, err error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := manifest.Load(cfg.ManifestFile())
	if err != nil {
		return err
	}
	changed, err := fn(cfg, m)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := m.Write(cfg.ManifestFile()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func manifestAuditCmd() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Compare the manifest against the outputs actually on disk",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withManifest(cmd, func(cfg *config.Config, m *manifest.Manifest) (bool, error) {
				disk, err := gallery.DiskOutputs(cfg)
				if err != nil {
					return false, err
				}
				rep := manifest.Audit(m, disk)
				if rep.Clean() {
					fmt.Println("Manifest and disk agree.")
					return false, nil
				}

				cats := make([]string, 0, len(m.Sets))
				for cat := range m.Sets {
					cats = append(cats, cat)
				}
				sort.Strings(cats)
				for _, cat := range cats {
					for _, path := range rep.MissingOnDisk[cat] {
						fmt.Printf("MISSING ON DISK  %s\n", path)
					}
					for _, path := range rep.Untracked[cat] {
						fmt.Printf("UNTRACKED        %s\n", path)
					}
				}
				return false, nil
			})
		},
	}
}

func manifestDedupeCmd() *cli.Command {
	return &cli.Command{
		Name:  "dedupe",
		Usage: "Drop repeated manifest paths, keeping the first occurrence",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withManifest(cmd, func(cfg *config.Config, m *manifest.Manifest) (bool, error) {
				removed := m.Dedupe()
				for _, path := range removed {
					fmt.Printf("Dropped duplicate: %s\n", path)
				}
				fmt.Printf("Removed %d duplicate entrie(s)\n", len(removed))
				return len(removed) > 0, nil
			})
		},
	}
}

func manifestExpireCmd() *cli.Command {
	return &cli.Command{
		Name:  "expire",
		Usage: "Clear the \"new\" flag on entries older than a cutoff",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "older-than",
				Usage: "Age past which the flag is cleared",
				Value: time.Hour,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withManifest(cmd, func(cfg *config.Config, m *manifest.Manifest) (bool, error) {
				cleared := m.Expire(cmd.Duration("older-than"), time.Now().UTC())
				for _, path := range cleared {
					fmt.Printf("No longer new: %s\n", path)
				}
				fmt.Printf("Cleared %d flag(s)\n", len(cleared))
				return len(cleared) > 0, nil
			})
		},
	}
}

func manifestRelinkCmd() *cli.Command {
	return &cli.Command{
		Name:  "relink",
		Usage: "Rewrite manifest paths to the sref-only filename form",
		Description: `Pairs with 'srefkit rename --apply': after files on disk are collapsed to
bare srefs, the manifest entries must point at the new names.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withManifest(cmd, func(cfg *config.Config, m *manifest.Manifest) (bool, error) {
				changed := m.Relink()
				for _, path := range changed {
					fmt.Printf("Relinked: %s\n", path)
				}
				fmt.Printf("Rewrote %d path(s)\n", len(changed))
				return len(changed) > 0, nil
			})
		},
	}
}
