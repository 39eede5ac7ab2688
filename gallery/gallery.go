// Package gallery sequences the pipeline: interactive name resolution,
// parallel PNG to WebP conversion, orphan sweeping, and manifest
// reconciliation, producing a structured run report.
package gallery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/imiko/srefkit/config"
	"github.com/imiko/srefkit/convert"
	"github.com/imiko/srefkit/manifest"
	"github.com/imiko/srefkit/naming"
	"github.com/imiko/srefkit/resolve"
)

// Pipeline wires the pipeline stages together. Prompter supplies operator
// decisions for the resolution stage; when nil, resolution is skipped and
// files needing renames are only reported.
type Pipeline struct {
	Config   *config.Config
	Prompter resolve.Prompter
}

// CategoryStats counts one category's files for the efficiency report.
type CategoryStats struct {
	Found     int
	Converted int
	Failed    int
	Skipped   int
	Orphans   int
}

// RunReport is the full outcome of one pipeline run.
type RunReport struct {
	Rename  []string
	Deleted []string
	Skipped int
	Convert []string
	Changes *manifest.Changes
	Stats   map[string]*CategoryStats
	Elapsed time.Duration
}

// Totals sums the per-category stats.
func (r *RunReport) Totals() CategoryStats {
	var total CategoryStats
	for _, s := range r.Stats {
		total.Found += s.Found
		total.Converted += s.Converted
		total.Failed += s.Failed
		total.Skipped += s.Skipped
		total.Orphans += s.Orphans
	}
	return total
}

// Run executes the full pipeline: resolve, plan, convert, sync. The
// resolution loop reaches a fixed point per category on its own, so the
// later stages always see a stable directory.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, true)
}

// RunAuto executes the non-interactive stages only: plan, convert, sync.
// Files whose names need cleaning are reported and left for an interactive
// run.
func (p *Pipeline) RunAuto(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, false)
}

func (p *Pipeline) run(ctx context.Context, interactive bool) (*RunReport, error) {
	start := time.Now()
	cfg := p.Config
	report := &RunReport{Stats: make(map[string]*CategoryStats)}

	if interactive {
		if p.Prompter == nil {
			return nil, fmt.Errorf("interactive run needs a prompter")
		}
		resolver := &resolve.Resolver{Prompter: p.Prompter}
		for _, cat := range cfg.Categories {
			out, err := resolver.Run(cfg.SourceDir(cat))
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", cat.ID, err)
			}
			report.Rename = append(report.Rename, out.Renamed...)
			report.Deleted = append(report.Deleted, out.Deleted...)
			report.Skipped += out.Skipped
		}
	}

	// The manifest is read once, before conversion starts, and written
	// once after all conversions join.
	prev, err := manifest.Load(cfg.ManifestFile())
	if err != nil {
		return nil, err
	}

	outputs := make(map[string][]string, len(cfg.Categories))
	jobDst := make(map[string]string) // dst path -> category id
	var jobs []convert.Job

	for _, cat := range cfg.Categories {
		stats := &CategoryStats{}
		report.Stats[cat.ID] = stats
		outputs[cat.ID] = nil

		tracked := make(map[string]bool)
		for _, path := range prev.Paths(cat.ID) {
			tracked[path] = true
		}

		names, err := listExt(cfg.SourceDir(cat), ".png")
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", cat.ID, err)
		}
		stats.Found = len(names)
		log.Info("planning category", "category", cat.ID, "pngs", len(names))

		seen := make(map[string]bool)
		for _, name := range names {
			if !interactive {
				if clean := naming.Clean(name); clean != name {
					report.Rename = append(report.Rename,
						fmt.Sprintf("Needs rename: %s -> %s (run an interactive process)", name, clean))
				}
			}
			outName := naming.OutputName(name)
			dst := filepath.Join(cfg.OutputDir(cat), naming.ShardDigit(outName), outName)
			rel, err := cfg.Rel(dst)
			if err != nil {
				return nil, err
			}

			if _, err := os.Stat(dst); err == nil {
				// Already converted, tracked or not. Untracked
				// existing outputs are still swept into the set.
				if !tracked[rel] {
					report.Convert = append(report.Convert,
						fmt.Sprintf("Skipped (exists): %s -> %s", name, outName))
				}
				if !seen[rel] {
					outputs[cat.ID] = append(outputs[cat.ID], rel)
					seen[rel] = true
				}
				stats.Skipped++
				continue
			}

			// A skipped conflict can leave two sources mapping to one
			// destination; only the first is planned, the rest stay
			// deferred until the operator resolves the names.
			if seen[rel] {
				report.Convert = append(report.Convert,
					fmt.Sprintf("Deferred (unresolved name conflict): %s -> %s", name, outName))
				continue
			}
			seen[rel] = true
			jobs = append(jobs, convert.Job{Src: filepath.Join(cfg.SourceDir(cat), name), Dst: dst})
			jobDst[dst] = cat.ID
		}

		// Orphan sweep: outputs on disk this run did not create and the
		// manifest does not know about.
		orphans, err := sweepOrphans(cfg.OutputDir(cat), cfg, tracked, seen)
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", cat.ID, err)
		}
		for _, rel := range orphans {
			outputs[cat.ID] = append(outputs[cat.ID], rel)
			seen[rel] = true
		}
		stats.Orphans = len(orphans)
	}

	pool := &convert.Pool{
		Workers: cfg.Workers,
		Quality: cfg.Quality,
		Progress: func(done, total int) {
			if done%10 == 0 || done == total {
				fmt.Printf("  Converted %d/%d files...\n", done, total)
			}
		},
	}
	// Join barrier: the synchronizer needs the complete output set.
	results := pool.Run(ctx, jobs)
	for _, res := range results {
		report.Convert = append(report.Convert, res.Message())
		cat := jobDst[res.Job.Dst]
		if res.Err != nil {
			report.Stats[cat].Failed++
			continue
		}
		report.Stats[cat].Converted++
		rel, err := cfg.Rel(res.Job.Dst)
		if err != nil {
			return nil, err
		}
		outputs[cat] = append(outputs[cat], rel)
	}

	next, changes := manifest.Sync(prev, outputs, nil, manifest.SyncOptions{
		Now:     time.Now().UTC(),
		Window:  cfg.RecencyWindow.Window(),
		Default: cfg.Default,
	})
	if err := next.Write(cfg.ManifestFile()); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	report.Changes = changes
	report.Elapsed = time.Since(start)
	return report, nil
}

// sweepOrphans walks a category output tree for WebP files neither tracked
// in the manifest nor already claimed by this run's plan.
func sweepOrphans(outDir string, cfg *config.Config, tracked, seen map[string]bool) ([]string, error) {
	var orphans []string
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".webp" {
			return nil
		}
		rel, err := cfg.Rel(path)
		if err != nil {
			return err
		}
		if !tracked[rel] && !seen[rel] {
			orphans = append(orphans, rel)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return orphans, nil
}

// listExt returns the sorted base names of dir's files with the given
// extension. A missing directory is treated as empty.
func listExt(dir, ext string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names, nil
}

// DiskOutputs lists every on-disk WebP per category as manifest-relative
// paths, for auditing against the manifest.
func DiskOutputs(cfg *config.Config) (map[string][]string, error) {
	disk := make(map[string][]string, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		err := filepath.WalkDir(cfg.OutputDir(cat), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".webp" {
				return nil
			}
			rel, err := cfg.Rel(path)
			if err != nil {
				return err
			}
			disk[cat.ID] = append(disk[cat.ID], rel)
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("walk %s: %w", cat.ID, err)
		}
	}
	return disk, nil
}
