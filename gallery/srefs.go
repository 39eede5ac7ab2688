package gallery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/imiko/srefkit/naming"
)

// SrefReport lists what a rename-to-sref pass did, or would do.
type SrefReport struct {
	Renamed []string
	Planned []string
	Skipped []string
	NoSref  []string
}

// RenameSrefs collapses filenames down to their bare sref: source PNGs in
// each category's source dir and WebP outputs in each shard subfolder. A
// file whose target name already exists is skipped, never overwritten.
// With apply false nothing is touched; the report carries the plan.
func (p *Pipeline) RenameSrefs(apply bool) (*SrefReport, error) {
	cfg := p.Config
	report := &SrefReport{}

	var dirs []string
	for _, cat := range cfg.Categories {
		dirs = append(dirs, cfg.SourceDir(cat))
		shards, _ := filepath.Glob(filepath.Join(cfg.OutputDir(cat), "*"))
		for _, shard := range shards {
			if info, err := os.Stat(shard); err == nil && info.IsDir() {
				dirs = append(dirs, shard)
			}
		}
	}

	for _, dir := range dirs {
		for _, ext := range []string{".png", ".webp"} {
			names, err := listExt(dir, ext)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				collapsed, ok := naming.SrefOnly(name)
				if !ok {
					report.NoSref = append(report.NoSref, name)
					continue
				}
				if collapsed == name {
					continue
				}
				line := fmt.Sprintf("%s -> %s", name, collapsed)
				target := filepath.Join(dir, collapsed)
				if _, err := os.Stat(target); err == nil {
					report.Skipped = append(report.Skipped, line+" (target exists)")
					continue
				}
				if !apply {
					report.Planned = append(report.Planned, line)
					continue
				}
				if err := os.Rename(filepath.Join(dir, name), target); err != nil {
					return nil, fmt.Errorf("rename %s: %w", name, err)
				}
				report.Renamed = append(report.Renamed, line)
			}
		}
	}

	sort.Strings(report.Renamed)
	sort.Strings(report.Planned)
	return report, nil
}
