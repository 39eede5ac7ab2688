package manifest

import (
	"sort"
	"time"

	"github.com/imiko/srefkit/naming"
)

// Dedupe drops repeated paths within each category, keeping the first
// occurrence. Returns the dropped paths.
func (m *Manifest) Dedupe() []string {
	var removed []string
	for _, set := range m.Sets {
		seen := make(map[string]bool, len(set.Images))
		kept := set.Images[:0]
		for _, img := range set.Images {
			if seen[img.Path] {
				removed = append(removed, img.Path)
				continue
			}
			seen[img.Path] = true
			kept = append(kept, img)
		}
		set.Images = kept
	}
	sort.Strings(removed)
	return removed
}

// Expire clears the "new" flag on entries whose add timestamp is older than
// now minus age. Returns the paths whose flag was cleared.
func (m *Manifest) Expire(age time.Duration, now time.Time) []string {
	cutoff := now.Add(-age)
	var cleared []string
	for _, set := range m.Sets {
		for i, img := range set.Images {
			if !img.New {
				continue
			}
			added, err := ParseDate(img.DateAdded)
			if err != nil {
				continue
			}
			if added.Before(cutoff) {
				set.Images[i].New = false
				cleared = append(cleared, img.Path)
			}
		}
	}
	sort.Strings(cleared)
	return cleared
}

// Relink rewrites entry paths to the sref-only filename form, e.g.
// "img/niji-6/1/1039_cafe.webp" becomes "img/niji-6/1/1039.webp". Entries
// without a leading sref, or already collapsed, are left alone. Returns the
// rewritten paths in their new form. Entries are re-sorted afterwards.
func (m *Manifest) Relink() []string {
	var changed []string
	for _, set := range m.Sets {
		for i, img := range set.Images {
			dir, base := splitPath(img.Path)
			collapsed, ok := naming.SrefOnly(base)
			if !ok || collapsed == base {
				continue
			}
			set.Images[i].Path = dir + collapsed
			changed = append(changed, set.Images[i].Path)
		}
		sort.Slice(set.Images, func(a, b int) bool {
			return set.Images[a].Path < set.Images[b].Path
		})
	}
	sort.Strings(changed)
	return changed
}

// splitPath splits a slash-separated manifest path into its directory part
// (trailing slash included, possibly empty) and base name.
func splitPath(path string) (dir, base string) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i+1], path[i+1:]
		}
	}
	return "", path
}

// AuditReport is the result of comparing the manifest against the outputs
// actually on disk.
type AuditReport struct {
	// MissingOnDisk holds tracked paths with no file behind them, per
	// category.
	MissingOnDisk map[string][]string
	// Untracked holds on-disk outputs absent from the manifest, per
	// category.
	Untracked map[string][]string
}

// Clean reports whether the audit found no discrepancies.
func (r *AuditReport) Clean() bool {
	for _, v := range r.MissingOnDisk {
		if len(v) > 0 {
			return false
		}
	}
	for _, v := range r.Untracked {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Audit set-compares the manifest's tracked paths against disk, the on-disk
// output paths per category.
func Audit(m *Manifest, disk map[string][]string) *AuditReport {
	report := &AuditReport{
		MissingOnDisk: make(map[string][]string),
		Untracked:     make(map[string][]string),
	}
	for cat, set := range m.Sets {
		onDisk := make(map[string]bool)
		for _, path := range disk[cat] {
			onDisk[path] = true
		}
		tracked := make(map[string]bool, len(set.Images))
		for _, img := range set.Images {
			tracked[img.Path] = true
			if !onDisk[img.Path] {
				report.MissingOnDisk[cat] = append(report.MissingOnDisk[cat], img.Path)
			}
		}
		for _, path := range disk[cat] {
			if !tracked[path] {
				report.Untracked[cat] = append(report.Untracked[cat], path)
			}
		}
		sort.Strings(report.MissingOnDisk[cat])
		sort.Strings(report.Untracked[cat])
	}
	return report
}
