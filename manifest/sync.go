package manifest

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// SyncOptions controls one reconciliation pass.
type SyncOptions struct {
	// Now is the timestamp stamped onto newly added entries and compared
	// against the recency window.
	Now time.Time
	// Window is how long an entry stays flagged "new" after being added.
	Window time.Duration
	// Default is the category marker written to the new manifest.
	Default string
}

// Changes is the structured summary of one Sync.
type Changes struct {
	// Added holds paths that had no previous entry.
	Added []string
	// Removed holds previously tracked paths absent from the current
	// output set. Reported only; the new manifest simply omits them.
	Removed []string
	// AgedOut holds paths whose "new" flag dropped this pass.
	AgedOut []string
	// NewCount is the number of currently "new" entries per category.
	NewCount map[string]int
}

// Sync reconciles the current output set against a previously persisted
// manifest and returns the new manifest plus a change summary. prev is not
// modified. outputs maps category id to the relative paths of every output
// that exists after this run, converted or pre-existing; names carries the
// display name per category used when prev has none.
//
// Entries keep their stored timestamp when the path was already tracked, so
// running Sync twice with identical inputs inside one window tick yields an
// identical manifest.
func Sync(prev *Manifest, outputs map[string][]string, names map[string]string, opts SyncOptions) (*Manifest, *Changes) {
	cutoff := opts.Now.Add(-opts.Window)

	next := &Manifest{
		Sets:    make(map[string]*Set, len(outputs)),
		Default: opts.Default,
	}
	changes := &Changes{NewCount: make(map[string]int, len(outputs))}

	categories := make([]string, 0, len(outputs))
	for cat := range outputs {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		prevSet := prev.Sets[cat]
		prevByPath := make(map[string]Entry)
		if prevSet != nil {
			for _, img := range prevSet.Images {
				prevByPath[img.Path] = img
			}
		}

		paths := append([]string(nil), outputs[cat]...)
		sort.Strings(paths)

		images := make([]Entry, 0, len(paths))
		current := make(map[string]bool, len(paths))
		for _, path := range paths {
			if current[path] {
				continue
			}
			current[path] = true

			old, known := prevByPath[path]
			entry := Entry{Path: path}
			if known {
				entry.DateAdded = old.DateAdded
			} else {
				entry.DateAdded = FormatDate(opts.Now)
				changes.Added = append(changes.Added, path)
			}

			added, err := ParseDate(entry.DateAdded)
			if err != nil {
				// Unparseable legacy timestamp: keep the entry, treat
				// it as old.
				log.Warn("bad dateadded", "path", path, "err", err)
			} else if added.After(cutoff) {
				entry.New = true
				changes.NewCount[cat]++
			}
			if known && old.New && !entry.New {
				changes.AgedOut = append(changes.AgedOut, path)
			}
			images = append(images, entry)
		}

		if prevSet != nil {
			for _, img := range prevSet.Images {
				if !current[img.Path] {
					changes.Removed = append(changes.Removed, img.Path)
				}
			}
		}

		name := cat
		if prevSet != nil && prevSet.Name != "" {
			name = prevSet.Name
		} else if n := names[cat]; n != "" {
			name = n
		}
		next.Sets[cat] = &Set{Name: name, Images: images}
	}

	sort.Strings(changes.Removed)
	return next, changes
}
