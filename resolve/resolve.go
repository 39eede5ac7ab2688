// Package resolve turns a directory of raw downloads into a conflict-free,
// duplicate-free set of canonically named files. Every ambiguous case is
// deferred to a Prompter; nothing is auto-resolved.
package resolve

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/imiko/srefkit/naming"
)

// ErrAborted is returned when the operator closes stdin mid-resolution.
var ErrAborted = errors.New("resolution aborted")

// Action is the operator's choice for a rename conflict.
type Action int

const (
	// DeleteSource removes the original file; the existing target stays.
	DeleteSource Action = iota
	// DeleteTarget removes the existing target, then renames the
	// original into its place.
	DeleteTarget
	// Skip leaves both files in place for the rest of the run.
	Skip
)

// Dims is an image's pixel dimensions, probed without a full decode.
type Dims struct {
	Width  int
	Height int
}

func (d *Dims) String() string {
	if d == nil {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Conflict is a rename collision: Source's canonical name is already taken
// by Target. Dimensions are decision-support only and may be nil when a
// file cannot be decoded.
type Conflict struct {
	Dir        string
	Source     string
	Target     string
	SourceDims *Dims
	TargetDims *Dims
}

// DupKind says which grouping heuristic flagged a duplicate group. The two
// heuristics can disagree on edge cases and are deliberately both kept.
type DupKind int

const (
	// DupPrefix groups by the first 10 characters of the canonical name.
	DupPrefix DupKind = iota
	// DupSref groups strictly by the leading numeric id.
	DupSref
)

func (k DupKind) String() string {
	if k == DupSref {
		return "sref"
	}
	return "prefix"
}

// Duplicate is a group of files sharing a grouping key. The operator picks
// one survivor; the rest are deleted.
type Duplicate struct {
	Dir   string
	Key   string
	Kind  DupKind
	Files []string
	Dims  []*Dims
}

// Prompter supplies the operator's decisions. Implementations must reject
// invalid input themselves and only ever return a valid choice.
type Prompter interface {
	// Conflict resolves a rename collision.
	Conflict(c Conflict) (Action, error)
	// Duplicate returns the index of the surviving file, or -1 to skip
	// the whole group.
	Duplicate(d Duplicate) (int, error)
}

// Outcome summarizes one Run.
type Outcome struct {
	// Renamed holds human-readable rename log lines.
	Renamed []string
	// Deleted holds the names of files removed by operator choice.
	Deleted []string
	// Skipped counts conflicts and duplicate groups the operator left
	// unresolved.
	Skipped int
	// Changed reports whether any file was renamed or deleted.
	Changed bool
}

// Resolver drives the scan/resolve loop over one directory.
type Resolver struct {
	Prompter Prompter
}

// Run scans dir until a full pass makes no changes: renames files to their
// canonical names, resolving collisions via the Prompter, then runs the
// prefix and sref duplicate passes. Resolving one case can free or claim a
// name another file wants, hence the outer loop. Skipped cases stay skipped
// for the whole run.
func (r *Resolver) Run(dir string) (*Outcome, error) {
	out := &Outcome{}
	skipped := make(map[string]bool)

	for {
		changed, err := r.pass(dir, out, skipped)
		if err != nil {
			return out, err
		}
		if !changed {
			return out, nil
		}
		log.Debug("re-scanning after resolution", "dir", dir)
	}
}

func (r *Resolver) pass(dir string, out *Outcome, skipped map[string]bool) (bool, error) {
	changed := false

	names, err := listPNGs(dir)
	if err != nil {
		return false, err
	}

	// Rename stage: bring every file to its canonical name, prompting on
	// collisions.
	for _, name := range names {
		clean := naming.Clean(name)
		if clean == name {
			continue
		}
		src := filepath.Join(dir, name)
		dst := filepath.Join(dir, clean)

		if _, err := os.Stat(src); err != nil {
			// Deleted earlier in this pass.
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			key := "conflict|" + name + "|" + clean
			if skipped[key] {
				continue
			}
			action, err := r.Prompter.Conflict(Conflict{
				Dir:        dir,
				Source:     name,
				Target:     clean,
				SourceDims: probeDims(src),
				TargetDims: probeDims(dst),
			})
			if err != nil {
				return changed, err
			}
			switch action {
			case DeleteSource:
				if err := os.Remove(src); err != nil {
					return changed, fmt.Errorf("delete %s: %w", src, err)
				}
				out.Deleted = append(out.Deleted, name)
				changed = true
			case DeleteTarget:
				if err := os.Remove(dst); err != nil {
					return changed, fmt.Errorf("delete %s: %w", dst, err)
				}
				if err := os.Rename(src, dst); err != nil {
					return changed, fmt.Errorf("rename %s: %w", src, err)
				}
				out.Deleted = append(out.Deleted, clean)
				out.Renamed = append(out.Renamed, fmt.Sprintf("Renamed: %s -> %s (existing deleted)", name, clean))
				changed = true
			case Skip:
				skipped[key] = true
				out.Skipped++
			}
			continue
		}

		if err := os.Rename(src, dst); err != nil {
			return changed, fmt.Errorf("rename %s: %w", src, err)
		}
		out.Renamed = append(out.Renamed, fmt.Sprintf("Renamed: %s -> %s", name, clean))
		// Terminates: the cleaned name re-cleans to itself next pass.
		changed = true
	}

	dupChanged, err := r.dupPass(dir, DupPrefix, out, skipped)
	if err != nil {
		return changed, err
	}
	changed = changed || dupChanged

	dupChanged, err = r.dupPass(dir, DupSref, out, skipped)
	if err != nil {
		return changed, err
	}
	changed = changed || dupChanged

	if changed {
		out.Changed = true
	}
	return changed, nil
}

// dupPass groups the directory's files under one heuristic and prompts for
// a survivor per multi-member group.
func (r *Resolver) dupPass(dir string, kind DupKind, out *Outcome, skipped map[string]bool) (bool, error) {
	names, err := listPNGs(dir)
	if err != nil {
		return false, err
	}

	groups := make(map[string][]string)
	for _, name := range names {
		var key string
		switch kind {
		case DupPrefix:
			key = naming.PrefixKey(name)
		case DupSref:
			key = naming.Sref(name)
			if key == "" {
				continue
			}
		}
		groups[key] = append(groups[key], name)
	}

	keys := make([]string, 0, len(groups))
	for key, members := range groups {
		if len(members) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	changed := false
	for _, key := range keys {
		members := groups[key]
		skipKey := fmt.Sprintf("dup|%s|%s|%v", kind, key, members)
		if skipped[skipKey] {
			continue
		}

		dup := Duplicate{Dir: dir, Key: key, Kind: kind, Files: members}
		for _, name := range members {
			dup.Dims = append(dup.Dims, probeDims(filepath.Join(dir, name)))
		}

		survivor, err := r.Prompter.Duplicate(dup)
		if err != nil {
			return changed, err
		}
		if survivor < 0 {
			skipped[skipKey] = true
			out.Skipped++
			continue
		}
		for i, name := range members {
			if i == survivor {
				continue
			}
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return changed, fmt.Errorf("delete %s: %w", name, err)
			}
			out.Deleted = append(out.Deleted, name)
			changed = true
		}
	}
	return changed, nil
}

// listPNGs returns the sorted base names of the directory's PNG files. A
// missing directory is treated as empty.
func listPNGs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// probeDims reads an image's dimensions without decoding pixel data.
// Returns nil when the file is unreadable or not a known format.
func probeDims(path string) *Dims {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil
	}
	return &Dims{Width: cfg.Width, Height: cfg.Height}
}
