// Package naming holds the pure filename transforms the pipeline is built
// on: cleaning raw downloaded names into canonical form, extracting the
// leading sref id, and deriving output names and shard folders.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// noiseRE matches known junk substrings injected by the image generators'
// download flow. Stripped case-insensitively before anything else.
var noiseRE = regexp.MustCompile(`(?i)jennajuffuffles|mermaid`)

var (
	spaceRE      = regexp.MustCompile(`\s+`)
	underscoreRE = regexp.MustCompile(`_+`)
	srefRE       = regexp.MustCompile(`^\d+`)
)

// Clean returns the canonical form of a raw filename: noise substrings
// removed, whitespace deleted, underscore runs collapsed, leading and
// trailing underscores trimmed, and at most one underscore kept between the
// sref segment and the remainder. Clean is total and idempotent.
func Clean(name string) string {
	name = noiseRE.ReplaceAllString(name, "")
	name = spaceRE.ReplaceAllString(name, "")
	name = underscoreRE.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	return name
}

// Sref returns the leading digit run of name, or "" when the name does not
// start with a digit.
func Sref(name string) string {
	return srefRE.FindString(name)
}

// PrefixKey returns the first 10 characters of name, used as the coarse
// duplicate-grouping key. Names shorter than 10 characters are their own key.
func PrefixKey(name string) string {
	if len(name) > 10 {
		return name[:10]
	}
	return name
}

// ShardDigit returns the output subfolder for a filename: its first
// character when that is a digit, otherwise "0". Purely a sharding scheme
// to keep folder listings small.
func ShardDigit(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return name[:1]
	}
	return "0"
}

// OutputName returns the converted-output filename for a source PNG: the
// cleaned name with its extension swapped to .webp.
func OutputName(pngName string) string {
	clean := Clean(pngName)
	ext := filepath.Ext(clean)
	return strings.TrimSuffix(clean, ext) + ".webp"
}

// SrefOnly collapses a filename down to "<sref><ext>". The second return is
// false when the name carries no leading sref and cannot be collapsed.
func SrefOnly(name string) (string, bool) {
	ext := filepath.Ext(name)
	sref := Sref(strings.TrimSuffix(name, ext))
	if sref == "" {
		return name, false
	}
	return sref + ext, true
}
