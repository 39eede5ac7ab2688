// Package report pretty-prints pipeline run reports to the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/imiko/srefkit/gallery"
)

const defaultWidth = 100

// Renderer writes run reports as sectioned, ANSI-colored text.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int
}

// Render writes the full run report to w.
func (r *Renderer) Render(w io.Writer, rep *gallery.RunReport) {
	width := r.termWidth()

	r.section(w, width, "RENAME")
	writeLines(w, styleLine, rep.Rename, "nothing renamed")
	for _, d := range rep.Deleted {
		fmt.Fprintln(w, styleRemoved.Render("  Deleted: "+d))
	}
	if rep.Skipped > 0 {
		fmt.Fprintf(w, "%s\n", styleAged.Render(fmt.Sprintf("  %d conflict(s) skipped, left in place", rep.Skipped)))
	}

	r.section(w, width, "CONVERT")
	writeLines(w, styleLine, rep.Convert, "nothing to convert")

	r.section(w, width, "MANIFEST CHANGES")
	if rep.Changes == nil {
		fmt.Fprintln(w, styleLine.Render("  manifest untouched"))
	} else {
		fmt.Fprintf(w, "%s %d\n", styleStat.Render("  Added:"), len(rep.Changes.Added))
		for _, a := range rep.Changes.Added {
			fmt.Fprintln(w, styleAdded.Render("    + "+a))
		}
		fmt.Fprintf(w, "%s %d\n", styleStat.Render("  Removed:"), len(rep.Changes.Removed))
		for _, rm := range rep.Changes.Removed {
			fmt.Fprintln(w, styleRemoved.Render("    - "+rm))
		}
		fmt.Fprintf(w, "%s %d\n", styleStat.Render("  Aged out:"), len(rep.Changes.AgedOut))
		for _, u := range rep.Changes.AgedOut {
			fmt.Fprintln(w, styleAged.Render("    * "+u))
		}

		r.section(w, width, "NEW BY CATEGORY")
		cats := make([]string, 0, len(rep.Changes.NewCount))
		for cat := range rep.Changes.NewCount {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Fprintf(w, "  %s: %d\n", cat, rep.Changes.NewCount[cat])
		}
	}

	r.section(w, width, "EFFICIENCY")
	total := rep.Totals()
	fmt.Fprintf(w, "  PNG files found:   %s\n", styleStat.Render(fmt.Sprintf("%d", total.Found)))
	fmt.Fprintf(w, "  Converted:         %s\n", styleStat.Render(fmt.Sprintf("%d", total.Converted)))
	fmt.Fprintf(w, "  Failed:            %s\n", styleStat.Render(fmt.Sprintf("%d", total.Failed)))
	fmt.Fprintf(w, "  Skipped (existed): %s\n", styleStat.Render(fmt.Sprintf("%d", total.Skipped)))
	fmt.Fprintf(w, "  Orphans swept in:  %s\n", styleStat.Render(fmt.Sprintf("%d", total.Orphans)))
	if total.Found > 0 {
		pct := float64(total.Skipped) / float64(total.Found) * 100
		fmt.Fprintf(w, "  Efficiency gain:   %s\n", styleStat.Render(fmt.Sprintf("%.1f%% of files skipped", pct)))
	}
	fmt.Fprintf(w, "  Total time:        %s\n", styleStat.Render(fmt.Sprintf("%.2fs", rep.Elapsed.Seconds())))
	if n := total.Converted; n > 0 {
		fmt.Fprintf(w, "  Avg per file:      %s\n", styleStat.Render(fmt.Sprintf("%.3fs", rep.Elapsed.Seconds()/float64(n))))
	}
	fmt.Fprintln(w)
}

func (r *Renderer) section(w io.Writer, width int, title string) {
	rule := strings.Repeat("-", max(3, (width-len(title)-6)/2))
	fmt.Fprintf(w, "\n%s\n", styleSection.Render(rule+"[ "+title+" ]"+rule))
}

func writeLines(w io.Writer, style interface{ Render(...string) string }, lines []string, emptyNote string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, styleLine.Render("  "+emptyNote))
		return
	}
	for _, line := range lines {
		fmt.Fprintln(w, style.Render("  "+line))
	}
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}
