package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleConflict = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}).Bold(true)
	styleDupHead  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}).Bold(true)
	styleFile     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"})
)

// Console is the interactive Prompter: single-character choices read from
// in, re-prompting on invalid input. EOF yields ErrAborted.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console reading choices from in and writing prompts
// to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Conflict implements Prompter.
func (c *Console) Conflict(conflict Conflict) (Action, error) {
	fmt.Fprintf(c.out, "\n%s %s would be renamed to %s, but it already exists.\n",
		styleConflict.Render("CONFLICT:"), styleFile.Render(conflict.Source), styleFile.Render(conflict.Target))
	c.printSizes(conflict.SourceDims, conflict.TargetDims)

	for {
		fmt.Fprintf(c.out, "Delete (1) original [%s], (2) existing [%s], or (s)kip? [1/2/s]: ",
			conflict.Source, conflict.Target)
		choice, err := c.read()
		if err != nil {
			return Skip, err
		}
		switch choice {
		case "1":
			return DeleteSource, nil
		case "2":
			return DeleteTarget, nil
		case "s":
			return Skip, nil
		}
		fmt.Fprintln(c.out, "Invalid input. Please enter 1, 2, or s.")
	}
}

// Duplicate implements Prompter.
func (c *Console) Duplicate(d Duplicate) (int, error) {
	fmt.Fprintf(c.out, "\n%s %d files share %s id %q:\n",
		styleDupHead.Render("DUPLICATES:"), len(d.Files), d.Kind, d.Key)
	for i, name := range d.Files {
		var dims *Dims
		if i < len(d.Dims) {
			dims = d.Dims[i]
		}
		fmt.Fprintf(c.out, "  %d) %s (%s)\n", i+1, styleFile.Render(name), dims)
	}
	c.annotateEqualSizes(d.Dims)

	for {
		fmt.Fprintf(c.out, "Keep which file? Enter choice [1-%d/s]: ", len(d.Files))
		choice, err := c.read()
		if err != nil {
			return -1, err
		}
		if choice == "s" {
			return -1, nil
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(d.Files) {
			return n - 1, nil
		}
		fmt.Fprintf(c.out, "Invalid input. Please enter a number between 1 and %d, or s.\n", len(d.Files))
	}
}

// printSizes surfaces dimension facts as decision support. Sizes never
// drive a decision automatically.
func (c *Console) printSizes(a, b *Dims) {
	switch {
	case a == nil || b == nil:
		fmt.Fprintln(c.out, "Could not determine image sizes.")
	case *a == *b:
		fmt.Fprintf(c.out, "Images have the same size: %s\n", a)
	default:
		fmt.Fprintf(c.out, "Images have different sizes: %s vs %s\n", a, b)
	}
}

func (c *Console) annotateEqualSizes(dims []*Dims) {
	if len(dims) < 2 || dims[0] == nil {
		return
	}
	for _, d := range dims[1:] {
		if d == nil || *d != *dims[0] {
			return
		}
	}
	fmt.Fprintf(c.out, "All files have the same size: %s\n", dims[0])
}

func (c *Console) read() (string, error) {
	line, err := c.in.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", ErrAborted
	}
	return line, nil
}
