package gallery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/imiko/srefkit/resolve"
)

// IngestReport summarizes one downloads-to-source ingest.
type IngestReport struct {
	Rename  []string
	Deleted []string
	Skipped int
	Copied  []string
	Existed []string
}

// Ingest cleans and deduplicates each category's downloads folder, then
// copies the surviving files into the source tree, skipping any file the
// source tree already has. The downloads folder keeps its files; the source
// tree is the pipeline's input from then on.
func (p *Pipeline) Ingest() (*IngestReport, error) {
	if p.Prompter == nil {
		return nil, fmt.Errorf("ingest needs a prompter")
	}
	cfg := p.Config
	if cfg.IngestRoot == "" {
		return nil, fmt.Errorf("config: ingest_root is not set")
	}

	report := &IngestReport{}
	resolver := &resolve.Resolver{Prompter: p.Prompter}

	for _, cat := range cfg.Categories {
		dir := cfg.IngestDir(cat)
		out, err := resolver.Run(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve downloads %s: %w", cat.ID, err)
		}
		report.Rename = append(report.Rename, out.Renamed...)
		report.Deleted = append(report.Deleted, out.Deleted...)
		report.Skipped += out.Skipped

		names, err := listExt(dir, ".png")
		if err != nil {
			return nil, fmt.Errorf("scan downloads %s: %w", cat.ID, err)
		}
		if len(names) == 0 {
			continue
		}

		srcDir := cfg.SourceDir(cat)
		if err := os.MkdirAll(srcDir, 0o755); err != nil {
			return nil, fmt.Errorf("create source dir: %w", err)
		}
		for _, name := range names {
			target := filepath.Join(srcDir, name)
			if _, err := os.Stat(target); err == nil {
				report.Existed = append(report.Existed, name)
				continue
			}
			if err := copyFile(filepath.Join(dir, name), target); err != nil {
				return nil, fmt.Errorf("copy %s: %w", name, err)
			}
			report.Copied = append(report.Copied, fmt.Sprintf("%s -> %s", name, cat.Folder))
			log.Debug("copied into source tree", "category", cat.ID, "file", name)
		}
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
