// Package config loads the pipeline configuration from a YAML file, with a
// small set of SREFKIT_* environment overrides for paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRecencyWindow is how long a newly added entry keeps its "new" flag.
// Historical copies of this pipeline disagreed (48h vs 7 days); 7 days is
// the documented choice here and remains overridable per config file.
const DefaultRecencyWindow = 7 * 24 * time.Hour

// Category is one image source bucketed into its own directory tree and
// manifest section.
type Category struct {
	ID     string `yaml:"id"`
	Folder string `yaml:"folder"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "48h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Window returns the duration as a time.Duration.
func (d Duration) Window() time.Duration { return time.Duration(d) }

// Social configures the promo-quadrant generator.
type Social struct {
	OutputDir string `yaml:"output_dir"`
	Quality   int    `yaml:"quality"`
}

// Config is the full pipeline configuration.
type Config struct {
	// Root is the project root all relative paths hang off.
	Root string `yaml:"root"`

	SourceRoot   string `yaml:"source_root"`
	OutputRoot   string `yaml:"output_root"`
	IngestRoot   string `yaml:"ingest_root"`
	ManifestPath string `yaml:"manifest_path"`

	Categories []Category `yaml:"categories"`
	Default    string     `yaml:"default"`

	RecencyWindow Duration `yaml:"recency_window"`
	Quality       float32  `yaml:"quality"`
	Workers       int      `yaml:"workers"`

	Social Social `yaml:"social"`
}

// Load reads and parses the configuration file, applies defaults and
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SourceRoot == "" {
		c.SourceRoot = "source-images"
	}
	if c.OutputRoot == "" {
		c.OutputRoot = "img"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = filepath.Join("api", "images.json")
	}
	if c.RecencyWindow == 0 {
		c.RecencyWindow = Duration(DefaultRecencyWindow)
	}
	if c.Quality == 0 {
		c.Quality = 5
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Social.Quality == 0 {
		c.Social.Quality = 80
	}
	if c.Default == "" && len(c.Categories) > 0 {
		c.Default = c.Categories[0].ID
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SREFKIT_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("SREFKIT_MANIFEST"); v != "" {
		c.ManifestPath = v
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("config: root is required")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("config: at least one category is required")
	}
	seen := make(map[string]bool)
	var hasDefault bool
	for _, cat := range c.Categories {
		if cat.ID == "" || cat.Folder == "" {
			return fmt.Errorf("config: category needs both id and folder")
		}
		if seen[cat.ID] {
			return fmt.Errorf("config: duplicate category id %q", cat.ID)
		}
		seen[cat.ID] = true
		if cat.ID == c.Default {
			hasDefault = true
		}
	}
	if !hasDefault {
		return fmt.Errorf("config: default %q is not a configured category", c.Default)
	}
	if c.RecencyWindow < 0 {
		return fmt.Errorf("config: recency_window must be positive")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("config: quality must be between 1 and 100")
	}
	return nil
}

// SourceDir returns the raw-PNG directory for a category.
func (c *Config) SourceDir(cat Category) string {
	return filepath.Join(c.Root, c.SourceRoot, cat.Folder)
}

// OutputDir returns the converted-output directory for a category.
func (c *Config) OutputDir(cat Category) string {
	return filepath.Join(c.Root, c.OutputRoot, cat.Folder)
}

// IngestDir returns the downloads directory for a category, or "" when no
// ingest root is configured.
func (c *Config) IngestDir(cat Category) string {
	if c.IngestRoot == "" {
		return ""
	}
	return filepath.Join(c.Root, c.IngestRoot, cat.Folder)
}

// ManifestFile returns the absolute manifest path.
func (c *Config) ManifestFile() string {
	if filepath.IsAbs(c.ManifestPath) {
		return c.ManifestPath
	}
	return filepath.Join(c.Root, c.ManifestPath)
}

// Rel converts an absolute path under Root into the slash-separated relative
// form stored in the manifest.
func (c *Config) Rel(path string) (string, error) {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
