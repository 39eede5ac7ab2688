package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "srefkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
root: /data/gallery
categories:
  - id: niji6
    folder: niji-6
  - id: mj7
    folder: midjourney-7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "source-images", cfg.SourceRoot)
	assert.Equal(t, "img", cfg.OutputRoot)
	assert.Equal(t, filepath.Join("api", "images.json"), cfg.ManifestPath)
	assert.Equal(t, DefaultRecencyWindow, cfg.RecencyWindow.Window())
	assert.Equal(t, float32(5), cfg.Quality)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "niji6", cfg.Default, "defaults to first category")
}

func TestLoadExplicitWindow(t *testing.T) {
	path := writeConfig(t, `
root: /data/gallery
recency_window: 48h
categories:
  - id: niji6
    folder: niji-6
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.RecencyWindow.Window())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SREFKIT_ROOT", "/elsewhere")

	path := writeConfig(t, `
root: /data/gallery
categories:
  - id: niji6
    folder: niji-6
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", cfg.Root)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing root",
			body: "categories:\n  - id: a\n    folder: a\n",
			want: "root is required",
		},
		{
			name: "no categories",
			body: "root: /data\n",
			want: "at least one category",
		},
		{
			name: "duplicate category id",
			body: "root: /data\ncategories:\n  - id: a\n    folder: x\n  - id: a\n    folder: y\n",
			want: "duplicate category",
		},
		{
			name: "unknown default",
			body: "root: /data\ndefault: nope\ncategories:\n  - id: a\n    folder: x\n",
			want: "not a configured category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := &Config{
		Root:         "/data/gallery",
		SourceRoot:   "source-images",
		OutputRoot:   "img",
		ManifestPath: "api/images.json",
	}
	cat := Category{ID: "niji6", Folder: "niji-6"}

	assert.Equal(t, filepath.Join("/data/gallery", "source-images", "niji-6"), cfg.SourceDir(cat))
	assert.Equal(t, filepath.Join("/data/gallery", "img", "niji-6"), cfg.OutputDir(cat))
	assert.Equal(t, filepath.Join("/data/gallery", "api", "images.json"), cfg.ManifestFile())
	assert.Equal(t, "", cfg.IngestDir(cat), "no ingest root configured")

	rel, err := cfg.Rel(filepath.Join("/data/gallery", "img", "niji-6", "1", "1039.webp"))
	require.NoError(t, err)
	assert.Equal(t, "img/niji-6/1/1039.webp", rel)
}
