package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNotExist(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "images.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Sets)
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "images.json")

	m := &Manifest{
		Sets: map[string]*Set{
			"niji6": {
				Name: "NijiJourney 6",
				Images: []Entry{
					{Path: "img/niji-6/1/1039.webp", DateAdded: "2026-08-20T10:00:00Z", New: true},
					{Path: "img/niji-6/2/2044.webp", DateAdded: "2026-01-02T03:04:05Z"},
				},
			},
		},
		Default: "niji6",
	}
	require.NoError(t, m.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, got.Sets, "niji6")
	assert.Equal(t, "NijiJourney 6", got.Sets["niji6"].Name)
	require.Len(t, got.Sets["niji6"].Images, 2)
	assert.True(t, got.Sets["niji6"].Images[0].New)
	assert.Equal(t, "niji6", got.Default)
}

func TestWriteLoadByteStable(t *testing.T) {
	// Legacy fractional timestamps must survive a load/save cycle
	// untouched.
	dir := t.TempDir()
	path := filepath.Join(dir, "images.json")

	m := &Manifest{
		Sets: map[string]*Set{
			"mj7": {
				Name: "Midjourney 7",
				Images: []Entry{
					{Path: "img/midjourney-7/3/3001.webp", DateAdded: "2025-11-30T08:15:22.123456Z"},
				},
			},
		},
		Default: "mj7",
	}
	require.NoError(t, m.Write(path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Write(path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestFormatParseDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s := FormatDate(now)
	assert.Equal(t, "2026-08-31T12:00:00Z", s)

	parsed, err := ParseDate(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))

	fractional, err := ParseDate("2026-08-31T12:00:00.500000Z")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, time.Duration(fractional.Nanosecond()))

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	m := &Manifest{
		Sets: map[string]*Set{
			"niji6": {Images: []Entry{{Path: "a"}, {Path: "b"}}},
		},
	}
	assert.Equal(t, []string{"a", "b"}, m.Paths("niji6"))
	assert.Nil(t, m.Paths("mj7"))
}
