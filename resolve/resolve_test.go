package resolve

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/imiko/srefkit/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter replays canned decisions and records what it was asked.
type scriptedPrompter struct {
	actions   []Action
	survivors []int

	conflicts  []Conflict
	duplicates []Duplicate
}

func (p *scriptedPrompter) Conflict(c Conflict) (Action, error) {
	p.conflicts = append(p.conflicts, c)
	if len(p.actions) == 0 {
		return Skip, nil
	}
	a := p.actions[0]
	p.actions = p.actions[1:]
	return a, nil
}

func (p *scriptedPrompter) Duplicate(d Duplicate) (int, error) {
	p.duplicates = append(p.duplicates, d)
	if len(p.survivors) == 0 {
		return -1, nil
	}
	s := p.survivors[0]
	p.survivors = p.survivors[1:]
	return s, nil
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	names, err := listPNGs(dir)
	require.NoError(t, err)
	return names
}

func TestRunPlainRenames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1039__jennajuffuffles_cafe.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "2044_reef.png"), 4, 4)

	p := &scriptedPrompter{}
	out, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	assert.Empty(t, p.conflicts)
	assert.Empty(t, p.duplicates)
	assert.Equal(t, []string{"1039_cafe.png", "2044_reef.png"}, dirNames(t, dir))
	assert.Len(t, out.Renamed, 1)
	assert.True(t, out.Changed, "a plain rename is a change")
	assert.Zero(t, out.Skipped)
}

func TestRunRenameConflictRequiresDecision(t *testing.T) {
	// Both names collapse to "1_abc.png": never a silent overwrite.
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1_abc .png"), 4, 4)
	writePNG(t, filepath.Join(dir, "1_abc.png"), 8, 8)

	p := &scriptedPrompter{actions: []Action{DeleteTarget}}
	out, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	require.Len(t, p.conflicts, 1)
	assert.Equal(t, "1_abc .png", p.conflicts[0].Source)
	assert.Equal(t, "1_abc.png", p.conflicts[0].Target)
	assert.Equal(t, &Dims{Width: 4, Height: 4}, p.conflicts[0].SourceDims)
	assert.Equal(t, &Dims{Width: 8, Height: 8}, p.conflicts[0].TargetDims)

	assert.Equal(t, []string{"1_abc.png"}, dirNames(t, dir))
	assert.True(t, out.Changed)

	// The survivor is the renamed original.
	got := probeDims(filepath.Join(dir, "1_abc.png"))
	assert.Equal(t, &Dims{Width: 4, Height: 4}, got)
}

func TestRunConflictDeleteSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1_abc .png"), 4, 4)
	writePNG(t, filepath.Join(dir, "1_abc.png"), 8, 8)

	p := &scriptedPrompter{actions: []Action{DeleteSource}}
	_, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"1_abc.png"}, dirNames(t, dir))
	got := probeDims(filepath.Join(dir, "1_abc.png"))
	assert.Equal(t, &Dims{Width: 8, Height: 8}, got, "existing target kept")
}

func TestRunConflictSkipLeavesBoth(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1_abc .png"), 4, 4)
	writePNG(t, filepath.Join(dir, "1_abc.png"), 4, 4)

	p := &scriptedPrompter{actions: []Action{Skip}}
	out, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	require.Len(t, p.conflicts, 1, "skip is permanent for the run, not re-prompted")
	assert.Equal(t, []string{"1_abc .png", "1_abc.png"}, dirNames(t, dir))
	assert.Equal(t, 1, out.Skipped)
	assert.False(t, out.Changed)
}

func TestRunPrefixDuplicates(t *testing.T) {
	// Same 10-char prefix, different tails.
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1039843275_aaa.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "1039843275_bbb.png"), 4, 4)

	p := &scriptedPrompter{survivors: []int{1}}
	out, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	require.Len(t, p.duplicates, 1)
	assert.Equal(t, DupPrefix, p.duplicates[0].Kind)
	assert.Equal(t, "1039843275", p.duplicates[0].Key)

	assert.Equal(t, []string{"1039843275_bbb.png"}, dirNames(t, dir))
	assert.Equal(t, []string{"1039843275_aaa.png"}, out.Deleted)
}

func TestRunSrefDuplicates(t *testing.T) {
	// Short names never collide under the 10-char prefix rule, but the
	// strict leading-id pass catches them.
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "12_a.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "12_b.png"), 4, 4)

	p := &scriptedPrompter{survivors: []int{0}}
	_, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	require.Len(t, p.duplicates, 1)
	assert.Equal(t, DupSref, p.duplicates[0].Kind)
	assert.Equal(t, "12", p.duplicates[0].Key)
	assert.Equal(t, []string{"12_a.png"}, dirNames(t, dir))
}

func TestRunResultPairwiseDistinct(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1039843275_aaa.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "1039843275_bbb.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "12_a.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "12_b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "7_solo.png"), 4, 4)

	p := &scriptedPrompter{survivors: []int{0, 0}}
	_, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	names := dirNames(t, dir)
	prefixes := make(map[string]bool)
	srefs := make(map[string]bool)
	for _, name := range names {
		prefix := naming.PrefixKey(name)
		assert.False(t, prefixes[prefix], "prefix %q repeated", prefix)
		prefixes[prefix] = true

		if sref := naming.Sref(name); sref != "" {
			assert.False(t, srefs[sref], "sref %q repeated", sref)
			srefs[sref] = true
		}
	}
}

func TestRunDuplicateSkip(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "12_a.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "12_b.png"), 4, 4)

	p := &scriptedPrompter{}
	out, err := (&Resolver{Prompter: p}).Run(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"12_a.png", "12_b.png"}, dirNames(t, dir))
	assert.Equal(t, 1, out.Skipped)
	// One prompt per heuristic, not re-asked on the next pass.
	assert.LessOrEqual(t, len(p.duplicates), 2)
}

func TestRunEmptyOrMissingDir(t *testing.T) {
	p := &scriptedPrompter{}
	out, err := (&Resolver{Prompter: p}).Run(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.False(t, out.Changed)
}
