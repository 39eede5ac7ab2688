// Package social splits source images into four 4:5 quadrants sized for
// Instagram, bucketed into folders by each quadrant's dominant color.
package social

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/imiko/srefkit/config"
	"github.com/imiko/srefkit/convert"
	"github.com/imiko/srefkit/naming"
)

const (
	targetWidth  = 1080
	targetHeight = 1350
)

// Report summarizes one quadrant build.
type Report struct {
	Written []string
	Failed  []string
}

// Builder generates promo quadrants for every source image carrying an
// sref. OutputDir overrides the configured social output directory.
type Builder struct {
	Config    *config.Config
	OutputDir string
}

func (b *Builder) outputDir() string {
	if b.OutputDir != "" {
		return b.OutputDir
	}
	if b.Config.Social.OutputDir != "" {
		return b.Config.Social.OutputDir
	}
	return filepath.Join(b.Config.Root, "social")
}

// Run builds quadrants for all categories on a bounded worker group. Per-
// file failures are reported; the batch continues.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	cfg := b.Config
	outDir := b.outputDir()

	type job struct {
		cat config.Category
		src string
	}
	var jobs []job
	for _, cat := range cfg.Categories {
		matches, err := filepath.Glob(filepath.Join(cfg.SourceDir(cat), "*.png"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			jobs = append(jobs, job{cat: cat, src: m})
		}
	}
	log.Info("building promo quadrants", "images", len(jobs), "out", outDir)

	report := &Report{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobCh := make(chan job)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				written, err := b.buildOne(j.cat, j.src, outDir)
				mu.Lock()
				if err != nil {
					report.Failed = append(report.Failed, fmt.Sprintf("%s: %v", filepath.Base(j.src), err))
				} else {
					report.Written = append(report.Written, written...)
				}
				mu.Unlock()
			}
		}()
	}

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()

	sort.Strings(report.Written)
	sort.Strings(report.Failed)
	return report, ctx.Err()
}

// buildOne cuts one source image into four quadrants and writes each under
// its color folder.
func (b *Builder) buildOne(cat config.Category, src, outDir string) ([]string, error) {
	name := filepath.Base(src)
	sref := naming.Sref(name)
	if sref == "" {
		return nil, fmt.Errorf("no sref in %s", name)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	flat := convert.Flatten(img)

	var written []string
	for q, quadrant := range Quadrants(flat) {
		c := Classify(Dominant(quadrant))
		dst := filepath.Join(outDir, c, fmt.Sprintf("%s_%s_quadrant%d.jpg", cat.ID, sref, q+1))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, err
		}
		if err := imaging.Save(quadrant, dst, imaging.JPEGQuality(b.Config.Social.Quality)); err != nil {
			return written, fmt.Errorf("save quadrant %d: %w", q+1, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

// Quadrants center-crops the image square, quarters it, crops each quarter
// to 4:5 and resizes to the Instagram target size.
func Quadrants(img image.Image) [4]*image.NRGBA {
	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	square := imaging.CropCenter(img, side, side)

	half := side / 2
	rects := [4]image.Rectangle{
		image.Rect(0, 0, half, half),
		image.Rect(half, 0, side, half),
		image.Rect(0, half, half, side),
		image.Rect(half, half, side, side),
	}

	var out [4]*image.NRGBA
	for i, r := range rects {
		quarter := imaging.Crop(square, r)
		out[i] = imaging.Resize(cropToPortrait(quarter), targetWidth, targetHeight, imaging.Lanczos)
	}
	return out
}

// cropToPortrait center-crops to a 4:5 aspect ratio when the quarter is not
// already portrait enough.
func cropToPortrait(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	switch {
	case float64(w) > float64(h)*0.8:
		return imaging.CropCenter(img, int(float64(h)*0.8), h)
	case float64(h) > float64(w)*1.25:
		return imaging.CropCenter(img, w, int(float64(w)*1.25))
	default:
		return img
	}
}
