// Package convert turns source PNGs into small lossy WebP files for web
// delivery. Transparency is flattened onto white before encoding: the
// gallery has no use for alpha, and the loss is intentional.
package convert

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// DefaultQuality favors file size over fidelity. Thumbnails in the gallery
// are small enough that artifacts do not show.
const DefaultQuality float32 = 5

type opaquer interface {
	Opaque() bool
}

// Flatten returns img composited onto an opaque white background. Already
// opaque images are cloned unchanged.
func Flatten(img image.Image) *image.NRGBA {
	if o, ok := img.(opaquer); ok && o.Opaque() {
		return imaging.Clone(img)
	}
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// ToWebP converts the image at src into a lossy WebP at dst, creating
// parent directories as needed. A failure leaves no partial file behind.
func ToWebP(src, dst string, quality float32) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(src), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	flat := Flatten(img)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if err := webp.Encode(out, flat, opts); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("encode %s: %w", filepath.Base(dst), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
