package social

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Classify buckets a color into the gallery's promo folders. Low-saturation
// colors go to black or white by brightness; everything else is bucketed by
// hue. The hue boundaries are integer ranges with small gaps between them;
// a hue landing in a gap falls through to "misc", matching the established
// folder layout.
func Classify(c RGB) string {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	brightness := (r + g + b) / 3
	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))

	var saturation float64
	if maxVal > 0 {
		saturation = (maxVal - minVal) / maxVal
	}

	if saturation < 0.15 {
		if brightness > 180 {
			return "white"
		}
		return "black"
	}
	if maxVal == minVal {
		return "white"
	}

	hue := hueDegrees(r, g, b)
	switch {
	case hue <= 12 || hue >= 348:
		return "red"
	case 13 <= hue && hue <= 40:
		return "orange"
	case 41 <= hue && hue <= 70:
		return "yellow"
	case 71 <= hue && hue <= 169:
		return "green"
	case 170 <= hue && hue <= 250:
		return "blue"
	case 251 <= hue && hue <= 275:
		return "indigo"
	case 276 <= hue && hue <= 347:
		return "violet"
	default:
		return "misc"
	}
}

// hueDegrees returns the HSV hue of an RGB triple in [0, 360).
func hueDegrees(r, g, b float64) float64 {
	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal
	if delta == 0 {
		return 0
	}
	var hue float64
	switch maxVal {
	case r:
		hue = math.Mod((g-b)/delta, 6)
	case g:
		hue = (b-r)/delta + 2
	default:
		hue = (r-g)/delta + 4
	}
	hue *= 60
	if hue < 0 {
		hue += 360
	}
	return hue
}

// hsv returns saturation and value of an RGB triple, both in [0, 1].
func hsv(c RGB) (s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	if maxVal > 0 {
		s = (maxVal - minVal) / maxVal
	}
	return s, maxVal
}

// Dominant returns the dominant subject color of a quadrant: the most
// frequent pixel among the center 60% after filtering out washed-out,
// near-black and near-white background pixels. When nothing survives the
// filter, the plain average of the center is used instead.
func Dominant(img image.Image) RGB {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	left := int(float64(w) * 0.2)
	top := int(float64(h) * 0.2)
	right := int(float64(w) * 0.8)
	bottom := int(float64(h) * 0.8)

	center := imaging.Crop(img, image.Rect(bounds.Min.X+left, bounds.Min.Y+top, bounds.Min.X+right, bounds.Min.Y+bottom))
	// 40x40 keeps the frequency count cheap without losing the mode.
	center = imaging.Resize(center, 40, 40, imaging.NearestNeighbor)

	counts := make(map[RGB]int)
	var sumR, sumG, sumB, n int
	for y := 0; y < center.Bounds().Dy(); y++ {
		for x := 0; x < center.Bounds().Dx(); x++ {
			px := center.NRGBAAt(x, y)
			c := RGB{R: px.R, G: px.G, B: px.B}
			sumR += int(c.R)
			sumG += int(c.G)
			sumB += int(c.B)
			n++

			s, v := hsv(c)
			if s > 0.25 && v > 0.15 && v < 0.95 {
				counts[c]++
			}
		}
	}

	var best RGB
	bestCount := 0
	for c, count := range counts {
		if count > bestCount {
			best, bestCount = c, count
		}
	}
	if bestCount > 0 {
		return best
	}
	if n == 0 {
		return RGB{}
	}
	return RGB{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n)}
}
