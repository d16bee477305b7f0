package imaging

import (
	"image"
	"image/color"
	"math"
)

// sampleDivisor sets the sparse scan grid: each scanned row or column is
// sampled at about this many evenly spaced points.
const sampleDivisor = 20

// TrimBounds returns the sub-rectangle of img left after removing near-white
// borders. Each edge is scanned inward up to the middle; the first row or
// column containing a sampled non-border pixel stops that edge. An edge whose
// whole half is border is left untrimmed. The combined trim per axis never
// exceeds maxTrimPercent of that axis: any excess is given back split between
// the two sides, so a capped axis is trimmed by exactly the cap.
func TrimBounds(img image.Image, maxTrimPercent float64, threshold uint8) image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return b
	}

	isBorder := func(x, y int) bool {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		return c.R >= threshold && c.G >= threshold && c.B >= threshold
	}
	colStep := max(1, h/sampleDivisor)
	rowStep := max(1, w/sampleDivisor)
	columnIsBorder := func(x int) bool {
		for y := 0; y < h; y += colStep {
			if !isBorder(x, y) {
				return false
			}
		}
		return true
	}
	rowIsBorder := func(y int) bool {
		for x := 0; x < w; x += rowStep {
			if !isBorder(x, y) {
				return false
			}
		}
		return true
	}

	left, right, top, bottom := 0, w, 0, h
	for x := 0; x < w/2; x++ {
		if !columnIsBorder(x) {
			left = x
			break
		}
	}
	for x := w - 1; x > w/2; x-- {
		if !columnIsBorder(x) {
			right = x + 1
			break
		}
	}
	for y := 0; y < h/2; y++ {
		if !rowIsBorder(y) {
			top = y
			break
		}
	}
	for y := h - 1; y > h/2; y-- {
		if !rowIsBorder(y) {
			bottom = y + 1
			break
		}
	}

	left, right = capTrim(left, right, w, int(float64(w)*maxTrimPercent))
	top, bottom = capTrim(top, bottom, h, int(float64(h)*maxTrimPercent))

	return image.Rect(b.Min.X+left, b.Min.Y+top, b.Min.X+right, b.Min.Y+bottom)
}

// capTrim limits the trim of [lo, hi) within [0, size) to limit pixels in
// total, pulling both sides back toward the original edges.
func capTrim(lo, hi, size, limit int) (int, int) {
	limit = max(0, limit)
	trimLo, trimHi := lo, size-hi
	excess := trimLo + trimHi - limit
	if excess <= 0 {
		return lo, hi
	}
	backLo := min(trimLo, excess/2)
	backHi := min(trimHi, excess-backLo)
	backLo += min(trimLo-backLo, excess-backLo-backHi)
	return lo - backLo, hi + backHi
}

// AspectCrop returns the largest centered sub-rectangle of r with the given
// aspect ratio. Rectangles already within tolerance are returned unchanged.
func AspectCrop(r image.Rectangle, a Aspect) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 || a.IsZero() {
		return r
	}
	current, target := float64(w)/float64(h), a.Ratio()
	if math.Abs(target-current) < aspectTolerance {
		return r
	}
	if current > target {
		nw := max(1, int(float64(h)*target))
		x := r.Min.X + (w-nw)/2
		return image.Rect(x, r.Min.Y, x+nw, r.Max.Y)
	}
	nh := max(1, int(float64(w)/target))
	y := r.Min.Y + (h-nh)/2
	return image.Rect(r.Min.X, y, r.Max.X, y+nh)
}

// CoverSize returns the size of an image of w x h scaled uniformly to fill
// boxW x boxH completely. One dimension overflows the box unless the
// aspect ratios match.
func CoverSize(w, h int, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Max(boxW/float64(w), boxH/float64(h))
	return float64(w) * scale, float64(h) * scale
}

// ContainSize returns the size of an image of w x h scaled uniformly to fit
// inside boxW x boxH without cropping.
func ContainSize(w, h int, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(boxW/float64(w), boxH/float64(h))
	return float64(w) * scale, float64(h) * scale
}
