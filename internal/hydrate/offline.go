package hydrate

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
)

const (
	offlineWidth       = 640
	offlineBorderRatio = 0.04
)

// OfflineGenerator produces deterministic placeholder assets without any
// network access: a two-tone gradient inside a thin white border for images,
// and a one-line summary of the prompt for text. Equal prompts give equal
// output.
type OfflineGenerator struct{}

// GenerateImage implements ImageGenerator.
func (OfflineGenerator) GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := offlineWidth, offlineWidth
	if !req.Aspect.IsZero() {
		h = max(1, offlineWidth*req.Aspect.H/req.Aspect.W)
	}

	seed := promptHash(req.Task + "\x00" + req.Prompt)
	from, to := swatch(seed), swatch(seed>>24)
	border := int(float64(min(w, h)) * offlineBorderRatio)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < border || y < border || x >= w-border || y >= h-border {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
				continue
			}
			t := float64(x+y) / float64(w+h)
			img.SetNRGBA(x, y, blend(from, to, t))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateText implements TextGenerator.
func (OfflineGenerator) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fields := promptFields(req.Prompt)
	event := fields["Event"]
	if event == "" {
		return "A stop worth savoring.", nil
	}
	if loc := fields["Location"]; loc != "" && loc != "N/A" {
		return fmt.Sprintf("%s, set against %s.", event, loc), nil
	}
	return event + ".", nil
}

// promptFields collects "Key: value" lines from a prompt.
func promptFields(prompt string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(prompt, "\n") {
		k, v, ok := strings.Cut(line, ": ")
		if ok && k != "" && !strings.Contains(k, " ") {
			fields[k] = strings.TrimSpace(v)
		}
	}
	return fields
}

func promptHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// swatch maps seed bits to a mid-tone color that the border trim never
// mistakes for background.
func swatch(seed uint64) color.NRGBA {
	return color.NRGBA{
		R: uint8(40 + seed%160),
		G: uint8(40 + (seed>>8)%160),
		B: uint8(40 + (seed>>16)%160),
		A: 255,
	}
}

func blend(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
