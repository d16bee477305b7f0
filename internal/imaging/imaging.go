// Package imaging prepares generated artwork for full-bleed layout: it trims
// near-white borders, center-crops to a target aspect ratio and re-encodes
// the result.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxTrimPercent = 0.22
	DefaultThreshold      = 240
	DefaultJPEGQuality    = 85

	aspectTolerance = 0.01
)

// Aspect is a width:height ratio such as 16:9.
type Aspect struct {
	W, H int
}

var (
	AspectBanner = Aspect{W: 16, H: 9}
	AspectSquare = Aspect{W: 1, H: 1}
)

// IsZero reports whether no aspect was requested.
func (a Aspect) IsZero() bool {
	return a.W <= 0 || a.H <= 0
}

// Ratio returns W/H.
func (a Aspect) Ratio() float64 {
	return float64(a.W) / float64(a.H)
}

func (a Aspect) String() string {
	return fmt.Sprintf("%d:%d", a.W, a.H)
}

// ParseAspect parses "16:9" style ratios.
func ParseAspect(s string) (Aspect, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Aspect{}, fmt.Errorf("invalid aspect %q: want W:H", s)
	}
	wi, err1 := strconv.Atoi(strings.TrimSpace(w))
	hi, err2 := strconv.Atoi(strings.TrimSpace(h))
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return Aspect{}, fmt.Errorf("invalid aspect %q: want positive integers", s)
	}
	return Aspect{W: wi, H: hi}, nil
}

// Options controls Postprocess.
type Options struct {
	// TargetAspect, when set, center-crops the trimmed image to this ratio.
	TargetAspect Aspect
	// MaxTrimPercent caps the border trim per axis as a fraction of that axis.
	MaxTrimPercent float64
	// Threshold is the per-channel value at or above which a pixel counts as border.
	Threshold uint8
	// MaxWidth downscales wider results. Zero keeps the cropped size.
	MaxWidth int
	// PreferPNG selects PNG output even for opaque images.
	PreferPNG   bool
	JPEGQuality int
}

// DefaultOptions returns the settings used for generated artwork.
func DefaultOptions() Options {
	return Options{
		MaxTrimPercent: DefaultMaxTrimPercent,
		Threshold:      DefaultThreshold,
		PreferPNG:      true,
		JPEGQuality:    DefaultJPEGQuality,
	}
}

// Result is a processed image with the geometry decisions that produced it.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Trimmed     image.Rectangle
}

// DecodeError is returned when input bytes are not a decodable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode decodes PNG, JPEG, GIF or WebP bytes.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("empty image data")}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	return img, format, nil
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data)
}

// Postprocess runs border trim, optional aspect crop and re-encoding.
func Postprocess(data []byte, opts Options) ([]byte, error) {
	res, err := Process(data, opts)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Process is Postprocess with the resulting geometry.
func Process(data []byte, opts Options) (*Result, error) {
	src, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	trimmed := TrimBounds(src, opts.MaxTrimPercent, threshold)

	region := trimmed
	if !opts.TargetAspect.IsZero() {
		region = AspectCrop(trimmed, opts.TargetAspect)
	}

	out := resample(src, region, opts.MaxWidth)

	encoded, contentType, err := encode(out, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:        encoded,
		ContentType: contentType,
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Trimmed:     trimmed,
	}, nil
}

// resample copies region of src into a fresh NRGBA image, downscaling to
// maxWidth with Catmull-Rom when the region is wider.
func resample(src image.Image, region image.Rectangle, maxWidth int) *image.NRGBA {
	w, h := region.Dx(), region.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == region.Dx() && h == region.Dy() {
		draw.Copy(dst, image.Point{}, src, region, draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, region, draw.Src, nil)
	return dst
}

func encode(img *image.NRGBA, opts Options) ([]byte, string, error) {
	var buf bytes.Buffer
	if opts.PreferPNG || !img.Opaque() {
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode PNG: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
