package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"

	"github.com/iksnae/itingen/internal/imaging"
)

// defaultImageCacheSize bounds the decoded images kept between documents.
const defaultImageCacheSize = 64

// PageImage is an image ready to embed in a PDF: JPEG bytes as stored, or
// anything else re-encoded as 8-bit PNG.
type PageImage struct {
	Name   string
	Type   string // "JPG" or "PNG"
	Data   []byte
	Width  int
	Height int
}

// ImageLoader reads and normalizes images for the composer. Results are
// kept in an LRU keyed by path, size and modification time, so a file that
// changes on disk is read again.
type ImageLoader struct {
	cache *lru.Cache[string, *PageImage]
}

// NewImageLoader creates a loader holding up to size images.
func NewImageLoader(size int) (*ImageLoader, error) {
	if size <= 0 {
		size = defaultImageCacheSize
	}
	cache, err := lru.New[string, *PageImage](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &ImageLoader{cache: cache}, nil
}

// Load returns the embeddable form of the image at path.
func (l *ImageLoader) Load(path string) (*PageImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := normalizeImage(key, data)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, img)
	return img, nil
}

// Len returns the number of cached images.
func (l *ImageLoader) Len() int {
	return l.cache.Len()
}

func normalizeImage(name string, data []byte) (*PageImage, error) {
	src, format, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	out := &PageImage{Name: name, Width: b.Dx(), Height: b.Dy()}

	if format == "jpeg" {
		if _, ok := src.(*image.CMYK); !ok {
			out.Type, out.Data = "JPG", data
			return out, nil
		}
	}

	// The canvas only embeds 8-bit, non-interlaced PNG.
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}
	out.Type, out.Data = "PNG", buf.Bytes()
	return out, nil
}
