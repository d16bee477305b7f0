package theme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ErrFontUnavailable is returned when no provider has a font family.
var ErrFontUnavailable = errors.New("font unavailable")

// FontSpec names a font family and where its two weights come from.
type FontSpec struct {
	// Name is the family name registered with the document.
	Name        string
	Regular     string
	Bold        string
	RegularURL  string
	BoldURL     string
	SystemPaths []string
}

// FontFiles holds the TrueType bytes of one family.
type FontFiles struct {
	Regular []byte
	Bold    []byte
}

// Font families in fallback order.
var (
	CormorantGaramond = FontSpec{
		Name:       "CormorantGaramond",
		Regular:    "CormorantGaramond-Regular.ttf",
		Bold:       "CormorantGaramond-SemiBold.ttf",
		RegularURL: "https://raw.githubusercontent.com/google/fonts/main/ofl/cormorantgaramond/CormorantGaramond-Regular.ttf",
		BoldURL:    "https://raw.githubusercontent.com/google/fonts/main/ofl/cormorantgaramond/CormorantGaramond-SemiBold.ttf",
	}
	SourceSerif4 = FontSpec{
		Name:       "SourceSerif4",
		Regular:    "SourceSerif4-Regular.ttf",
		Bold:       "SourceSerif4-Semibold.ttf",
		RegularURL: "https://raw.githubusercontent.com/adobe-fonts/source-serif/release/TTF/SourceSerif4-Regular.ttf",
		BoldURL:    "https://raw.githubusercontent.com/adobe-fonts/source-serif/release/TTF/SourceSerif4-Semibold.ttf",
	}
	SourceSans3 = FontSpec{
		Name:       "SourceSans3",
		Regular:    "SourceSans3-Regular.ttf",
		Bold:       "SourceSans3-Semibold.ttf",
		RegularURL: "https://raw.githubusercontent.com/adobe-fonts/source-sans/release/TTF/SourceSans3-Regular.ttf",
		BoldURL:    "https://raw.githubusercontent.com/adobe-fonts/source-sans/release/TTF/SourceSans3-Semibold.ttf",
	}
	NotoSans = FontSpec{
		Name:       "NotoSans",
		Regular:    "NotoSans-Regular.ttf",
		Bold:       "NotoSans-Bold.ttf",
		RegularURL: "https://raw.githubusercontent.com/googlefonts/noto-fonts/main/hinted/ttf/NotoSans/NotoSans-Regular.ttf",
		BoldURL:    "https://raw.githubusercontent.com/googlefonts/noto-fonts/main/hinted/ttf/NotoSans/NotoSans-Bold.ttf",
	}
	DejaVuSans = FontSpec{
		Name:    "DejaVuSans",
		Regular: "DejaVuSans.ttf",
		Bold:    "DejaVuSans-Bold.ttf",
		SystemPaths: []string{
			"/usr/share/fonts/truetype/dejavu",
			"/usr/share/fonts/dejavu",
			"/Library/Fonts",
		},
	}
	MaterialIcons = FontSpec{
		Name:       "MaterialIcons",
		Regular:    "MaterialIcons-Regular.ttf",
		RegularURL: "https://raw.githubusercontent.com/google/material-design-icons/master/font/MaterialIcons-Regular.ttf",
	}
)

// builtinFamily is the Go font family compiled into the binary.
const builtinFamily = "GoSans"

// BuiltinFonts returns the Go fonts, which are always available.
func BuiltinFonts() *FontFiles {
	return &FontFiles{Regular: goregular.TTF, Bold: gobold.TTF}
}

// FontProvider loads the files of a family.
type FontProvider interface {
	Load(ctx context.Context, spec FontSpec) (*FontFiles, error)
}

// DirProvider reads font files from local directories, including the
// family's system paths.
type DirProvider struct {
	Dirs []string
}

// Load implements FontProvider.
func (p DirProvider) Load(_ context.Context, spec FontSpec) (*FontFiles, error) {
	dirs := append(append([]string(nil), p.Dirs...), spec.SystemPaths...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		files, err := readFamily(dir, spec)
		if err == nil {
			return files, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", spec.Name, ErrFontUnavailable)
}

func readFamily(dir string, spec FontSpec) (*FontFiles, error) {
	regular, err := os.ReadFile(filepath.Join(dir, spec.Regular))
	if err != nil {
		return nil, err
	}
	files := &FontFiles{Regular: regular, Bold: regular}
	if spec.Bold != "" {
		if bold, err := os.ReadFile(filepath.Join(dir, spec.Bold)); err == nil {
			files.Bold = bold
		}
	}
	return files, nil
}

// HTTPProvider downloads families into CacheDir on first use and serves
// them from there afterwards. Offline disables downloads but still serves
// what is already cached.
type HTTPProvider struct {
	CacheDir string
	Client   *http.Client
	Offline  bool
}

// NewHTTPProvider creates a provider with a 30 second download timeout.
func NewHTTPProvider(cacheDir string, offline bool) *HTTPProvider {
	return &HTTPProvider{
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Offline:  offline,
	}
}

// Load implements FontProvider.
func (p *HTTPProvider) Load(ctx context.Context, spec FontSpec) (*FontFiles, error) {
	if files, err := readFamily(p.CacheDir, spec); err == nil {
		return files, nil
	}
	if p.Offline || spec.RegularURL == "" {
		return nil, fmt.Errorf("%s: %w", spec.Name, ErrFontUnavailable)
	}
	if err := p.download(ctx, spec.RegularURL, spec.Regular); err != nil {
		return nil, err
	}
	if spec.BoldURL != "" {
		if err := p.download(ctx, spec.BoldURL, spec.Bold); err != nil {
			return nil, err
		}
	}
	return readFamily(p.CacheDir, spec)
}

func (p *HTTPProvider) download(ctx context.Context, url, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "itingen (font fetch)")
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	if err := ValidateTrueType(data); err != nil {
		return fmt.Errorf("downloaded %s: %w", name, err)
	}
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return err
	}
	tmp := filepath.Join(p.CacheDir, "."+name+".part")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(p.CacheDir, name))
}

// ChainProvider asks each provider in turn.
type ChainProvider []FontProvider

// Load implements FontProvider.
func (c ChainProvider) Load(ctx context.Context, spec FontSpec) (*FontFiles, error) {
	for _, p := range c {
		if files, err := p.Load(ctx, spec); err == nil {
			return files, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", spec.Name, ErrFontUnavailable)
}

// OfflineFromEnv reports whether ITINGEN_OFFLINE is set to a true value.
func OfflineFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITINGEN_OFFLINE"))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ValidateTrueType checks that data is a glyf-outline font the PDF canvas
// can embed. CFF-flavored OpenType is rejected.
func ValidateTrueType(data []byte) error {
	if len(data) < 12 {
		return errors.New("font data too short")
	}
	magic := data[:4]
	if !bytes.Equal(magic, []byte{0, 1, 0, 0}) && !bytes.Equal(magic, []byte("true")) {
		return fmt.Errorf("unsupported font container %q", magic)
	}
	if _, err := sfnt.Parse(data); err != nil {
		return fmt.Errorf("invalid font: %w", err)
	}
	return nil
}

type fontEntry struct {
	files *FontFiles
	err   error
}

// FontCache remembers loaded families, and failed lookups, for the life of
// the process. It is safe for concurrent use.
type FontCache struct {
	mu      sync.RWMutex
	entries map[string]fontEntry
}

// NewFontCache creates an empty cache.
func NewFontCache() *FontCache {
	return &FontCache{entries: make(map[string]fontEntry)}
}

// Load returns the cached files for spec, asking provider on first use.
// Files that fail validation count as unavailable.
func (c *FontCache) Load(ctx context.Context, provider FontProvider, spec FontSpec) (*FontFiles, error) {
	c.mu.RLock()
	entry, ok := c.entries[spec.Name]
	c.mu.RUnlock()
	if ok {
		return entry.files, entry.err
	}

	files, err := provider.Load(ctx, spec)
	if err == nil {
		if verr := ValidateTrueType(files.Regular); verr != nil {
			files, err = nil, fmt.Errorf("%s: %w", spec.Name, verr)
		} else if verr := ValidateTrueType(files.Bold); verr != nil {
			files.Bold = files.Regular
		}
	}

	c.mu.Lock()
	c.entries[spec.Name] = fontEntry{files: files, err: err}
	c.mu.Unlock()
	return files, err
}

// Len returns the number of cached lookups.
func (c *FontCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
