package theme

import (
	"context"
)

// CoreFamily is the PDF core font used when no TrueType family registers.
const CoreFamily = "Helvetica"

// TextStyle is one entry of the type scale.
type TextStyle struct {
	Family  string
	Style   string // "" or "B"
	Size    float64
	Leading float64
	Color   Color
}

// Typography is the resolved type scale of one document.
type Typography struct {
	Eyebrow      TextStyle
	Topline      TextStyle
	Title        TextStyle
	Subtitle     TextStyle
	Body         TextStyle
	EventTitle   TextStyle
	EventTime    TextStyle
	EventDetails TextStyle
	Badge        TextStyle
	Meta         TextStyle
	Muted        TextStyle
	Tiny         TextStyle

	// IconFamily is empty when no icon font could be registered.
	IconFamily string
	IconSize   float64

	// CoreFallback is set when every TrueType family failed and text is
	// drawn with the Latin-1 core font.
	CoreFallback bool
}

// HasIcons reports whether icon glyphs can be drawn.
func (t Typography) HasIcons() bool {
	return t.IconFamily != ""
}

// FontRegistrar is the part of the PDF canvas that accepts fonts.
// *fpdf.Fpdf satisfies it.
type FontRegistrar interface {
	AddUTF8FontFromBytes(familyStr, styleStr string, utf8Bytes []byte)
	Error() error
	ClearError()
}

// Resolver turns font chains into a Typography for a document.
type Resolver struct {
	provider FontProvider
	cache    *FontCache
}

// NewResolver creates a resolver. A nil cache gets a private one.
func NewResolver(provider FontProvider, cache *FontCache) *Resolver {
	if cache == nil {
		cache = NewFontCache()
	}
	if provider == nil {
		provider = ChainProvider{}
	}
	return &Resolver{provider: provider, cache: cache}
}

// Cache returns the resolver's font cache.
func (r *Resolver) Cache() *FontCache {
	return r.cache
}

// Resolve registers the best available families with doc and returns the
// type scale. It never fails: the last resort is the core font.
func (r *Resolver) Resolve(ctx context.Context, doc FontRegistrar, t Theme) Typography {
	ui := r.first(ctx, doc, SourceSans3, NotoSans, DejaVuSans)
	if ui == "" {
		ui = r.builtin(doc)
	}
	if ui == "" {
		return CoreTypography(t)
	}

	body := r.first(ctx, doc, SourceSerif4)
	if body == "" {
		body = ui
	}
	headline := r.first(ctx, doc, CormorantGaramond, SourceSerif4)
	if headline == "" {
		headline = ui
	}

	typo := scale(ui, body, headline, t)
	typo.IconFamily = r.first(ctx, doc, MaterialIcons)
	return typo
}

// CoreTypography is the type scale drawn entirely with the core font.
func CoreTypography(t Theme) Typography {
	typo := scale(CoreFamily, CoreFamily, CoreFamily, t)
	typo.CoreFallback = true
	return typo
}

func scale(ui, body, headline string, t Theme) Typography {
	return Typography{
		Eyebrow:      TextStyle{ui, "B", 8.5, 10.5, t.Muted},
		Topline:      TextStyle{ui, "B", 10, 12.5, t.Ink},
		Title:        TextStyle{headline, "B", 21, 23, t.Ink},
		Subtitle:     TextStyle{ui, "", 9.5, 12.5, t.Muted},
		Body:         TextStyle{body, "", 10, 14, t.Ink},
		EventTitle:   TextStyle{ui, "B", 10.8, 13.5, t.Ink},
		EventTime:    TextStyle{ui, "", 8.7, 11, t.Muted},
		EventDetails: TextStyle{ui, "", 9.2, 12.5, t.Muted},
		Badge:        TextStyle{ui, "B", 8.5, 10, t.Ink},
		Meta:         TextStyle{ui, "", 9, 12, t.Muted},
		Muted:        TextStyle{ui, "", 9, 12, t.Muted},
		Tiny:         TextStyle{ui, "", 7, 9, t.Muted},
		IconSize:     11,
	}
}

// first registers the first family of specs that loads and embeds cleanly.
func (r *Resolver) first(ctx context.Context, doc FontRegistrar, specs ...FontSpec) string {
	for _, spec := range specs {
		files, err := r.cache.Load(ctx, r.provider, spec)
		if err != nil {
			continue
		}
		if register(doc, spec.Name, files) {
			return spec.Name
		}
	}
	return ""
}

func (r *Resolver) builtin(doc FontRegistrar) string {
	if register(doc, builtinFamily, BuiltinFonts()) {
		return builtinFamily
	}
	return ""
}

func register(doc FontRegistrar, family string, files *FontFiles) bool {
	if doc.Error() != nil {
		return false
	}
	doc.AddUTF8FontFromBytes(family, "", files.Regular)
	bold := files.Bold
	if len(bold) == 0 {
		bold = files.Regular
	}
	doc.AddUTF8FontFromBytes(family, "B", bold)
	if err := doc.Error(); err != nil {
		doc.ClearError()
		return false
	}
	return true
}
