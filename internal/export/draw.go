package export

import (
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/iksnae/itingen/internal/imaging"
	"github.com/iksnae/itingen/internal/theme"
)

const (
	iconGlyphRatio   = 0.68
	letterGlyphRatio = 0.56
)

// textBlock is text already wrapped to a width in one style.
type textBlock struct {
	style theme.TextStyle
	lines []string
}

func (c *composer) use(s theme.TextStyle) {
	c.pdf.SetFont(s.Family, s.Style, s.Size)
	c.pdf.SetTextColor(s.Color.RGB())
}

// block wraps text to w. Each input line is a paragraph; blank ones are
// dropped. Text passes through c.tr here, so the lines are ready to draw.
func (c *composer) block(s theme.TextStyle, text string, w float64) textBlock {
	c.use(s)
	b := textBlock{style: s}
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if c.typo.CoreFallback {
			for _, line := range c.pdf.SplitLines([]byte(c.tr(para)), w) {
				b.lines = append(b.lines, string(line))
			}
			continue
		}
		b.lines = append(b.lines, c.pdf.SplitText(c.tr(para), w)...)
	}
	return b
}

// basicPlane drops runes outside the Basic Multilingual Plane, which the
// canvas width tables do not cover.
func basicPlane(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return -1
		}
		return r
	}, s)
}

func blocksHeight(blocks []textBlock) float64 {
	h := 0.0
	for _, b := range blocks {
		h += float64(len(b.lines)) * b.style.Leading
	}
	return h
}

// drawBlocks draws blocks top-down from y and returns the y below them.
func (c *composer) drawBlocks(blocks []textBlock, x, y float64) float64 {
	for _, b := range blocks {
		c.use(b.style)
		for _, line := range b.lines {
			c.pdf.Text(x, baseline(b.style, y), line)
			y += b.style.Leading
		}
	}
	return y
}

// flowBlocks draws blocks like drawBlocks but starts a new page whenever the
// next line would cross the bottom margin. It returns the y below the last
// line on the final page.
func (c *composer) flowBlocks(blocks []textBlock, x, y float64) float64 {
	bottom := c.th.Page.ContentBottom()
	for _, b := range blocks {
		c.use(b.style)
		for _, line := range b.lines {
			if y+b.style.Leading > bottom && y > c.th.Page.MarginTop {
				c.addPage()
				y = c.y
				c.use(b.style)
			}
			c.pdf.Text(x, baseline(b.style, y), line)
			y += b.style.Leading
		}
	}
	return y
}

// baseline places text vertically centered in a line box starting at top.
func baseline(s theme.TextStyle, top float64) float64 {
	return top + (s.Leading+s.Size*0.7)/2
}

// badge draws the kind circle centered on (cx, cy): the kind's icon when an
// icon font is available, otherwise its initial.
func (c *composer) badge(kind string, cx, cy float64) {
	c.pdf.SetFillColor(theme.ColorFor(kind, c.th).RGB())
	c.pdf.Circle(cx, cy, badgeSize/2, "F")

	glyph := c.tr(theme.BadgeLetter(kind))
	family, style := c.typo.Badge.Family, "B"
	size := badgeSize * letterGlyphRatio
	rise := size * 0.35
	if c.typo.HasIcons() {
		if r, ok := theme.IconRune(theme.IconFor(kind)); ok {
			glyph, family, style = string(r), c.typo.IconFamily, ""
			size = badgeSize * iconGlyphRatio
			rise = size / 2
		}
	}

	c.pdf.SetFont(family, style, size)
	c.pdf.SetTextColor(255, 255, 255)
	c.pdf.Text(cx-c.pdf.GetStringWidth(glyph)/2, cy+rise, glyph)
}

// thumbnail draws img cover-scaled into a rounded s x s square.
func (c *composer) thumbnail(img *PageImage, x, y, s float64) {
	corner := math.Max(1.5, s*0.12)
	c.pdf.SetFillColor(c.th.Surface.RGB())
	c.pdf.RoundedRect(x, y, s, s, corner, "1234", "F")

	c.pdf.ClipRoundedRect(x, y, s, s, corner, false)
	dw, dh := imaging.CoverSize(img.Width, img.Height, s, s)
	c.pdf.ImageOptions(img.Name, x+(s-dw)/2, y+(s-dh)/2, dw, dh, false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")
	c.pdf.ClipEnd()

	c.pdf.SetDrawColor(c.th.Line.RGB())
	c.pdf.SetLineWidth(0.6)
	c.pdf.RoundedRect(x, y, s, s, corner, "1234", "D")
}

// bannerImage draws img contain-scaled and centered in the w x h box under
// a faint white scrim.
func (c *composer) bannerImage(img *PageImage, x, y, w, h float64) {
	c.pdf.SetFillColor(c.th.Surface.RGB())
	c.pdf.RoundedRect(x, y, w, h, cardCorner, "1234", "F")

	c.pdf.ClipRoundedRect(x, y, w, h, cardCorner, false)
	dw, dh := imaging.ContainSize(img.Width, img.Height, w, h)
	c.pdf.ImageOptions(img.Name, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")

	c.pdf.SetAlpha(0.06, "Normal")
	c.pdf.SetFillColor(255, 255, 255)
	c.pdf.Rect(x, y, w, h, "F")
	c.pdf.SetAlpha(1, "Normal")
	c.pdf.ClipEnd()
}

// card draws a translucent rounded panel with a faint outline.
func (c *composer) card(x, y, w, h, fillAlpha float64) {
	c.pdf.SetAlpha(fillAlpha, "Normal")
	c.pdf.SetFillColor(c.th.Surface.RGB())
	c.pdf.RoundedRect(x, y, w, h, cardCorner, "1234", "F")

	c.pdf.SetAlpha(0.20, "Normal")
	c.pdf.SetDrawColor(c.th.Line.RGB())
	c.pdf.SetLineWidth(0.6)
	c.pdf.RoundedRect(x, y, w, h, cardCorner, "1234", "D")
	c.pdf.SetAlpha(1, "Normal")
}

// accentBar caps a card with a strip in the accent color.
func (c *composer) accentBar(x, y, w float64) {
	c.pdf.SetAlpha(0.90, "Normal")
	c.pdf.SetFillColor(c.th.Accent.RGB())
	c.pdf.RoundedRect(x, y, w, accentBarHeight, accentBarHeight/2, "12", "F")
	c.pdf.SetAlpha(1, "Normal")
}
