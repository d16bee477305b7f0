package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/metrics"
	"github.com/iksnae/itingen/internal/theme"
)

// Layout constants in points.
const (
	inch = 72.0

	titleTopOffset = 2 * inch
	titleGap       = 0.3 * inch

	footerRuleOffset  = 0.20 * inch
	footerLabelOffset = 0.35 * inch

	bannerMinRatio = 0.30
	bannerMaxRatio = 0.6

	cardPad         = 12.0
	cardCorner      = 9.0
	headerCardRatio = 0.58
	weatherCardMax  = 2.35 * inch
	weatherCardRate = 0.34
	accentBarHeight = 6.0

	badgeSize    = 12.5
	badgeGutter  = 20.0
	timeColumn   = 46.0
	thumbSize    = 54.0
	thumbGap     = 10.0
	rowGap       = 8.0
	sectionSpace = 14.0
)

var separatorColor = theme.MustHex("#E6E6E6")

// PDFExporter renders timeline days as a paginated, styled PDF.
type PDFExporter struct {
	Theme theme.Theme
	// Fonts resolves the font chains. When nil every style uses the core font.
	Fonts            *theme.Resolver
	Images           *ImageLoader
	Metrics          *metrics.Recorder
	SuppressTimezone bool
	// NoCompression leaves content streams readable.
	NoCompression bool
}

// NewPDFExporter creates an exporter for t that resolves fonts with fonts.
func NewPDFExporter(t theme.Theme, fonts *theme.Resolver) *PDFExporter {
	return &PDFExporter{Theme: t, Fonts: fonts}
}

// Export implements Exporter.
func (e *PDFExporter) Export(ctx context.Context, days []internal.TimelineDay, w io.Writer) error {
	if e.Images == nil {
		images, err := NewImageLoader(defaultImageCacheSize)
		if err != nil {
			return err
		}
		e.Images = images
	}

	c := e.newComposer(ctx)
	c.titlePage(days)
	dayNumber := 0
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !day.IsUnscheduled() {
			dayNumber++
		}
		c.dayPage(day, dayNumber)
	}

	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("failed to compose pdf: %w", err)
	}
	pages := c.pdf.PageNo()
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	e.Metrics.PagesRendered(pages)
	internal.LogDebug("Rendered %d days on %d pages", len(days), pages)
	return nil
}

// Extension implements Exporter.
func (e *PDFExporter) Extension() string {
	return "pdf"
}

// composer holds the state of one document being drawn.
type composer struct {
	pdf        *fpdf.Fpdf
	th         theme.Theme
	typo       theme.Typography
	images     *ImageLoader
	registered map[string]bool
	tr         func(string) string
	suppressTZ bool
	y          float64
}

func (e *PDFExporter) newComposer(ctx context.Context) *composer {
	page := e.Theme.Page
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(page.MarginLeft, page.MarginTop, page.MarginRight)
	pdf.SetAutoPageBreak(false, page.MarginBottom)
	pdf.SetCompression(!e.NoCompression)
	pdf.SetTitle(e.Theme.Title, true)
	pdf.SetCreator("itingen", true)

	c := &composer{
		pdf:        pdf,
		th:         e.Theme,
		images:     e.Images,
		registered: make(map[string]bool),
		tr:         basicPlane,
		suppressTZ: e.SuppressTimezone,
	}
	if e.Fonts != nil {
		c.typo = e.Fonts.Resolve(ctx, pdf, e.Theme)
	} else {
		c.typo = theme.CoreTypography(e.Theme)
	}
	if c.typo.CoreFallback {
		c.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetFooterFunc(c.footer)
	return c
}

func (c *composer) left() float64  { return c.th.Page.MarginLeft }
func (c *composer) width() float64 { return c.th.Page.ContentWidth() }

func (c *composer) addPage() {
	c.pdf.AddPage()
	c.y = c.th.Page.MarginTop
}

// ensure starts a new page when h points do not fit below the cursor.
// Callers with content taller than a page flow it with flowBlocks.
func (c *composer) ensure(h float64) {
	if c.y+h > c.th.Page.ContentBottom() && c.y > c.th.Page.MarginTop {
		c.addPage()
	}
}

func (c *composer) footer() {
	p := c.th.Page
	ruleY := p.Height - p.MarginBottom + footerRuleOffset
	c.pdf.SetDrawColor(c.th.Muted.RGB())
	c.pdf.SetLineWidth(0.5)
	c.pdf.Line(p.MarginLeft, ruleY, p.Width-p.MarginRight, ruleY)

	label := fmt.Sprintf("Page %d", c.pdf.PageNo())
	c.pdf.SetFont(theme.CoreFamily, "", 8)
	c.pdf.SetTextColor(c.th.Muted.RGB())
	c.pdf.Text(p.Width-p.MarginRight-c.pdf.GetStringWidth(label), p.Height-p.MarginBottom+footerLabelOffset, label)
}

func (c *composer) titlePage(days []internal.TimelineDay) {
	c.addPage()
	c.y += titleTopOffset
	c.y = c.drawBlocks([]textBlock{c.block(c.typo.Title, c.th.Title, c.width())}, c.left(), c.y)
	c.y += titleGap

	var blocks []textBlock
	if span := dateSpan(days); span != "" {
		blocks = append(blocks, c.block(c.typo.Subtitle, span, c.width()))
	}
	if len(days) > 0 {
		events := 0
		for _, d := range days {
			events += len(d.Events)
		}
		blocks = append(blocks, c.block(c.typo.Meta, fmt.Sprintf("%s · %s", plural(len(days), "day"), plural(events, "event")), c.width()))
	}
	c.y = c.drawBlocks(blocks, c.left(), c.y)
}

// dateSpan is "first to last" over the dated days.
func dateSpan(days []internal.TimelineDay) string {
	var dated []string
	for _, d := range days {
		if !d.IsUnscheduled() {
			dated = append(dated, d.Date)
		}
	}
	switch len(dated) {
	case 0:
		return ""
	case 1:
		return dated[0]
	}
	return fmt.Sprintf("%s to %s", dated[0], dated[len(dated)-1])
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (c *composer) dayPage(day internal.TimelineDay, number int) {
	c.addPage()
	if banner := c.loadImage(day.BannerImagePath); banner != nil {
		c.heroBanner(day, number, banner)
	} else {
		c.plainHeader(day, number)
	}
	c.wakeUp(day)
	for _, e := range day.Events {
		c.eventRow(e)
	}
	c.sleep(day)
}

// loadImage returns a registered image, or nil when path is empty or the
// file cannot be used.
func (c *composer) loadImage(path string) *PageImage {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	img, err := c.images.Load(path)
	if err != nil {
		internal.LogDebug("Skipping image %s: %v", path, err)
		return nil
	}
	if ok, seen := c.registered[img.Name]; seen {
		if !ok {
			return nil
		}
		return img
	}
	c.pdf.RegisterImageOptionsReader(img.Name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if err := c.pdf.Error(); err != nil {
		internal.LogWarn("Skipping image %s: %v", path, err)
		c.pdf.ClearError()
		c.registered[img.Name] = false
		return nil
	}
	c.registered[img.Name] = true
	return img
}

func (c *composer) headerBlocks(day internal.TimelineDay, number int, w float64) []textBlock {
	eyebrow := strings.ToUpper(internal.UnscheduledHeader)
	if !day.IsUnscheduled() {
		eyebrow = fmt.Sprintf("DAY %d", number)
	}
	blocks := []textBlock{
		c.block(c.typo.Eyebrow, eyebrow, w),
		c.block(c.typo.Title, day.DayHeader, w),
	}
	if loc := day.PrimaryLocation(); loc != "" {
		blocks = append(blocks, c.block(c.typo.Subtitle, loc, w))
	}
	return blocks
}

// weatherBlocks is nil when the day has no weather.
func (c *composer) weatherBlocks(day internal.TimelineDay, w float64) []textBlock {
	if !day.HasWeather() {
		return nil
	}
	blocks := []textBlock{c.block(c.typo.Eyebrow, "WEATHER", w)}
	if temps := temperatureLine(day.WeatherHigh, day.WeatherLow); temps != "" {
		blocks = append(blocks, c.block(c.typo.Topline, temps, w))
	}
	if day.WeatherConditions != "" {
		blocks = append(blocks, c.block(c.typo.Muted, day.WeatherConditions, w))
	}
	return blocks
}

func temperatureLine(high, low *float64) string {
	switch {
	case high != nil && low != nil:
		return fmt.Sprintf("High %.0f°F · Low %.0f°F", *high, *low)
	case high != nil:
		return fmt.Sprintf("High %.0f°F", *high)
	case low != nil:
		return fmt.Sprintf("Low %.0f°F", *low)
	}
	return ""
}

func weatherCardWidth(w float64) float64 {
	return math.Min(weatherCardMax, w*weatherCardRate)
}

// bannerHeight follows the image aspect, clamped to a band of the width.
func bannerHeight(img *PageImage, w float64) float64 {
	h := w * float64(img.Height) / float64(img.Width)
	return math.Max(w*bannerMinRatio, math.Min(w*bannerMaxRatio, h))
}

func (c *composer) heroBanner(day internal.TimelineDay, number int, img *PageImage) {
	x, y, w := c.left(), c.y, c.width()
	h := bannerHeight(img, w)
	c.bannerImage(img, x, y, w, h)

	headerW := math.Min(w*headerCardRatio, w-2*cardPad)
	header := c.headerBlocks(day, number, headerW-2*cardPad)
	c.card(x+cardPad, y+cardPad, headerW, blocksHeight(header)+2*cardPad, 0.78)
	c.drawBlocks(header, x+2*cardPad, y+2*cardPad)

	weatherW := weatherCardWidth(w)
	if weather := c.weatherBlocks(day, weatherW-2*cardPad); weather != nil {
		wx := x + w - weatherW - cardPad
		c.card(wx, y+cardPad, weatherW, blocksHeight(weather)+2*cardPad, 0.82)
		c.accentBar(wx, y+cardPad, weatherW)
		c.drawBlocks(weather, wx+cardPad, y+2*cardPad)
	}
	c.y = y + h + sectionSpace
}

// plainHeader puts the title and the weather card side by side.
func (c *composer) plainHeader(day internal.TimelineDay, number int) {
	x, y, w := c.left(), c.y, c.width()
	titleW := w
	weatherW := weatherCardWidth(w)
	weather := c.weatherBlocks(day, weatherW-2*cardPad)
	if weather != nil {
		titleW = w - weatherW - cardPad
	}

	header := c.headerBlocks(day, number, titleW)
	bottom := c.drawBlocks(header, x, y)
	if weather != nil {
		wx := x + w - weatherW
		wh := blocksHeight(weather) + 2*cardPad
		c.card(wx, y, weatherW, wh, 1)
		c.accentBar(wx, y, weatherW)
		c.drawBlocks(weather, wx+cardPad, y+cardPad)
		bottom = math.Max(bottom, y+wh)
	}
	c.y = bottom + sectionSpace
}

func (c *composer) wakeUp(day internal.TimelineDay) {
	var blocks []textBlock
	if day.WakeUpLocation != "" {
		blocks = append(blocks, c.block(c.typo.Body, "Wake up: "+day.WakeUpLocation, c.width()))
	}
	if day.FirstEventTargetTime != "" && day.FirstEventTitle != "" {
		target := FormatTime(day.FirstEventTargetTime, "", true)
		if target == TimeTBD {
			target = day.FirstEventTargetTime
		}
		line := fmt.Sprintf("(Be ready by %s for %s)", target, day.FirstEventTitle)
		blocks = append(blocks, c.block(c.typo.Muted, line, c.width()))
	}
	if len(blocks) == 0 {
		return
	}
	c.ensure(blocksHeight(blocks))
	c.y = c.drawBlocks(blocks, c.left(), c.y) + rowGap
}

func (c *composer) eventRow(e internal.Event) {
	x, w := c.left(), c.width()
	textX := x + badgeGutter

	heading := strings.TrimSpace(e.Heading)
	if heading == "" {
		heading = "Untitled event"
	}
	head := c.block(c.typo.EventTitle, heading, w-badgeGutter-timeColumn)
	headerH := math.Max(badgeSize, blocksHeight([]textBlock{head}))

	thumb := c.loadImage(e.ImagePath)
	bodyX, bodyW := textX, w-badgeGutter
	if thumb != nil {
		bodyX += thumbSize + thumbGap
		bodyW -= thumbSize + thumbGap
	}
	body := c.eventBody(e, bodyW)
	bodyH := blocksHeight(body)
	if thumb != nil {
		bodyH = math.Max(bodyH, thumbSize)
	}
	rowH := headerH
	if bodyH > 0 {
		rowH += 4 + bodyH
	}

	bottom := c.th.Page.ContentBottom()
	if rowH+rowGap <= bottom-c.th.Page.MarginTop {
		c.ensure(rowH + rowGap)
	} else {
		// Taller than a page: keep the header with its first body line and
		// let the rest flow.
		first := 0.0
		if len(body) > 0 {
			first = 4 + body[0].style.Leading
		}
		c.ensure(headerH + first + rowGap)
	}
	y := c.y
	page := c.pdf.PageNo()

	c.badge(e.Kind, x+badgeSize/2, y+c.typo.EventTitle.Leading/2)
	c.use(c.typo.EventTime)
	c.pdf.Text(textX, baseline(c.typo.EventTitle, y), c.tr(FormatTime(e.TimeLocal, e.Timezone, c.suppressTZ)))
	c.drawBlocks([]textBlock{head}, textX+timeColumn, y)

	c.y = y + headerH
	if bodyH > 0 {
		by := y + headerH + 4
		end := by
		if thumb != nil && by+thumbSize <= bottom {
			c.thumbnail(thumb, textX, by, thumbSize)
			end = by + thumbSize
		}
		if flowed := c.flowBlocks(body, bodyX, by); c.pdf.PageNo() != page || flowed > end {
			end = flowed
		}
		c.y = end
	}

	c.y += rowGap / 2
	if c.y <= bottom {
		c.pdf.SetDrawColor(separatorColor.RGB())
		c.pdf.SetLineWidth(0.5)
		c.pdf.Line(x, c.y, x+w, c.y)
	}
	c.y += rowGap
}

// eventBody is the text beside the thumbnail. A narrative stands alone;
// without one the description and detail lines are assembled.
func (c *composer) eventBody(e internal.Event, w float64) []textBlock {
	var blocks []textBlock
	add := func(s theme.TextStyle, text string) {
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, c.block(s, text, w))
		}
	}

	if strings.TrimSpace(e.Narrative) != "" {
		add(c.typo.Body, e.Narrative)
		return blocks
	}
	add(c.typo.Body, e.Description)
	add(c.typo.EventDetails, e.Location)
	if len(e.Who) > 0 {
		add(c.typo.EventDetails, "With: "+strings.Join(e.Who, ", "))
	}
	add(c.typo.EventDetails, transitLine(e))
	add(c.typo.EventDetails, flagsLine(e))
	if e.Notes != "" {
		warn := c.typo.EventDetails
		warn.Color = c.th.Warn
		add(warn, "Note: "+e.Notes)
	}
	return blocks
}

func transitLine(e internal.Event) string {
	base := e.TransitionFromPrev
	if base == "" && e.TravelTo != "" {
		base = "Travel to " + e.TravelTo
	}
	if base == "" {
		return ""
	}

	var extra []string
	if e.DurationText != "" {
		extra = append(extra, e.DurationText)
	} else if e.DurationSeconds > 0 {
		extra = append(extra, internal.FormatDuration(e.DurationSeconds))
	}
	if e.DistanceText != "" {
		extra = append(extra, e.DistanceText)
	}
	line := "Transit: " + base
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}

func flagsLine(e internal.Event) string {
	var flags []string
	if e.HardStop {
		flags = append(flags, "Hard stop")
	}
	if e.CoordinationPoint {
		flags = append(flags, "Coordination point")
	}
	return strings.Join(flags, " · ")
}

func (c *composer) sleep(day internal.TimelineDay) {
	if day.SleepLocation == "" {
		return
	}
	style := c.typo.Topline
	style.Color = c.th.Accent
	c.ensure(style.Leading + rowGap)
	c.y += rowGap / 2

	c.use(style)
	label := c.tr("Sleep at: " + day.SleepLocation)
	right := c.left() + c.width()
	c.pdf.Text(right-c.pdf.GetStringWidth(label), baseline(style, c.y), label)
	c.y += style.Leading
}
