package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/itingen/internal"
)

// MarkdownExporter writes the lightweight text rendering of the itinerary.
type MarkdownExporter struct {
	Title            string
	SuppressTimezone bool
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(_ context.Context, days []internal.TimelineDay, w io.Writer) error {
	title := e.Title
	if title == "" {
		title = "Trip Itinerary"
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)
	if span := dateSpan(days); span != "" {
		_, _ = fmt.Fprintf(w, "_%s_\n\n", span)
	}

	for _, day := range days {
		_, _ = fmt.Fprintf(w, "## %s\n\n", day.DayHeader)

		if day.BannerImagePath != "" {
			_, _ = fmt.Fprintf(w, "![Banner](%s)\n\n", day.BannerImagePath)
		}
		if day.HasWeather() {
			_, _ = fmt.Fprintf(w, "**Weather:** %s\n\n", weatherSummary(day))
		}
		if day.WakeUpLocation != "" {
			_, _ = fmt.Fprintf(w, "Wake up: %s  \n", day.WakeUpLocation)
		}
		if day.FirstEventTargetTime != "" && day.FirstEventTitle != "" {
			target := FormatTime(day.FirstEventTargetTime, "", true)
			if target == TimeTBD {
				target = day.FirstEventTargetTime
			}
			_, _ = fmt.Fprintf(w, "(Be ready by %s for %s)\n", target, day.FirstEventTitle)
		}
		_, _ = fmt.Fprintf(w, "\n")

		for _, event := range day.Events {
			e.writeEvent(w, event)
		}

		if day.SleepLocation != "" {
			_, _ = fmt.Fprintf(w, "Sleep at: %s\n\n", day.SleepLocation)
		}
		_, _ = fmt.Fprintf(w, "---\n\n")
	}

	return nil
}

func (e *MarkdownExporter) writeEvent(w io.Writer, event internal.Event) {
	heading := event.Heading
	if heading == "" {
		heading = "Untitled event"
	}
	_, _ = fmt.Fprintf(w, "### %s · %s\n", FormatTime(event.TimeLocal, event.Timezone, e.SuppressTimezone), heading)

	if event.Kind != "" {
		_, _ = fmt.Fprintf(w, "- **Kind**: %s\n", event.Kind)
	}
	if event.Location != "" {
		_, _ = fmt.Fprintf(w, "- **Location**: %s\n", event.Location)
	}
	if event.DurationText != "" {
		_, _ = fmt.Fprintf(w, "- **Duration**: %s\n", event.DurationText)
	} else if event.DurationSeconds > 0 {
		_, _ = fmt.Fprintf(w, "- **Duration**: %s\n", internal.FormatDuration(event.DurationSeconds))
	}
	if event.DistanceText != "" {
		_, _ = fmt.Fprintf(w, "- **Distance**: %s\n", event.DistanceText)
	}
	if event.TimeUTC != "" {
		_, _ = fmt.Fprintf(w, "- **Time (UTC)**: %s\n", event.TimeUTC)
	}
	if len(event.Who) > 0 {
		_, _ = fmt.Fprintf(w, "- **Who**: %s\n", strings.Join(event.Who, ", "))
	}
	if flags := flagsLine(event); flags != "" {
		_, _ = fmt.Fprintf(w, "- **Flags**: %s\n", flags)
	}

	text := event.Narrative
	if text == "" {
		text = event.Description
	}
	if text != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", escapeMarkdown(text))
	}
	if event.ImagePath != "" {
		_, _ = fmt.Fprintf(w, "\n![%s](%s)\n", heading, event.ImagePath)
	}
	if transit := transitLine(event); transit != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", transit)
	}
	if event.Notes != "" {
		_, _ = fmt.Fprintf(w, "\n> Note: %s\n", escapeMarkdown(event.Notes))
	}
	_, _ = fmt.Fprintf(w, "\n")
}

func weatherSummary(day internal.TimelineDay) string {
	parts := []string{}
	if temps := temperatureLine(day.WeatherHigh, day.WeatherLow); temps != "" {
		parts = append(parts, temps)
	}
	if day.WeatherConditions != "" {
		parts = append(parts, day.WeatherConditions)
	}
	return strings.Join(parts, ", ")
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
