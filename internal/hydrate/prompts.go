package hydrate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iksnae/itingen/internal"
)

const (
	TaskBanner    = "day_banner"
	TaskThumbnail = "event_thumbnail"
	TaskNarrative = "event_narrative"
	TaskWeather   = "weather"

	maxHeroEvents       = 3
	maxSupportingPlaces = 6
	defaultPlace        = "the destination"
)

const (
	thumbnailStyle = "Vibrant isometric vector illustration with clean outlines, flat shading " +
		"and cheerful saturated colors, storybook look."

	thumbnailFraming = "Centered close-up where the subject fills most of the frame, with only a " +
		"hint of %s behind it. Keep detail low and the silhouette clear so it reads small. " +
		"Square 1:1, full-bleed, no border, frame, vignette or drop shadow. No text or signage."

	bannerStyle = "Vibrant isometric vector illustration, busy and detailed picture-book scene, " +
		"clean outlines, flat shading, soft daylight, seen from above."

	bannerFraming = "One cohesive panoramic scene, 16:9, isometric aerial view. No text, no captions."

	narrativeStyle = "You are a travel writer and local guide. Be warm, specific and sensory. " +
		"Keep it to one to three sentences."
)

// BannerPrompt describes the day's scene: the primary location, up to three
// event headings and up to six other places visited.
func BannerPrompt(day internal.TimelineDay) string {
	place := day.PrimaryLocation()
	if place == "" {
		place = defaultPlace
	}

	var hero, supporting []string
	for _, e := range day.Events {
		if h := strings.TrimSpace(e.Heading); h != "" && len(hero) < maxHeroEvents {
			hero = append(hero, h)
		}
		loc := strings.TrimSpace(e.Location)
		if loc != "" && loc != place && !slices.Contains(supporting, loc) && len(supporting) < maxSupportingPlaces {
			supporting = append(supporting, loc)
		}
	}

	parts := []string{bannerStyle}
	if day.DayHeader != "" {
		parts = append(parts, fmt.Sprintf("Day: %s (%s).", day.DayHeader, day.Date))
	}
	if len(hero) > 0 {
		parts = append(parts, fmt.Sprintf("A panorama of %s featuring %s.", place, strings.Join(hero, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("A panorama of %s.", place))
	}
	if day.WeatherConditions != "" {
		parts = append(parts, fmt.Sprintf("Weather: %s.", day.WeatherConditions))
	}
	if len(supporting) > 0 {
		parts = append(parts, fmt.Sprintf("Work these places into the scene: %s.", strings.Join(supporting, ", ")))
	}
	parts = append(parts, bannerFraming)
	return strings.Join(parts, " ")
}

// ThumbnailPrompt describes a single event. Travel events show the route.
func ThumbnailPrompt(e internal.Event) string {
	heading := orDefault(e.Heading, "Travel")
	place := orDefault(e.Location, orDefault(e.TravelTo, defaultPlace))

	parts := []string{thumbnailStyle}
	if e.TravelFrom != "" && e.TravelTo != "" {
		mode := orDefault(e.NormalizedKind(), "trip")
		parts = append(parts, fmt.Sprintf("A %s from %s to %s, arriving at %s.", mode, e.TravelFrom, e.TravelTo, place))
	} else {
		parts = append(parts, fmt.Sprintf("%s at %s.", heading, place))
		if d := strings.TrimSpace(e.Description); d != "" {
			parts = append(parts, d)
		}
	}
	parts = append(parts, fmt.Sprintf(thumbnailFraming, place))
	return strings.Join(parts, " ")
}

// NarrativePrompt asks for a short description of the event.
func NarrativePrompt(e internal.Event) string {
	var b strings.Builder
	b.WriteString(narrativeStyle)
	b.WriteString("\n\nDescribe this travel event in a friendly, engaging tone:\n")
	fmt.Fprintf(&b, "Event: %s\n", e.Heading)
	fmt.Fprintf(&b, "Kind: %s\n", orDefault(e.Kind, "N/A"))
	fmt.Fprintf(&b, "Location: %s\n", orDefault(e.Location, "N/A"))
	fmt.Fprintf(&b, "Description: %s\n", orDefault(e.Description, "N/A"))
	fmt.Fprintf(&b, "Participants: %s\n", orDefault(strings.Join(e.Who, ", "), "N/A"))
	b.WriteString("\nFocus on the experience and atmosphere, not the logistics.")
	return b.String()
}

// imagePayload is the cache key for a generated image. The prompt carries
// every input field, so any change to the event or day misses the cache.
func imagePayload(req ImageRequest) internal.Payload {
	p := internal.Payload{
		"task":   req.Task,
		"model":  req.Model,
		"prompt": req.Prompt,
	}
	if !req.Aspect.IsZero() {
		p["aspect"] = req.Aspect.String()
	}
	return p
}

func textPayload(req TextRequest) internal.Payload {
	return internal.Payload{
		"task":   req.Task,
		"model":  req.Model,
		"prompt": req.Prompt,
	}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
