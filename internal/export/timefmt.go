package export

import (
	"fmt"
	"strings"
	"time"
)

// TimeTBD is shown for events without a readable local time.
const TimeTBD = "TBD"

var clockLayouts = []string{"15:04", "15:04:05"}

// FormatTime renders a local time as a short 12-hour clock: "7am",
// "3:30pm", "12:15am NZ". Values such as "2026-01-01 10:00" use their last
// token. Anything unreadable renders as TBD.
func FormatTime(timeLocal, timezone string, suppressTZ bool) string {
	value := strings.TrimSpace(timeLocal)
	if value == "" {
		return TimeTBD
	}
	if i := strings.LastIndex(value, " "); i >= 0 {
		value = value[i+1:]
	}

	var t time.Time
	var err error
	for _, layout := range clockLayouts {
		if t, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return TimeTBD
	}

	hour, suffix := t.Hour(), "am"
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}

	out := fmt.Sprintf("%d%s", hour, suffix)
	if t.Minute() != 0 {
		out = fmt.Sprintf("%d:%02d%s", hour, t.Minute(), suffix)
	}
	if tz := strings.TrimSpace(timezone); tz != "" && !suppressTZ {
		out += " " + tz
	}
	return out
}
