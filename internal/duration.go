package internal

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`(?i)^(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?$`)

// ParseDuration parses "1h30m", "2h", "45m" or "1h 30m" into seconds. An
// empty string parses to zero.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("invalid duration %q: expected a form like 1h30m, 2h or 45m", s)
	}
	hours, minutes := 0, 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	return hours*3600 + minutes*60, nil
}

// FormatDuration renders seconds as "1h 30m", "2h" or "45m", rounded to the
// nearest minute.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}
	total := int(math.Round(float64(seconds) / 60))
	hours, minutes := total/60, total%60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
