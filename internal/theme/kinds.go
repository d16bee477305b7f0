package theme

import "strings"

// Event kinds with a registered color and icon.
const (
	KindMeal            = "meal"
	KindActivity        = "activity"
	KindFlightDeparture = "flight_departure"
	KindFlightArrival   = "flight_arrival"
	KindDrive           = "drive"
	KindWalk            = "walk"
	KindFerry           = "ferry"
	KindLodgingCheckin  = "lodging_checkin"
	KindLodgingStay     = "lodging_stay"
	KindLodgingCheckout = "lodging_checkout"
	KindDecision        = "decision"
)

var kindColors = map[string]Color{
	KindMeal:            MustHex("#B45309"),
	KindActivity:        MustHex("#16A34A"),
	KindFlightDeparture: MustHex("#0369A1"),
	KindFlightArrival:   MustHex("#0369A1"),
	KindDrive:           MustHex("#4B5563"),
	KindWalk:            MustHex("#65A30D"),
	KindFerry:           MustHex("#2563EB"),
	KindLodgingCheckin:  MustHex("#7C3AED"),
	KindLodgingStay:     MustHex("#7C3AED"),
	KindLodgingCheckout: MustHex("#7C3AED"),
	KindDecision:        MustHex("#C2410C"),
}

// Material icon names per kind.
var kindIcons = map[string]string{
	KindMeal:            "restaurant",
	KindActivity:        "local_activity",
	KindFlightDeparture: "flight_takeoff",
	KindFlightArrival:   "flight_land",
	KindDrive:           "directions_car",
	KindWalk:            "hiking",
	KindFerry:           "directions_boat",
	KindLodgingCheckin:  "hotel",
	KindLodgingStay:     "hotel",
	KindLodgingCheckout: "logout",
	KindDecision:        "call_split",
}

// Codepoints of the icons above in the Material Icons font.
var iconCodepoints = map[string]rune{
	"restaurant":      0xE56C,
	"local_activity":  0xE53F,
	"flight_takeoff":  0xE905,
	"flight_land":     0xE904,
	"directions_car":  0xE531,
	"hiking":          0xE50A,
	"directions_boat": 0xE532,
	"hotel":           0xE53A,
	"logout":          0xE9BA,
	"call_split":      0xE0B6,
}

// Kinds returns the registered kinds.
func Kinds() []string {
	return []string{
		KindMeal, KindActivity, KindFlightDeparture, KindFlightArrival, KindDrive, KindWalk,
		KindFerry, KindLodgingCheckin, KindLodgingStay, KindLodgingCheckout, KindDecision,
	}
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// IconFor returns the icon name for kind, or "" for unregistered kinds.
func IconFor(kind string) string {
	return kindIcons[normalizeKind(kind)]
}

// ColorFor returns the badge color for kind, falling back to the theme's
// muted color.
func ColorFor(kind string, t Theme) Color {
	if c, ok := kindColors[normalizeKind(kind)]; ok {
		return c
	}
	return t.Muted
}

// IconRune returns the glyph for an icon name.
func IconRune(name string) (rune, bool) {
	r, ok := iconCodepoints[name]
	return r, ok
}

// BadgeLetter is the fallback badge glyph: the kind's first letter, or "?".
func BadgeLetter(kind string) string {
	k := strings.TrimSpace(kind)
	if k == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(k)[:1]))
}
