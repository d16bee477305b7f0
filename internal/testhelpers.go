package internal

// CreateTestEvent creates a dated event with a local time
func CreateTestEvent(heading, kind, date, timeLocal string) Event {
	return Event{
		Heading:   heading,
		Kind:      kind,
		Date:      date,
		TimeLocal: timeLocal,
		Timezone:  "PST",
	}
}

// CreateTestItinerary creates a three-day trip with a hotel check-in on the
// first day, a drive on the second and an undated note.
func CreateTestItinerary() []Event {
	high, low := 68.0, 51.0
	return []Event{
		{
			Heading:    "Arrive SFO",
			Kind:       "flight_arrival",
			Date:       "2026-01-01",
			TimeLocal:  "10:00",
			Timezone:   "PST",
			Location:   "San Francisco International Airport",
			TravelFrom: "Auckland",
			Who:        []string{"alice", "bob"},
		},
		{
			Heading:     "Check in",
			Kind:        "lodging_checkin",
			Date:        "2026-01-01",
			TimeLocal:   "15:30",
			Timezone:    "PST",
			Location:    "Hotel Zephyr",
			WeatherHigh: &high,
			WeatherLow:  &low,

			WeatherConditions: "Fog clearing by noon",
		},
		{
			Heading:         "Drive to Carmel",
			Kind:            "drive",
			Date:            "2026-01-02",
			TimeLocal:       "09:00",
			Timezone:        "PST",
			TravelFrom:      "Hotel Zephyr",
			TravelTo:        "Carmel-by-the-Sea",
			DurationSeconds: 9000,
			DistanceText:    "120 mi",
			Who:             []string{"alice"},
		},
		{
			Heading:   "Dinner",
			Kind:      "meal",
			Date:      "2026-01-02",
			TimeLocal: "19:00",
			Timezone:  "PST",
			Location:  "Carmel",
			Who:       []string{"bob"},
		},
		{
			Heading: "Buy travel adapter",
			Kind:    "activity",
			Notes:   "Any day before departure",
		},
	}
}
