package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headings(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Heading)
	}
	return out
}

func TestSortChronologically(t *testing.T) {
	events := []Event{
		{Heading: "late", TimeUTC: "2026-01-01T20:00:00Z"},
		{Heading: "untimed-1"},
		{Heading: "early", TimeUTC: "2026-01-01T08:00:00Z"},
		{Heading: "untimed-2", TimeUTC: "whenever"},
		{Heading: "offset", TimeUTC: "2026-01-01T01:00:00-08:00"},
	}

	sorted := SortChronologically(events)
	assert.Equal(t, []string{"early", "offset", "late", "untimed-1", "untimed-2"}, headings(sorted))
	assert.Equal(t, "late", events[0].Heading, "input slice is left untouched")
}

func TestFilterByPerson(t *testing.T) {
	events := CreateTestItinerary()

	tests := []struct {
		person string
		want   []string
	}{
		{"", []string{"Arrive SFO", "Check in", "Drive to Carmel", "Dinner", "Buy travel adapter"}},
		{"alice", []string{"Arrive SFO", "Check in", "Drive to Carmel", "Buy travel adapter"}},
		{"Bob", []string{"Arrive SFO", "Check in", "Dinner", "Buy travel adapter"}},
		{"carol", []string{"Check in", "Buy travel adapter"}},
	}

	for _, tt := range tests {
		t.Run(tt.person, func(t *testing.T) {
			assert.Equal(t, tt.want, headings(FilterByPerson(events, tt.person)))
		})
	}
}

func TestDeduplicate(t *testing.T) {
	a := CreateTestEvent("Dinner", "meal", "2026-01-01", "19:00")
	b := CreateTestEvent("Dinner", "meal", "2026-01-01", "19:00")
	c := CreateTestEvent("Dinner", "meal", "2026-01-02", "19:00")

	unique := Deduplicate([]Event{a, b, c})
	assert.Len(t, unique, 2)
	assert.Equal(t, "2026-01-01", unique[0].Date)
	assert.Equal(t, "2026-01-02", unique[1].Date)
}

func TestDeduplicate_KeepsEventsThatDifferInAnyField(t *testing.T) {
	alice := CreateTestEvent("Breakfast", "meal", "2026-01-01", "08:00")
	alice.Who = []string{"Alice"}
	bob := CreateTestEvent("Breakfast", "meal", "2026-01-01", "08:00")
	bob.Who = []string{"Bob"}
	noted := CreateTestEvent("Breakfast", "meal", "2026-01-01", "08:00")
	noted.Who = []string{"Alice"}
	noted.Notes = "Window table"

	unique := Deduplicate([]Event{alice, bob, noted})
	require.Len(t, unique, 3)

	forBob := FilterByPerson(unique, "Bob")
	require.Len(t, forBob, 1)
	assert.Equal(t, []string{"Bob"}, forBob[0].Who)
}

func TestDefaultTimezone(t *testing.T) {
	events := []Event{
		{Heading: "Ferry", Timezone: "NZDT"},
		{Heading: "Lunch"},
	}

	out := DefaultTimezone(events, "PST")
	assert.Equal(t, "NZDT", out[0].Timezone)
	assert.Equal(t, "PST", out[1].Timezone)
	assert.Empty(t, events[1].Timezone, "input is not modified")

	assert.Equal(t, events, DefaultTimezone(events, " "))
}

func TestApplyVenues(t *testing.T) {
	venues := map[string]Venue{
		"zuni": {ID: "zuni", CanonicalName: "Zuni Cafe", Aliases: []string{"Zuni"}},
	}
	events := []Event{
		{Heading: "Dinner", VenueID: "zuni"},
		{Heading: "Lunch", VenueID: "zuni", Location: "zuni"},
		{Heading: "Drinks", VenueID: "zuni", Location: "Upstairs bar"},
		{Heading: "Walk", VenueID: "unknown"},
		{Heading: "Nap"},
	}

	got := ApplyVenues(events, venues)
	require.Len(t, got, 5)
	assert.Equal(t, "Zuni Cafe", got[0].Location, "empty location takes the venue name")
	assert.Equal(t, "Zuni Cafe", got[1].Location, "alias is canonicalized")
	assert.Equal(t, "Upstairs bar", got[2].Location, "explicit location wins")
	assert.Empty(t, got[3].Location)
	assert.Empty(t, got[4].Location)
	assert.Empty(t, events[0].Location, "input is not modified")

	assert.Equal(t, events, ApplyVenues(events, nil))
}

func TestDescribeTransitions(t *testing.T) {
	events := []Event{
		{Heading: "Arrival", Location: "SFO"},
		{Heading: "Dinner", Location: "Zuni Cafe"},
		{Heading: "Dessert", Location: "zuni cafe"},
		{Heading: "Drive", TravelFrom: "San Francisco", TravelTo: "Carmel"},
		{Heading: "Check in", Location: "Carmel", TransitionFromPrev: "Valet at the door"},
		{Heading: "Call home"},
	}

	got := DescribeTransitions(events)
	require.Len(t, got, len(events))
	assert.Empty(t, got[0].TransitionFromPrev, "first event has no predecessor")
	assert.Equal(t, "Move from SFO to Zuni Cafe", got[1].TransitionFromPrev)
	assert.Empty(t, got[2].TransitionFromPrev, "same place")
	assert.Equal(t, "Move from zuni cafe to San Francisco", got[3].TransitionFromPrev)
	assert.Equal(t, "Valet at the door", got[4].TransitionFromPrev, "given transitions are kept")
	assert.Empty(t, got[5].TransitionFromPrev, "no place to move to")
	assert.Empty(t, events[1].TransitionFromPrev, "input is not modified")
}
