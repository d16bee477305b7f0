package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
)

var (
	timelinePerson string
	timelineDB     string
)

// timelineCmd represents the timeline command
var timelineCmd = &cobra.Command{
	Use:   "timeline <trip-dir | trip-id>",
	Short: "Print the day-by-day overview of a trip",
	Long: `Group a trip's events into days and print one row per day with its event
count, wake-up and sleep locations and weather.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trip, err := loadTrip(args[0], timelineDB)
		if err != nil {
			return err
		}
		events := internal.SortChronologically(trip.events)
		events = internal.FilterByPerson(events, timelinePerson)
		days := internal.Aggregate(events)

		renderTimeline(cmd.OutOrStdout(), days)
		return nil
	},
}

func renderTimeline(w io.Writer, days []internal.TimelineDay) {
	table := newTextTable(w, "Date", "Day", "Events", "Wake up", "Sleep", "Weather")
	for _, day := range days {
		table.AddRow(
			day.Date,
			day.DayHeader,
			strconv.Itoa(len(day.Events)),
			day.WakeUpLocation,
			day.SleepLocation,
			weatherCell(day),
		)
	}
	table.Render()
}

func weatherCell(day internal.TimelineDay) string {
	var parts []string
	if day.WeatherHigh != nil {
		temps := fmt.Sprintf("%.0f°F", *day.WeatherHigh)
		if day.WeatherLow != nil {
			temps = fmt.Sprintf("%.0f/%.0f°F", *day.WeatherHigh, *day.WeatherLow)
		}
		parts = append(parts, temps)
	}
	if day.WeatherConditions != "" {
		parts = append(parts, day.WeatherConditions)
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.Flags().StringVar(&timelinePerson, "person", "", "Only include events for this person (plus shared events)")
	timelineCmd.Flags().StringVar(&timelineDB, "db", "", "Read the trip from this event database instead of a directory")
}
