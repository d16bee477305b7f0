package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/export"
)

var (
	showDay    string
	showPerson string
	showDB     string
)

var (
	// Styles for show command
	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	dayMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 1)

	eventTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Width(12)

	eventHeadingStyle = lipgloss.NewStyle().
				Bold(true)

	eventDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				PaddingLeft(14)

	hardStopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <trip-dir | trip-id>",
	Short: "Show a trip's events day by day",
	Long: `Print every event of a trip grouped by day, with times, locations and
travel details. Use --day to show a single date (or TBD for unscheduled
events).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trip, err := loadTrip(args[0], showDB)
		if err != nil {
			return err
		}
		events := internal.SortChronologically(trip.events)
		events = internal.FilterByPerson(events, showPerson)
		days := internal.Aggregate(internal.DescribeTransitions(events))

		if showDay != "" {
			var selected []internal.TimelineDay
			for _, day := range days {
				if day.Date == showDay {
					selected = append(selected, day)
				}
			}
			if len(selected) == 0 {
				return fmt.Errorf("no events on %s", showDay)
			}
			days = selected
		}

		out := cmd.OutOrStdout()
		for i, day := range days {
			if i > 0 {
				fmt.Fprintln(out)
			}
			renderDay(out, day)
		}
		return nil
	},
}

func renderDay(w io.Writer, day internal.TimelineDay) {
	fmt.Fprintln(w, dayHeaderStyle.Render(day.DayHeader))

	var meta []string
	if day.WakeUpLocation != "" {
		meta = append(meta, "Wake up: "+day.WakeUpLocation)
	}
	if day.SleepLocation != "" {
		meta = append(meta, "Sleep: "+day.SleepLocation)
	}
	if weather := weatherCell(day); weather != "" {
		meta = append(meta, "Weather: "+weather)
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, dayMetaStyle.Render(strings.Join(meta, "  |  ")))
	}
	fmt.Fprintln(w)

	for _, e := range day.Events {
		when := export.FormatTime(e.TimeLocal, e.Timezone, false)
		line := eventTimeStyle.Render(when) + eventHeadingStyle.Render(e.Heading)
		if e.HardStop {
			line += " " + hardStopStyle.Render("[hard stop]")
		}
		fmt.Fprintln(w, line)

		for _, detail := range eventDetails(e) {
			fmt.Fprintln(w, eventDetailStyle.Render(detail))
		}
	}
}

// eventDetails lists the secondary lines printed under an event.
func eventDetails(e internal.Event) []string {
	var details []string
	if e.TravelFrom != "" && e.TravelTo != "" {
		route := e.TravelFrom + " → " + e.TravelTo
		if extra := strings.TrimSpace(strings.Join([]string{e.DistanceText, e.DurationText}, " ")); extra != "" {
			route += " (" + extra + ")"
		}
		details = append(details, route)
	} else if e.Location != "" {
		details = append(details, e.Location)
	}
	if e.TransitionFromPrev != "" {
		details = append(details, e.TransitionFromPrev)
	}
	if e.DurationSeconds > 0 {
		details = append(details, "Duration: "+internal.FormatDuration(e.DurationSeconds))
	}
	if e.NoLaterThan != "" {
		details = append(details, "No later than "+e.NoLaterThan)
	}
	if len(e.Who) > 0 {
		details = append(details, "Who: "+strings.Join(e.Who, ", "))
	}
	if e.Notes != "" {
		details = append(details, "Notes: "+e.Notes)
	}
	return details
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showDay, "day", "", "Only show this date (YYYY-MM-DD or TBD)")
	showCmd.Flags().StringVar(&showPerson, "person", "", "Only include events for this person (plus shared events)")
	showCmd.Flags().StringVar(&showDB, "db", "", "Read the trip from this event database instead of a directory")
}
