package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
)

var listDB string

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips stored in an event database",
	Long:  `List every trip saved by 'itingen import', with its event count and date range.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := internal.OpenDatabase(listDB)
		if err != nil {
			return err
		}
		defer db.Close()

		trips, err := internal.NewEventStore(db).Trips()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(trips) == 0 {
			fmt.Fprintln(out, "No trips stored.")
			return nil
		}
		fmt.Fprintln(out, headerStyle.Render("Stored trips")+" "+countStyle.Render(strconv.Itoa(len(trips))))
		renderTrips(out, trips)
		return nil
	},
}

func renderTrips(w io.Writer, trips []internal.TripSummary) {
	table := newTextTable(w, "Trip", "Events", "First", "Last")
	for _, trip := range trips {
		last := trip.LastDate
		if last == "" {
			last = trip.FirstDate
		}
		table.AddRow(trip.ID, strconv.Itoa(trip.EventCount), trip.FirstDate, last)
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDB, "db", "", "Event database to read")
	_ = listCmd.MarkFlagRequired("db")
}
