package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/source"
)

var (
	importDB string
	importID string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <trip-dir>",
	Short: "Store a trip's events in an event database",
	Long: `Read a trip directory and save its events to a SQLite event database.
A stored trip replaces any earlier import with the same id and can be used by
generate, show and timeline through --db.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := source.Open(args[0])
		if err != nil {
			return err
		}
		events, err := readTripEvents(dir)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("no events found in %s", dir.Dir())
		}

		id := importID
		if id == "" {
			id = dir.Name()
		}

		db, err := internal.OpenWritableDatabase(importDB)
		if err != nil {
			return err
		}
		defer db.Close()

		store := internal.NewEventStore(db)
		stored, err := store.Trips()
		if err != nil {
			return err
		}
		for _, trip := range stored {
			if trip.ID == id {
				internal.PrintWarning(fmt.Sprintf("Replacing %d stored events of trip %q", trip.EventCount, id))
			}
		}

		save := fmt.Sprintf("Saving %d events to %s", len(events), importDB)
		if err := internal.ShowProgress(cmd.Context(), save, func() error {
			return store.SaveEvents(id, events)
		}); err != nil {
			return err
		}
		internal.LogDebug("Saved %d events to %s", len(events), importDB)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events as trip %q\n", len(events), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importDB, "db", "", "Event database to write (created if missing)")
	importCmd.Flags().StringVar(&importID, "id", "", "Trip id (defaults to the directory name)")
	_ = importCmd.MarkFlagRequired("db")
}
