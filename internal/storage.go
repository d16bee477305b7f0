package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// TripSummary describes one stored trip
type TripSummary struct {
	ID         string `json:"id" yaml:"id"`
	EventCount int    `json:"event_count" yaml:"event_count"`
	FirstDate  string `json:"first_date" yaml:"first_date"`
	LastDate   string `json:"last_date" yaml:"last_date"`
}

// EventStore persists trip events in the events table. Each event is kept as
// its JSON document, with the date, kind and heading copied into columns for
// listing.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// SaveEvents replaces all events of a trip, preserving their order.
func (s *EventStore) SaveEvents(tripID string, events []Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Path: tripID, Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events WHERE trip_id = ?", tripID); err != nil {
		return &StorageError{Path: tripID, Op: "delete", Err: err}
	}

	stmt, err := tx.Prepare("INSERT INTO events (trip_id, position, date, kind, heading, data) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return &StorageError{Path: tripID, Op: "prepare", Err: err}
	}
	defer stmt.Close()

	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %q: %w", event.Heading, err)
		}
		if _, err := stmt.Exec(tripID, i, DateKey(event), event.NormalizedKind(), event.Heading, string(data)); err != nil {
			return &StorageError{Path: tripID, Op: "insert", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Path: tripID, Op: "commit", Err: err}
	}
	return nil
}

// LoadEvents loads the events of a trip in their saved order.
func (s *EventStore) LoadEvents(tripID string) ([]Event, error) {
	rows, err := s.db.Query("SELECT position, data FROM events WHERE trip_id = ? ORDER BY position", tripID)
	if err != nil {
		return nil, &StorageError{Path: tripID, Op: "query", Err: err}
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var position int
		var data string
		if err := rows.Scan(&position, &data); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		var event Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, &ParseError{Source: "database", Key: fmt.Sprintf("%s#%d", tripID, position), Err: err}
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("no events stored for trip %q", tripID)
	}
	return events, nil
}

// Trips lists stored trips ordered by id.
func (s *EventStore) Trips() ([]TripSummary, error) {
	// The unscheduled date key sorts after digits, so it never becomes FirstDate
	// unless a trip has no dated events at all.
	rows, err := s.db.Query(`
		SELECT trip_id, COUNT(*), MIN(date), MAX(CASE WHEN date = ? THEN '' ELSE date END)
		FROM events GROUP BY trip_id ORDER BY trip_id`, UnscheduledDate)
	if err != nil {
		return nil, &StorageError{Path: "events", Op: "query", Err: err}
	}
	defer rows.Close()

	var trips []TripSummary
	for rows.Next() {
		var trip TripSummary
		if err := rows.Scan(&trip.ID, &trip.EventCount, &trip.FirstDate, &trip.LastDate); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return trips, nil
}
