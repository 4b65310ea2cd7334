package domain

import (
	"github.com/google/uuid"
)

// Statistics is the derived attendance summary of a single event.
// Expected == Total - Cancelled and Expected == Shows + NoShows + Unknown
// hold after every recomputation.
type Statistics struct {
	Total     int `json:"total"`
	Expected  int `json:"expected"`
	Cancelled int `json:"cancelled"`
	Shows     int `json:"shows"`
	NoShows   int `json:"noshows"`
	Unknown   int `json:"unknown"`
}

// Event is a dated occurrence participants reserve a spot at. At most one
// event exists per date; NewEvent on the model enforces that.
type Event struct {
	ID   uuid.UUID `json:"id"`
	Date Date      `json:"date"`

	// Reservations is a derived back-reference index, rebuilt by
	// Reconnect and the model's mutation operations. Not persisted.
	Reservations []*Reservation `json:"-"`

	// Statistics is derived from Reservations. Not persisted.
	Statistics Statistics `json:"-"`
}

// NewEvent creates an event with a fresh identifier. Use
// Model.NewEvent to get duplicate-date checking and auto-enrollment.
func NewEvent(date Date) *Event {
	return &Event{
		ID:   uuid.New(),
		Date: date,
	}
}

// RecomputeStatistics recounts the attendance summary from the event's
// current reservations. It must be re-run after any mutation of a
// reservation's cancelled or showed-up state; SetCancelled and
// SetShowedUp do so on their own.
func (e *Event) RecomputeStatistics() {
	var stats Statistics
	for _, r := range e.Reservations {
		stats.Total++
		if r.Cancelled {
			stats.Cancelled++
			continue
		}
		stats.Expected++
		switch r.ShowedUp {
		case ShowedUpShowed:
			stats.Shows++
		case ShowedUpNoShow:
			stats.NoShows++
		default:
			stats.Unknown++
		}
	}
	e.Statistics = stats
}
