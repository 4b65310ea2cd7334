package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShowedUp is the tri-state attendance outcome of a reservation. The
// integer tags are persisted as-is.
type ShowedUp int

const (
	ShowedUpUnknown ShowedUp = iota + 1
	ShowedUpShowed
	ShowedUpNoShow
)

func (s ShowedUp) String() string {
	switch s {
	case ShowedUpUnknown:
		return "unknown"
	case ShowedUpShowed:
		return "showed"
	case ShowedUpNoShow:
		return "noshow"
	default:
		return "invalid"
	}
}

// Valid reports whether s is one of the three known states
func (s ShowedUp) Valid() bool {
	return s >= ShowedUpUnknown && s <= ShowedUpNoShow
}

// Reservation source tags for reservations the system creates itself.
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// Reservation links a participant to an event. EventID and ParticipantID
// are fixed at creation; a reservation is never moved between events or
// participants.
type Reservation struct {
	ID            uuid.UUID `json:"id"`
	EventID       uuid.UUID `json:"event_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	AddedTime     time.Time `json:"added_time"`
	Source        string    `json:"source"`
	Cancelled     bool      `json:"cancelled"`
	ShowedUp      ShowedUp  `json:"showed_up"`
	Note          string    `json:"note"`

	// Event and Participant are resolved from the foreign keys by
	// Reconnect. Not persisted.
	Event       *Event       `json:"-"`
	Participant *Participant `json:"-"`
}

// NewReservation creates a reservation between a connected event and
// participant and registers it in both back-reference indexes. The caller
// still owns appending it to the model's reservation collection.
func NewReservation(event *Event, participant *Participant, source string) *Reservation {
	r := &Reservation{
		ID:            uuid.New(),
		EventID:       event.ID,
		ParticipantID: participant.ID,
		AddedTime:     time.Now(),
		Source:        source,
		ShowedUp:      ShowedUpUnknown,
		Event:         event,
		Participant:   participant,
	}
	event.Reservations = append(event.Reservations, r)
	participant.Reservations = append(participant.Reservations, r)
	return r
}

// SetCancelled updates the cancellation state and recomputes the owning
// event's statistics as a single operation.
func (r *Reservation) SetCancelled(cancelled bool) {
	r.Cancelled = cancelled
	if r.Event != nil {
		r.Event.RecomputeStatistics()
	}
}

// SetShowedUp updates the attendance outcome and recomputes the owning
// event's statistics as a single operation.
func (r *Reservation) SetShowedUp(showedUp ShowedUp) {
	r.ShowedUp = showedUp
	if r.Event != nil {
		r.Event.RecomputeStatistics()
	}
}
