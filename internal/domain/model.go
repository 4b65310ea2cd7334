package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Model is the aggregate root owning every entity. Entities hold
// back-references to each other for traversal, but the model's flat
// collections are the single source of truth and the only thing
// persisted. There is exactly one logical writer, so no locking.
type Model struct {
	Sources          []string       `json:"sources"`
	KnownNameSources []string       `json:"known_name_sources"`
	Participants     []*Participant `json:"participants"`
	Events           []*Event       `json:"events"`
	Reservations     []*Reservation `json:"reservations"`
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{}
}

// EventByID looks up an event by identifier
func (m *Model) EventByID(id uuid.UUID) (*Event, error) {
	for _, e := range m.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// ParticipantByID looks up a participant by identifier
func (m *Model) ParticipantByID(id uuid.UUID) (*Participant, error) {
	for _, p := range m.Participants {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("participant %s: %w", id, ErrNotFound)
}

// ReservationByID looks up a reservation by identifier
func (m *Model) ReservationByID(id uuid.UUID) (*Reservation, error) {
	for _, r := range m.Reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
}

// EventByDate looks up the event on a calendar date
func (m *Model) EventByDate(date Date) (*Event, error) {
	for _, e := range m.Events {
		if e.Date == date {
			return e, nil
		}
	}
	return nil, fmt.Errorf("event on %s: %w", date, ErrNotFound)
}

// FindReservation looks up the reservation linking an event and a
// participant. Callers use the miss to decide a pair can still be added.
func (m *Model) FindReservation(event *Event, participant *Participant) (*Reservation, error) {
	for _, r := range m.Reservations {
		if r.EventID == event.ID && r.ParticipantID == participant.ID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reservation for event %s and participant %s: %w",
		event.ID, participant.ID, ErrNotFound)
}

// FindParticipantByName looks up a participant by the name used on a
// specific name source. Bulk imports use it to deduplicate against the
// existing roster.
func (m *Model) FindParticipantByName(name, nameSource string) (*Participant, error) {
	for _, p := range m.Participants {
		if p.Names[nameSource] == name && name != "" {
			return p, nil
		}
	}
	return nil, fmt.Errorf("participant named %q on %q: %w", name, nameSource, ErrNotFound)
}

// AddParticipant creates a participant and appends it to the roster
func (m *Model) AddParticipant(names map[string]string, addByDefault bool, note string) *Participant {
	p := NewParticipant(names, addByDefault, note)
	m.Participants = append(m.Participants, p)
	return p
}

// NewEvent creates an event on the given date, rejecting a date that
// already has one. Participants flagged AddByDefault are enrolled with an
// auto-created reservation.
func (m *Model) NewEvent(date Date) (*Event, error) {
	if _, err := m.EventByDate(date); err == nil {
		return nil, fmt.Errorf("event on %s: %w", date, ErrDuplicate)
	}

	e := NewEvent(date)
	m.Events = append(m.Events, e)
	for _, p := range m.Participants {
		if p.AddByDefault {
			m.Reservations = append(m.Reservations, NewReservation(e, p, SourceAuto))
		}
	}
	e.RecomputeStatistics()
	return e, nil
}

// AddReservation reserves a spot for a participant at an event, rejecting
// a pair that already has one.
func (m *Model) AddReservation(event *Event, participant *Participant, source string) (*Reservation, error) {
	if _, err := m.FindReservation(event, participant); err == nil {
		return nil, fmt.Errorf("reservation for event %s and participant %s: %w",
			event.ID, participant.ID, ErrDuplicate)
	}

	r := NewReservation(event, participant, source)
	m.Reservations = append(m.Reservations, r)
	event.RecomputeStatistics()
	return r, nil
}

// BulkAdd appends imported participants and reservations, wires the new
// reservations into both back-reference indexes and recomputes the
// statistics of every event that gained reservations. Reservations may
// reference participants from the same batch.
func (m *Model) BulkAdd(participants []*Participant, reservations []*Reservation) error {
	m.Participants = append(m.Participants, participants...)

	affected := make(map[uuid.UUID]*Event)
	for _, r := range reservations {
		event, err := m.EventByID(r.EventID)
		if err != nil {
			return fmt.Errorf("bulk add reservation %s: %w", r.ID, err)
		}
		participant, err := m.ParticipantByID(r.ParticipantID)
		if err != nil {
			return fmt.Errorf("bulk add reservation %s: %w", r.ID, err)
		}

		r.Event = event
		r.Participant = participant
		event.Reservations = append(event.Reservations, r)
		participant.Reservations = append(participant.Reservations, r)
		m.Reservations = append(m.Reservations, r)
		affected[event.ID] = event
	}

	for _, e := range affected {
		e.RecomputeStatistics()
	}
	return nil
}

// Reconnect resolves every reservation's transient event and participant
// references from the stored foreign keys, rebuilds all back-reference
// indexes from scratch and recomputes every event's statistics. Mandatory
// after deserialization; a dangling foreign key means the persisted data
// is inconsistent.
func (m *Model) Reconnect() error {
	for _, e := range m.Events {
		e.Reservations = nil
	}
	for _, p := range m.Participants {
		p.Reservations = nil
	}

	for _, r := range m.Reservations {
		event, err := m.EventByID(r.EventID)
		if err != nil {
			return fmt.Errorf("reconnect reservation %s: %w", r.ID, err)
		}
		participant, err := m.ParticipantByID(r.ParticipantID)
		if err != nil {
			return fmt.Errorf("reconnect reservation %s: %w", r.ID, err)
		}

		r.Event = event
		r.Participant = participant
		event.Reservations = append(event.Reservations, r)
		participant.Reservations = append(participant.Reservations, r)
	}

	for _, e := range m.Events {
		e.RecomputeStatistics()
	}
	return nil
}

// RemoveEvent deletes an event and cascades to every reservation
// referencing it. Participants are never deleted here; their
// back-reference indexes are updated in place.
func (m *Model) RemoveEvent(event *Event) {
	events := m.Events[:0]
	for _, e := range m.Events {
		if e != event {
			events = append(events, e)
		}
	}
	m.Events = events

	reservations := m.Reservations[:0]
	for _, r := range m.Reservations {
		if r.EventID == event.ID {
			if r.Participant != nil {
				r.Participant.Reservations = removeReservation(r.Participant.Reservations, r)
			}
			continue
		}
		reservations = append(reservations, r)
	}
	m.Reservations = reservations
}

// PurgeParticipants deletes every participant with zero reservations and
// returns how many were removed. Reservations are untouched.
func (m *Model) PurgeParticipants() int {
	participants := m.Participants[:0]
	removed := 0
	for _, p := range m.Participants {
		if len(p.Reservations) == 0 {
			removed++
			continue
		}
		participants = append(participants, p)
	}
	m.Participants = participants
	return removed
}

// EventDates splits all event dates into upcoming and past relative to
// today. An event stays "upcoming" for two days past its date so a recent
// one remains easy to reach. Upcoming dates sort ascending, past dates
// descending.
func (m *Model) EventDates(today Date) (upcoming, past []Date) {
	for _, e := range m.Events {
		if e.Date.AddDays(2).After(today) {
			upcoming = append(upcoming, e.Date)
		} else {
			past = append(past, e.Date)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Before(upcoming[j]) })
	sort.Slice(past, func(i, j int) bool { return past[j].Before(past[i]) })
	return upcoming, past
}

func removeReservation(reservations []*Reservation, target *Reservation) []*Reservation {
	out := reservations[:0]
	for _, r := range reservations {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}
