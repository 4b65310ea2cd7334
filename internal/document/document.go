// Package document defines the persisted snapshot schema and the explicit
// encode/decode pair between it and the domain model. Decoding validates
// field by field instead of trusting the JSON shape; transient state
// (back-references, statistics) is never part of the document.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/munchclub/muncher/internal/domain"
	"github.com/munchclub/muncher/internal/validation"
)

// ErrValidation indicates the document does not parse into a well-formed
// model.
var ErrValidation = errors.New("validation failed")

// Document is the top-level persisted structure
type Document struct {
	Sources          []string         `json:"sources"`
	KnownNameSources []string         `json:"known_name_sources"`
	Participants     []ParticipantDoc `json:"participants"`
	Events           []EventDoc       `json:"events"`
	Reservations     []ReservationDoc `json:"reservations"`
}

// ParticipantDoc is the persisted subset of a participant
type ParticipantDoc struct {
	ID           string            `json:"id"`
	Names        map[string]string `json:"names"`
	AddByDefault bool              `json:"add_by_default"`
	Note         string            `json:"note"`
}

// EventDoc is the persisted subset of an event
type EventDoc struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// ReservationDoc is the persisted subset of a reservation
type ReservationDoc struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	ParticipantID string `json:"participant_id"`
	AddedTime     string `json:"added_time"`
	Source        string `json:"source"`
	Cancelled     bool   `json:"cancelled"`
	ShowedUp      int    `json:"showed_up"`
	Note          string `json:"note"`
}

// Encode serializes the model's persisted fields into an indented JSON
// document sufficient to fully reconstruct it.
func Encode(m *domain.Model) ([]byte, error) {
	doc := Document{
		Sources:          m.Sources,
		KnownNameSources: m.KnownNameSources,
		Participants:     make([]ParticipantDoc, 0, len(m.Participants)),
		Events:           make([]EventDoc, 0, len(m.Events)),
		Reservations:     make([]ReservationDoc, 0, len(m.Reservations)),
	}

	for _, p := range m.Participants {
		doc.Participants = append(doc.Participants, ParticipantDoc{
			ID:           p.ID.String(),
			Names:        p.Names,
			AddByDefault: p.AddByDefault,
			Note:         p.Note,
		})
	}
	for _, e := range m.Events {
		doc.Events = append(doc.Events, EventDoc{
			ID:   e.ID.String(),
			Date: e.Date.String(),
		})
	}
	for _, r := range m.Reservations {
		doc.Reservations = append(doc.Reservations, ReservationDoc{
			ID:            r.ID.String(),
			EventID:       r.EventID.String(),
			ParticipantID: r.ParticipantID.String(),
			AddedTime:     r.AddedTime.Format(time.RFC3339Nano),
			Source:        r.Source,
			Cancelled:     r.Cancelled,
			ShowedUp:      int(r.ShowedUp),
			Note:          r.Note,
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a document into a model with no back-references or
// statistics populated; the caller must invoke Reconnect afterward. Any
// schema mismatch or malformed field is reported as an ErrValidation
// wrap.
func Decode(data []byte) (*domain.Model, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m := domain.NewModel()
	m.Sources = doc.Sources
	m.KnownNameSources = doc.KnownNameSources

	for i, p := range doc.Participants {
		participant, err := decodeParticipant(p)
		if err != nil {
			return nil, fmt.Errorf("%w: participant %d: %v", ErrValidation, i, err)
		}
		m.Participants = append(m.Participants, participant)
	}
	for i, e := range doc.Events {
		event, err := decodeEvent(e)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrValidation, i, err)
		}
		m.Events = append(m.Events, event)
	}
	for i, r := range doc.Reservations {
		reservation, err := decodeReservation(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reservation %d: %v", ErrValidation, i, err)
		}
		m.Reservations = append(m.Reservations, reservation)
	}

	return m, nil
}

func decodeParticipant(doc ParticipantDoc) (*domain.Participant, error) {
	if err := validation.ValidateUUID(doc.ID, "id"); err != nil {
		return nil, err
	}
	names := doc.Names
	if names == nil {
		names = make(map[string]string)
	}
	return &domain.Participant{
		ID:           uuid.MustParse(doc.ID),
		Names:        names,
		AddByDefault: doc.AddByDefault,
		Note:         doc.Note,
	}, nil
}

func decodeEvent(doc EventDoc) (*domain.Event, error) {
	if err := validation.ValidateUUID(doc.ID, "id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate(doc.Date, "date"); err != nil {
		return nil, err
	}
	date, _ := domain.ParseDate(doc.Date)
	return &domain.Event{
		ID:   uuid.MustParse(doc.ID),
		Date: date,
	}, nil
}

func decodeReservation(doc ReservationDoc) (*domain.Reservation, error) {
	if err := validation.ValidateUUID(doc.ID, "id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(doc.EventID, "event_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(doc.ParticipantID, "participant_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateTimestamp(doc.AddedTime, "added_time"); err != nil {
		return nil, err
	}
	showedUp := domain.ShowedUp(doc.ShowedUp)
	if !showedUp.Valid() {
		return nil, fmt.Errorf("showed_up must be between %d and %d",
			domain.ShowedUpUnknown, domain.ShowedUpNoShow)
	}
	addedTime, _ := time.Parse(time.RFC3339Nano, doc.AddedTime)

	return &domain.Reservation{
		ID:            uuid.MustParse(doc.ID),
		EventID:       uuid.MustParse(doc.EventID),
		ParticipantID: uuid.MustParse(doc.ParticipantID),
		AddedTime:     addedTime,
		Source:        doc.Source,
		Cancelled:     doc.Cancelled,
		ShowedUp:      showedUp,
		Note:          doc.Note,
	}, nil
}
