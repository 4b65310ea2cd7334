package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Participant is a roster entry. Names maps a name source (a channel or
// system label) to the display name used there; a single person may be
// known under different names on different channels.
type Participant struct {
	ID           uuid.UUID         `json:"id"`
	Names        map[string]string `json:"names"`
	AddByDefault bool              `json:"add_by_default"`
	Note         string            `json:"note"`

	// Reservations is a derived back-reference index, rebuilt by
	// Reconnect and the model's mutation operations. Not persisted.
	Reservations []*Reservation `json:"-"`
}

// NewParticipant creates a participant with a fresh identifier
func NewParticipant(names map[string]string, addByDefault bool, note string) *Participant {
	if names == nil {
		names = make(map[string]string)
	}
	return &Participant{
		ID:           uuid.New(),
		Names:        names,
		AddByDefault: addByDefault,
		Note:         note,
	}
}

// AllNames joins every known name into a single display string. The name
// sources are sorted so the result is stable.
func (p *Participant) AllNames() string {
	sources := make([]string, 0, len(p.Names))
	for source := range p.Names {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, p.Names[source])
	}
	return strings.Join(names, "/")
}
