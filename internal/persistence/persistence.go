// Package persistence bridges the domain model and the snapshot store:
// it owns the load-at-startup path (including the fresh-model fallback)
// and the periodic/shutdown saves.
package persistence

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/munchclub/muncher/internal/document"
	"github.com/munchclub/muncher/internal/domain"
	"github.com/munchclub/muncher/internal/logger"
	"github.com/munchclub/muncher/internal/storage"
)

// Manager glues the document codec to a snapshot store
type Manager struct {
	store storage.Store
	seed  bool
	log   *log.Logger
}

// NewManager creates a persistence manager. When seed is true, a failed
// startup load produces an example-seeded model instead of an empty one.
func NewManager(store storage.Store, seed bool) *Manager {
	return &Manager{
		store: store,
		seed:  seed,
		log:   logger.Persistence(),
	}
}

// Validator returns the store self-check: the snapshot must decode and
// reconnect into a consistent model.
func Validator() storage.Validator {
	return func(data []byte) error {
		m, err := document.Decode(data)
		if err != nil {
			return err
		}
		return m.Reconnect()
	}
}

// LoadOnStartup loads the newest valid snapshot into a connected model.
// When no snapshot can be loaded the process starts with a fresh model
// (optionally seeded with example data) rather than failing; the operator
// is warned through the log.
func (m *Manager) LoadOnStartup() *domain.Model {
	data, err := m.store.Load()
	if err != nil {
		m.log.Warn("unable to load any snapshot, starting fresh", "error", err)
		return m.freshModel()
	}

	model, err := document.Decode(data)
	if err != nil {
		m.log.Warn("loaded snapshot does not decode, starting fresh", "error", err)
		return m.freshModel()
	}
	if err := model.Reconnect(); err != nil {
		m.log.Warn("loaded snapshot is inconsistent, starting fresh", "error", err)
		return m.freshModel()
	}

	return model
}

// Save serializes the model and hands it to the snapshot store
func (m *Manager) Save(model *domain.Model) error {
	data, err := document.Encode(model)
	if err != nil {
		return err
	}
	return m.store.Save(data)
}

func (m *Manager) freshModel() *domain.Model {
	model := domain.NewModel()
	if m.seed {
		m.log.Info("seeding example data")
		SeedExampleData(model)
	}
	return model
}

// SeedExampleData fills a model with a small starter dataset: two
// reservation sources, two name sources, two participants and one event
// with a single reservation.
func SeedExampleData(m *domain.Model) {
	m.Sources = []string{"PM", "FL"}
	m.KnownNameSources = []string{"real", "FL"}

	kurt := m.AddParticipant(map[string]string{"real": "Kurt", "FL": "somebody"}, false, "")
	m.AddParticipant(map[string]string{"real": "Max", "FL": "whatever"}, false, "")

	event, err := m.NewEvent(domain.NewDate(2025, time.January, 1))
	if err != nil {
		return
	}
	if _, err := m.AddReservation(event, kurt, "FL"); err != nil {
		logger.Persistence().Error("unable to seed reservation", "error", err)
	}
}
