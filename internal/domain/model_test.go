package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel(t *testing.T) (*Model, *Event, *Participant, *Reservation) {
	t.Helper()

	m := NewModel()
	m.Sources = []string{"PM", "FL"}
	m.KnownNameSources = []string{"real", "FL"}

	p := m.AddParticipant(map[string]string{"real": "Kurt"}, false, "")
	e, err := m.NewEvent(NewDate(2025, time.January, 1))
	require.NoError(t, err)
	r, err := m.AddReservation(e, p, "FL")
	require.NoError(t, err)

	return m, e, p, r
}

func assertStatisticsInvariants(t *testing.T, e *Event) {
	t.Helper()
	s := e.Statistics
	assert.Equal(t, s.Total-s.Cancelled, s.Expected)
	assert.Equal(t, s.Shows+s.NoShows+s.Unknown, s.Expected)
}

func TestStatistics_ConcreteScenario(t *testing.T) {
	_, e, _, r := sampleModel(t)

	e.RecomputeStatistics()
	assert.Equal(t, Statistics{Total: 1, Expected: 1, Cancelled: 0, Shows: 0, NoShows: 0, Unknown: 1}, e.Statistics)

	r.SetShowedUp(ShowedUpShowed)
	assert.Equal(t, Statistics{Total: 1, Expected: 1, Cancelled: 0, Shows: 1, NoShows: 0, Unknown: 0}, e.Statistics)
}

func TestStatistics_InvariantsAfterMutations(t *testing.T) {
	m, e, _, r := sampleModel(t)

	second := m.AddParticipant(map[string]string{"real": "Max"}, false, "")
	r2, err := m.AddReservation(e, second, "PM")
	require.NoError(t, err)

	mutations := []func(){
		func() { r.SetCancelled(true) },
		func() { r2.SetShowedUp(ShowedUpNoShow) },
		func() { r.SetCancelled(false) },
		func() { r.SetShowedUp(ShowedUpShowed) },
		func() { r2.SetCancelled(true) },
		func() { r2.SetShowedUp(ShowedUpUnknown) },
	}
	for _, mutate := range mutations {
		mutate()
		assertStatisticsInvariants(t, e)
	}

	assert.Equal(t, Statistics{Total: 2, Expected: 1, Cancelled: 1, Shows: 1, NoShows: 0, Unknown: 0}, e.Statistics)
}

func TestSetCancelled_RecomputesOwningEvent(t *testing.T) {
	_, e, _, r := sampleModel(t)

	r.SetCancelled(true)
	assert.Equal(t, 1, e.Statistics.Cancelled)
	assert.Equal(t, 0, e.Statistics.Expected)

	r.SetCancelled(false)
	assert.Equal(t, 0, e.Statistics.Cancelled)
	assert.Equal(t, 1, e.Statistics.Expected)
}

func TestNewEvent_RejectsDuplicateDate(t *testing.T) {
	m, _, _, _ := sampleModel(t)

	_, err := m.NewEvent(NewDate(2025, time.January, 1))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, m.Events, 1)
}

func TestNewEvent_AutoEnrollsDefaultParticipants(t *testing.T) {
	m := NewModel()
	regular := m.AddParticipant(map[string]string{"real": "Kurt"}, true, "")
	m.AddParticipant(map[string]string{"real": "Max"}, false, "")

	e, err := m.NewEvent(NewDate(2025, time.March, 14))
	require.NoError(t, err)

	require.Len(t, m.Reservations, 1)
	r := m.Reservations[0]
	assert.Equal(t, regular.ID, r.ParticipantID)
	assert.Equal(t, e.ID, r.EventID)
	assert.Equal(t, SourceAuto, r.Source)
	assert.Equal(t, ShowedUpUnknown, r.ShowedUp)
	assert.Equal(t, 1, e.Statistics.Total)
}

func TestAddReservation_RejectsDuplicatePair(t *testing.T) {
	m, e, p, _ := sampleModel(t)

	_, err := m.AddReservation(e, p, "PM")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, m.Reservations, 1)
}

func TestRemoveEvent_CascadesToItsReservationsOnly(t *testing.T) {
	m, e, p, _ := sampleModel(t)

	other, err := m.NewEvent(NewDate(2025, time.February, 1))
	require.NoError(t, err)
	kept, err := m.AddReservation(other, p, "PM")
	require.NoError(t, err)

	m.RemoveEvent(e)

	assert.Len(t, m.Events, 1)
	require.Len(t, m.Reservations, 1)
	assert.Same(t, kept, m.Reservations[0])
	// The participant survives with only the remaining back-reference.
	assert.Len(t, m.Participants, 1)
	require.Len(t, p.Reservations, 1)
	assert.Same(t, kept, p.Reservations[0])
}

func TestPurgeParticipants_RemovesOnlyUnreferenced(t *testing.T) {
	m, _, p, _ := sampleModel(t)
	m.AddParticipant(map[string]string{"real": "Max"}, false, "")
	m.AddParticipant(map[string]string{"real": "Ida"}, false, "")

	removed := m.PurgeParticipants()

	assert.Equal(t, 2, removed)
	require.Len(t, m.Participants, 1)
	assert.Same(t, p, m.Participants[0])
	assert.Len(t, m.Reservations, 1)
}

func TestBulkAddRecomputesStatistics(t *testing.T) {
	m, e, _, _ := sampleModel(t)

	imported := NewParticipant(map[string]string{"FL": "newcomer"}, false, "")
	r := &Reservation{
		ID:            uuid.New(),
		EventID:       e.ID,
		ParticipantID: imported.ID,
		AddedTime:     time.Now(),
		Source:        "FL",
		ShowedUp:      ShowedUpUnknown,
	}

	err := m.BulkAdd([]*Participant{imported}, []*Reservation{r})
	require.NoError(t, err)

	assert.Len(t, m.Participants, 2)
	assert.Len(t, m.Reservations, 2)
	assert.Same(t, e, r.Event)
	assert.Same(t, imported, r.Participant)
	assert.Equal(t, 2, e.Statistics.Total)
	assert.Equal(t, 2, e.Statistics.Unknown)
	assertStatisticsInvariants(t, e)
}

func TestBulkAdd_DanglingForeignKey(t *testing.T) {
	m, _, _, _ := sampleModel(t)

	r := &Reservation{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		ParticipantID: uuid.New(),
		AddedTime:     time.Now(),
		ShowedUp:      ShowedUpUnknown,
	}

	err := m.BulkAdd(nil, []*Reservation{r})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconnect_RebuildsReferencesAndStatistics(t *testing.T) {
	m, e, p, r := sampleModel(t)
	r.SetShowedUp(ShowedUpShowed)

	// Simulate a freshly deserialized model: only foreign keys survive.
	r.Event = nil
	r.Participant = nil
	e.Reservations = []*Reservation{r, r} // stale duplicates must not survive
	p.Reservations = nil
	e.Statistics = Statistics{}

	require.NoError(t, m.Reconnect())

	assert.Same(t, e, r.Event)
	assert.Same(t, p, r.Participant)
	require.Len(t, e.Reservations, 1)
	require.Len(t, p.Reservations, 1)
	assert.Equal(t, Statistics{Total: 1, Expected: 1, Shows: 1}, e.Statistics)
}

func TestReconnect_DanglingForeignKey(t *testing.T) {
	m, _, _, r := sampleModel(t)
	r.ParticipantID = uuid.New()

	err := m.Reconnect()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookups_NotFound(t *testing.T) {
	m, e, p, _ := sampleModel(t)

	_, err := m.EventByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.ParticipantByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.ReservationByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.EventByDate(NewDate(1999, time.December, 31))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.FindReservation(e, NewParticipant(nil, false, ""))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.FindParticipantByName("Nobody", "real")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := m.FindParticipantByName("Kurt", "real")
	require.NoError(t, err)
	assert.Same(t, p, found)
}

func TestFindParticipantByName_IgnoresEmptyNames(t *testing.T) {
	m := NewModel()
	m.AddParticipant(map[string]string{"real": ""}, false, "")

	_, err := m.FindParticipantByName("", "real")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventDates_PartitionsWithGracePeriod(t *testing.T) {
	m := NewModel()
	today := NewDate(2025, time.June, 15)

	for _, d := range []Date{
		NewDate(2025, time.June, 20),
		NewDate(2025, time.June, 14), // yesterday, still within the 2-day grace
		NewDate(2025, time.June, 1),
		NewDate(2025, time.May, 1),
		NewDate(2025, time.July, 1),
	} {
		_, err := m.NewEvent(d)
		require.NoError(t, err)
	}

	upcoming, past := m.EventDates(today)

	assert.Equal(t, []Date{
		NewDate(2025, time.June, 14),
		NewDate(2025, time.June, 20),
		NewDate(2025, time.July, 1),
	}, upcoming)
	assert.Equal(t, []Date{
		NewDate(2025, time.June, 1),
		NewDate(2025, time.May, 1),
	}, past)
}

func TestAllNames_StableOrder(t *testing.T) {
	p := NewParticipant(map[string]string{"real": "Kurt", "FL": "somebody"}, false, "")
	assert.Equal(t, "somebody/Kurt", p.AllNames())
}
