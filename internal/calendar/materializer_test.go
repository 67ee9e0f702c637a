package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/internal/models"
)

func personalSource(id uuid.UUID) EventSource {
	return EventSource{EventID: id, Provenance: models.ProvenancePersonal}
}

func TestMaterializeBasicRecord(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	id := store.addEvent(&models.Event{
		Name:      "Morning run",
		StartsAt:  &start,
		EndsAt:    &end,
		OwnerType: models.OwnerUser,
		OwnerID:   viewer,
		Tags:      []string{"running"},
	})

	got := NewMaterializer(store, nil).Materialize(context.Background(), viewer, []EventSource{personalSource(id)})
	require.Len(t, got, 1)

	e := got[0]
	assert.Equal(t, id, e.EventID)
	assert.Equal(t, "Morning run", e.Title)
	require.NotNil(t, e.Start)
	require.NotNil(t, e.End)
	assert.Equal(t, start.UnixMilli(), *e.Start)
	assert.Equal(t, end.UnixMilli(), *e.End)
	assert.Equal(t, models.ProvenancePersonal, e.Provenance)
	assert.Equal(t, []string{"running"}, e.Tags)
}

func TestMaterializeNilInstantsStayNil(t *testing.T) {
	store := newFakeStore()
	id := store.addEvent(&models.Event{Name: "Sometime"})

	got := NewMaterializer(store, nil).Materialize(context.Background(), uuid.New(), []EventSource{personalSource(id)})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Start)
	assert.Nil(t, got[0].End)
}

func TestMaterializeViewerRSVP(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	other := uuid.New()

	withStatus := store.addEvent(&models.Event{Name: "A"})
	store.rsvps[withStatus] = map[string]string{viewer.String(): models.RSVPYes, other.String(): models.RSVPNo}
	without := store.addEvent(&models.Event{Name: "B"})
	store.rsvps[without] = map[string]string{other.String(): models.RSVPMaybe}

	got := NewMaterializer(store, nil).Materialize(context.Background(), viewer,
		[]EventSource{personalSource(withStatus), personalSource(without)})
	require.Len(t, got, 2)
	assert.Equal(t, models.RSVPYes, got[0].ViewerRSVP)
	assert.Equal(t, models.RSVPNone, got[1].ViewerRSVP)
}

func TestMaterializeWorkoutSummary(t *testing.T) {
	store := newFakeStore()
	withExercises := store.addEvent(&models.Event{Name: "Leg day"})
	store.exercises[withExercises] = []models.Exercise{{Name: "Squats"}, {Name: "Lunges"}}
	emptyWorkout := store.addEvent(&models.Event{Name: "Rest day"})
	store.exercises[emptyWorkout] = nil
	noWorkout := store.addEvent(&models.Event{Name: "Standup"})

	got := NewMaterializer(store, nil).Materialize(context.Background(), uuid.New(), []EventSource{
		personalSource(withExercises),
		personalSource(emptyWorkout),
		personalSource(noWorkout),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "Squats", got[0].WorkoutSummary)
	assert.Equal(t, "None", got[1].WorkoutSummary)
	assert.Equal(t, "None", got[2].WorkoutSummary)
}

func TestMaterializeDropsFailedSlotsInOrder(t *testing.T) {
	store := newFakeStore()
	first := store.addEvent(&models.Event{Name: "First"})
	gone := uuid.New() // never added
	broken := store.addEvent(&models.Event{Name: "Broken"})
	store.rsvpErrs[broken] = errors.New("timeout")
	last := store.addEvent(&models.Event{Name: "Last"})

	got := NewMaterializer(store, nil).Materialize(context.Background(), uuid.New(), []EventSource{
		personalSource(first),
		personalSource(gone),
		personalSource(broken),
		personalSource(last),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Last", got[1].Title)
}

func TestMaterializeEmptySources(t *testing.T) {
	store := newFakeStore()
	got := NewMaterializer(store, nil).Materialize(context.Background(), uuid.New(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
