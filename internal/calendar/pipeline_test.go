package calendar

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/internal/models"
)

func TestPipelineRefreshThenApply(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	yoga := store.addEvent(&models.Event{Name: "Yoga", Tags: []string{"wellness"}})
	run := store.addEvent(&models.Event{Name: "Run", Tags: []string{"cardio"}})
	store.userEvents[viewer] = []uuid.UUID{yoga, run}

	p := NewPipeline(store, nil)
	events, err := p.Refresh(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, events, 2)

	res := p.Apply(Filter{Tags: []string{"cardio"}})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Run", res.Events[0].Title)

	res = p.Apply(Filter{})
	assert.Len(t, res.Events, 2)
}

func TestPipelineApplyDoesNotReResolve(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	first := store.addEvent(&models.Event{Name: "First"})
	store.userEvents[viewer] = []uuid.UUID{first}

	p := NewPipeline(store, nil)
	_, err := p.Refresh(context.Background(), viewer)
	require.NoError(t, err)

	// New data after the refresh must not appear until the next Refresh.
	later := store.addEvent(&models.Event{Name: "Later"})
	store.mu.Lock()
	store.userEvents[viewer] = []uuid.UUID{first, later}
	store.mu.Unlock()

	res := p.Apply(Filter{})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "First", res.Events[0].Title)
}

func TestPipelineStaleRefreshIsDiscarded(t *testing.T) {
	store := newFakeStore()
	slow := uuid.New()
	fast := uuid.New()
	slowEvent := store.addEvent(&models.Event{Name: "Slow viewer event"})
	fastEvent := store.addEvent(&models.Event{Name: "Fast viewer event"})
	store.userEvents[slow] = []uuid.UUID{slowEvent}
	store.userEvents[fast] = []uuid.UUID{fastEvent}

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	store.userGates[slow] = gate
	store.userEntered[slow] = entered

	p := NewPipeline(store, nil)

	type result struct {
		events []models.CalendarEvent
		err    error
	}
	done := make(chan result, 1)
	go func() {
		events, err := p.Refresh(context.Background(), slow)
		done <- result{events, err}
	}()

	// Wait for the slow refresh to reach the store before starting the second one.
	<-entered
	_, err := p.Refresh(context.Background(), fast)
	require.NoError(t, err)

	close(gate)
	got := <-done
	assert.ErrorIs(t, got.err, ErrSuperseded)

	// Only the latest viewer's records survive.
	res := p.Apply(Filter{})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Fast viewer event", res.Events[0].Title)
}

func TestPipelineEndToEndScenario(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	group := uuid.New()

	training := store.addEvent(&models.Event{Name: "Training", Tags: []string{"Training"}})
	match := store.addEvent(&models.Event{Name: "Match", Tags: []string{"Match"}})
	store.userEvents[viewer] = []uuid.UUID{training}
	store.userGroups[viewer] = []uuid.UUID{group}
	store.groupEvents[group] = []uuid.UUID{match}
	store.rsvps[training] = map[string]string{viewer.String(): models.RSVPYes}
	store.rsvps[match] = map[string]string{
		uuid.New().String(): models.RSVPYes,
		uuid.New().String(): models.RSVPYes,
		uuid.New().String(): models.RSVPYes,
	}

	p := NewPipeline(store, nil)
	_, err := p.Refresh(context.Background(), viewer)
	require.NoError(t, err)

	res := p.Apply(Filter{Tags: []string{"Training"}})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Training", res.Events[0].Title)

	res = p.Apply(Filter{MinYesRSVP: 2})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Match", res.Events[0].Title)

	res = p.Apply(Filter{})
	require.Len(t, res.Events, 2)
	assert.Equal(t, "Training", res.Events[0].Title)
	assert.Equal(t, "Match", res.Events[1].Title)
	assert.False(t, res.NoMatches)
}

func TestPipelineRefreshErrorLeavesCacheIntact(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	ev := store.addEvent(&models.Event{Name: "Kept"})
	store.userEvents[viewer] = []uuid.UUID{ev}

	p := NewPipeline(store, nil)
	_, err := p.Refresh(context.Background(), viewer)
	require.NoError(t, err)

	// A refresh for a missing user resolves to an empty list, not an error,
	// and replaces the cache.
	_, err = p.Refresh(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, p.Apply(Filter{}).Events)
}
