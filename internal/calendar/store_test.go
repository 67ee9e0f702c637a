package calendar

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/internal/models"
)

// fakeStore is a map-backed Store for pipeline tests. Users and groups are
// present only when their maps carry a key; missing keys yield ErrNotFound.
type fakeStore struct {
	mu sync.Mutex

	userEvents  map[uuid.UUID][]uuid.UUID
	userGroups  map[uuid.UUID][]uuid.UUID
	groupEvents map[uuid.UUID][]uuid.UUID
	groupErrs   map[uuid.UUID]error
	events      map[uuid.UUID]*models.Event
	eventErrs   map[uuid.UUID]error
	rsvps       map[uuid.UUID]map[string]string
	rsvpErrs    map[uuid.UUID]error
	exercises   map[uuid.UUID][]models.Exercise

	// userGates block UserEventIDs until closed, for concurrency tests.
	// userEntered receives once when the corresponding gate is reached.
	userGates   map[uuid.UUID]chan struct{}
	userEntered map[uuid.UUID]chan struct{}

	ensured []string // "eventID/userID" per EnsureRSVP call
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		userEvents:  map[uuid.UUID][]uuid.UUID{},
		userGroups:  map[uuid.UUID][]uuid.UUID{},
		groupEvents: map[uuid.UUID][]uuid.UUID{},
		groupErrs:   map[uuid.UUID]error{},
		events:      map[uuid.UUID]*models.Event{},
		eventErrs:   map[uuid.UUID]error{},
		rsvps:       map[uuid.UUID]map[string]string{},
		rsvpErrs:    map[uuid.UUID]error{},
		exercises:   map[uuid.UUID][]models.Exercise{},
		userGates:   map[uuid.UUID]chan struct{}{},
		userEntered: map[uuid.UUID]chan struct{}{},
	}
}

// addEvent registers an event and returns its ID.
func (f *fakeStore) addEvent(e *models.Event) uuid.UUID {
	if e.ID == (uuid.UUID{}) {
		e.ID = uuid.New()
	}
	f.events[e.ID] = e
	return e.ID
}

func (f *fakeStore) UserEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	gate := f.userGates[userID]
	entered := f.userEntered[userID]
	f.mu.Unlock()
	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.userEvents[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return ids, nil
}

func (f *fakeStore) UserGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userGroups[userID], nil
}

func (f *fakeStore) GroupEventIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.groupErrs[groupID]; ok {
		return nil, err
	}
	ids, ok := f.groupEvents[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	return ids, nil
}

func (f *fakeStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.eventErrs[eventID]; ok {
		return nil, err
	}
	e, ok := f.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) EventRSVPs(ctx context.Context, eventID uuid.UUID) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.rsvpErrs[eventID]; ok {
		return nil, err
	}
	return f.rsvps[eventID], nil
}

func (f *fakeStore) FirstWorkout(ctx context.Context, eventID uuid.UUID) (*models.Workout, []models.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.exercises[eventID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return &models.Workout{ID: uuid.New()}, ex, nil
}

func (f *fakeStore) EnsureRSVP(ctx context.Context, eventID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, eventID.String()+"/"+userID.String())
	if f.rsvps[eventID] == nil {
		f.rsvps[eventID] = map[string]string{}
	}
	if _, ok := f.rsvps[eventID][userID.String()]; !ok {
		f.rsvps[eventID][userID.String()] = models.RSVPMaybe
	}
	return nil
}

func TestEnsureRSVPDoesNotClobber(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	viewer := uuid.New()
	eventID := store.addEvent(&models.Event{Name: "Track night", OwnerID: viewer})

	// First view seeds the default.
	require.NoError(t, store.EnsureRSVP(ctx, eventID, viewer))
	rsvps, err := store.EventRSVPs(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPMaybe, rsvps[viewer.String()])

	// A manual answer survives subsequent views.
	store.mu.Lock()
	store.rsvps[eventID][viewer.String()] = models.RSVPYes
	store.mu.Unlock()
	require.NoError(t, store.EnsureRSVP(ctx, eventID, viewer))
	rsvps, err = store.EventRSVPs(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPYes, rsvps[viewer.String()])

	assert.Len(t, store.ensured, 2)
}
