package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teamsync/backend/internal/auth"
	"github.com/teamsync/backend/internal/events"
	"github.com/teamsync/backend/internal/groups"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/internal/workouts"
)

// PGStore implements Store over the PostgreSQL repositories.
type PGStore struct {
	users    *auth.Repository
	groups   *groups.Repository
	events   *events.Repository
	workouts *workouts.Repository
}

// NewPGStore creates the production store.
func NewPGStore(users *auth.Repository, groupRepo *groups.Repository, eventRepo *events.Repository, workoutRepo *workouts.Repository) *PGStore {
	return &PGStore{users: users, groups: groupRepo, events: eventRepo, workouts: workoutRepo}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UserEventIDs returns the user's personal event IDs; ErrNotFound for a
// missing user.
func (s *PGStore) UserEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.events.ListIDsForOwner(ctx, models.OwnerUser, userID)
}

// UserGroupIDs returns the user's group IDs in join order.
func (s *PGStore) UserGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	list, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, g := range list {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// GroupEventIDs returns a group's event IDs; ErrNotFound for a missing group.
func (s *PGStore) GroupEventIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.events.ListIDsForOwner(ctx, models.OwnerGroup, groupID)
}

// GetEvent returns the full event record.
func (s *PGStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

// EventRSVPs returns the event's RSVP map.
func (s *PGStore) EventRSVPs(ctx context.Context, eventID uuid.UUID) (map[string]string, error) {
	return s.events.RSVPMap(ctx, eventID)
}

// FirstWorkout returns the event's first linked workout and exercises.
func (s *PGStore) FirstWorkout(ctx context.Context, eventID uuid.UUID) (*models.Workout, []models.Exercise, error) {
	w, exercises, err := s.workouts.FirstForEvent(ctx, eventID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	return w, exercises, nil
}

// EnsureRSVP writes the default "maybe" only when no row exists.
func (s *PGStore) EnsureRSVP(ctx context.Context, eventID, userID uuid.UUID) error {
	return s.events.EnsureRSVP(ctx, eventID, userID)
}
