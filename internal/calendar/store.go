// Package calendar implements the per-viewer event aggregation pipeline:
// resolve the viewer's personal and group event references, materialize them
// into calendar view records, and filter them by tags, date range and RSVP
// count. The pipeline is read-only and produces records owned by a single
// render cycle; nothing is cached across viewers.
package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/teamsync/backend/internal/models"
)

// ErrNotFound is returned by Store implementations when a referenced record
// does not exist. The pipeline recovers from it by omission.
var ErrNotFound = errors.New("calendar: not found")

// Store is the read surface the pipeline needs. Implemented by PGStore in
// production and by a map-backed fake in tests.
type Store interface {
	// UserEventIDs returns the user's personal event IDs in stored order.
	// ErrNotFound when the user record does not exist.
	UserEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// UserGroupIDs returns the IDs of the user's groups in stored (join) order.
	UserGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// GroupEventIDs returns a group's event IDs in stored order.
	// ErrNotFound when the group record does not exist.
	GroupEventIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	// GetEvent returns the full event record. ErrNotFound when missing.
	GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	// EventRSVPs returns the event's RSVP map keyed by user ID string.
	// An event with no responses yields an empty map, not ErrNotFound.
	EventRSVPs(ctx context.Context, eventID uuid.UUID) (map[string]string, error)
	// FirstWorkout returns the event's first linked workout and its exercises.
	// ErrNotFound when the event has no linked workouts.
	FirstWorkout(ctx context.Context, eventID uuid.UUID) (*models.Workout, []models.Exercise, error)
	// EnsureRSVP writes a default "maybe" RSVP only if the user has none yet.
	// Idempotent; never overwrites an existing status.
	EnsureRSVP(ctx context.Context, eventID, userID uuid.UUID) error
}

// EventSource is one resolved event reference with its provenance.
type EventSource struct {
	EventID    uuid.UUID
	Provenance models.Provenance
}
