package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a training plan optionally linked to an event.
type Workout struct {
	ID              uuid.UUID  `json:"id"`
	EventID         *uuid.UUID `json:"event_id,omitempty"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Exercise is one step of a workout, ordered by Position.
type Exercise struct {
	WorkoutID       uuid.UUID `json:"workout_id"`
	Position        int       `json:"position"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
}

// WorkoutLog records that a user completed a workout.
type WorkoutLog struct {
	WorkoutID   uuid.UUID `json:"workout_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       string    `json:"notes,omitempty"`
}
