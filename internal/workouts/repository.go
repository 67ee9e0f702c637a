package workouts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles workout persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a workout repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a workout and its exercises in one transaction.
func (r *Repository) Create(ctx context.Context, w *models.Workout, exercises []models.Exercise) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO workouts (event_id, name, duration_minutes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := tx.QueryRow(ctx, q, w.EventID, w.Name, w.DurationMinutes).Scan(&w.ID, &w.CreatedAt); err != nil {
		return err
	}
	const qEx = `INSERT INTO workout_exercises (workout_id, position, name, duration_minutes)
		VALUES ($1, $2, $3, $4)`
	for i, ex := range exercises {
		if _, err := tx.Exec(ctx, qEx, w.ID, i, ex.Name, ex.DurationMinutes); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetByID returns a workout by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	const q = `SELECT id, event_id, name, duration_minutes, created_at FROM workouts WHERE id = $1`
	var w models.Workout
	err := r.pool.QueryRow(ctx, q, id).Scan(&w.ID, &w.EventID, &w.Name, &w.DurationMinutes, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListForEvent returns the event's workouts in creation order.
func (r *Repository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Workout, error) {
	const q = `SELECT id, event_id, name, duration_minutes, created_at
		FROM workouts WHERE event_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.EventID, &w.Name, &w.DurationMinutes, &w.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// ListExercises returns a workout's exercises ordered by position.
func (r *Repository) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error) {
	const q = `SELECT workout_id, position, name, duration_minutes
		FROM workout_exercises WHERE workout_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, q, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.WorkoutID, &ex.Position, &ex.Name, &ex.DurationMinutes); err != nil {
			return nil, err
		}
		list = append(list, ex)
	}
	return list, rows.Err()
}

// LogCompletion records that the user completed the workout (upsert).
func (r *Repository) LogCompletion(ctx context.Context, workoutID, userID uuid.UUID, notes string) error {
	const q = `INSERT INTO workout_logs (workout_id, user_id, notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (workout_id, user_id) DO UPDATE SET completed_at = NOW(), notes = EXCLUDED.notes`
	_, err := r.pool.Exec(ctx, q, workoutID, userID, notes)
	return err
}

// ListLogs returns all completion logs for a workout.
func (r *Repository) ListLogs(ctx context.Context, workoutID uuid.UUID) ([]models.WorkoutLog, error) {
	const q = `SELECT workout_id, user_id, completed_at, notes
		FROM workout_logs WHERE workout_id = $1 ORDER BY completed_at`
	rows, err := r.pool.Query(ctx, q, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.WorkoutID, &l.UserID, &l.CompletedAt, &l.Notes); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// FirstForEvent returns the event's first workout and its exercises, or nil if none.
// Used by the calendar materializer's shallow workout summary.
func (r *Repository) FirstForEvent(ctx context.Context, eventID uuid.UUID) (*models.Workout, []models.Exercise, error) {
	const q = `SELECT id, event_id, name, duration_minutes, created_at
		FROM workouts WHERE event_id = $1 ORDER BY created_at, id LIMIT 1`
	var w models.Workout
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&w.ID, &w.EventID, &w.Name, &w.DurationMinutes, &w.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	exercises, err := r.ListExercises(ctx, w.ID)
	if err != nil {
		return nil, nil, err
	}
	return &w, exercises, nil
}
