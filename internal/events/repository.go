package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles event and RSVP persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, name, description, location, starts_at, ends_at, all_day, private, owner_type, owner_id, tags, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt,
		&e.AllDay, &e.Private, &e.OwnerType, &e.OwnerID, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (name, description, location, starts_at, ends_at, all_day, private, owner_type, owner_id, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Name, e.Description, e.Location, e.StartsAt, e.EndsAt,
		e.AllDay, e.Private, e.OwnerType, e.OwnerID, e.Tags).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// ListIDsForOwner returns event IDs for an owner in stored (creation) order.
func (r *Repository) ListIDsForOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT id FROM events WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListForOwner returns full events for an owner in stored order.
func (r *Repository) ListForOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update updates event fields. Nil time pointers leave the stored instant unchanged.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET name = $1, description = $2, location = $3,
		starts_at = $4, ends_at = $5, all_day = $6, private = $7, tags = $8, updated_at = NOW()
		WHERE id = $9`
	_, err := r.pool.Exec(ctx, q, e.Name, e.Description, e.Location, e.StartsAt, e.EndsAt,
		e.AllDay, e.Private, e.Tags, e.ID)
	return err
}

// Delete removes an event by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// SetRSVP upserts the user's RSVP status for an event.
func (r *Repository) SetRSVP(ctx context.Context, eventID, userID uuid.UUID, status string) error {
	const q = `INSERT INTO event_rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, eventID, userID, status)
	return err
}

// EnsureRSVP writes a default "maybe" only when the user has no RSVP row yet.
// Idempotent: a second call is a no-op and an existing status is never clobbered.
func (r *Repository) EnsureRSVP(ctx context.Context, eventID, userID uuid.UUID) error {
	const q = `INSERT INTO event_rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, eventID, userID, models.RSVPMaybe)
	return err
}

// ListRSVPs returns all RSVP rows for an event.
func (r *Repository) ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]models.EventRSVP, error) {
	const q = `SELECT event_id, user_id, status, updated_at FROM event_rsvps WHERE event_id = $1 ORDER BY updated_at`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.EventRSVP
	for rows.Next() {
		var v models.EventRSVP
		if err := rows.Scan(&v.EventID, &v.UserID, &v.Status, &v.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// RSVPMap returns the event's RSVP map keyed by user ID string.
func (r *Repository) RSVPMap(ctx context.Context, eventID uuid.UUID) (map[string]string, error) {
	list, err := r.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, v := range list {
		m[v.UserID.String()] = v.Status
	}
	return m, nil
}
