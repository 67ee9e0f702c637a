package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles per-user notification records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notifications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts one notification row.
func (r *Repository) Create(ctx context.Context, n *models.Notification) error {
	const query = `INSERT INTO notifications (id, user_id, kind, payload)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	payload := n.Payload
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}
	return r.pool.QueryRow(ctx, query, n.UserID, n.Kind, payload).
		Scan(&n.ID, &n.CreatedAt)
}

// CreateBatch inserts one notification row per recipient in a single transaction.
func (r *Repository) CreateBatch(ctx context.Context, recipientIDs []uuid.UUID, kind string, payload json.RawMessage) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `INSERT INTO notifications (id, user_id, kind, payload)
		VALUES (gen_random_uuid(), $1, $2, $3)`
	for _, id := range recipientIDs {
		if _, err := tx.Exec(ctx, query, id, kind, payload); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListForUser returns a user's notifications, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	const query = `SELECT id, user_id, kind, payload, sent_at, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Payload, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkSent records email delivery time for a notification.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE notifications SET sent_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

// MarkRead deletes a notification once the user has seen it.
func (r *Repository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	const query = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, id, userID)
	return err
}
