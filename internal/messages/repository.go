package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles chat message persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a messages repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new message.
func (r *Repository) Create(ctx context.Context, m *models.Message) error {
	const query = `INSERT INTO messages (id, group_id, sender_id, body, attachment_url)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, m.GroupID, m.SenderID, m.Body, m.AttachmentURL).
		Scan(&m.ID, &m.CreatedAt)
}

// GetByID returns a message by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	const query = `SELECT id, group_id, sender_id, body, COALESCE(attachment_url, ''), created_at
		FROM messages WHERE id = $1`
	var m models.Message
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&m.ID, &m.GroupID, &m.SenderID, &m.Body, &m.AttachmentURL, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForGroup returns the newest messages in a group before the given cursor,
// newest first. A zero cursor means "from now".
func (r *Repository) ListForGroup(ctx context.Context, groupID uuid.UUID, before time.Time, limit int) ([]models.Message, error) {
	if before.IsZero() {
		before = time.Now()
	}
	const query = `SELECT id, group_id, sender_id, body, COALESCE(attachment_url, ''), created_at
		FROM messages
		WHERE group_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.pool.Query(ctx, query, groupID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.GroupID, &m.SenderID, &m.Body, &m.AttachmentURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SetAttachmentURL records the uploaded attachment location on a message.
func (r *Repository) SetAttachmentURL(ctx context.Context, id uuid.UUID, url string) error {
	const query = `UPDATE messages SET attachment_url = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, url)
	return err
}
