package announcements

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles announcement persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an announcements repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new announcement.
func (r *Repository) Create(ctx context.Context, a *models.Announcement) error {
	const query = `INSERT INTO announcements (id, group_id, author_id, title, body)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, a.GroupID, a.AuthorID, a.Title, a.Body).
		Scan(&a.ID, &a.CreatedAt)
}

// ListForGroup returns a group's announcements, newest first.
func (r *Repository) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]models.Announcement, error) {
	const query = `SELECT id, group_id, author_id, title, body, created_at
		FROM announcements WHERE group_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.GroupID, &a.AuthorID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete removes an announcement.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM announcements WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
