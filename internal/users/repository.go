package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles profile and friend persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpdateProfile updates the user's display name.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string) error {
	const q = `UPDATE users SET display_name = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, displayName, id)
	return err
}

// SetAvatarURL stores the user's avatar URL after an S3 upload.
func (r *Repository) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	const q = `UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, url, id)
	return err
}

// AddFriend stores the friendship in both directions; adding twice is a no-op.
func (r *Repository) AddFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	const q = `INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, userID, friendID)
	return err
}

// RemoveFriend deletes the friendship in both directions.
func (r *Repository) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	const q = `DELETE FROM friends
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)`
	_, err := r.pool.Exec(ctx, q, userID, friendID)
	return err
}

// ListFriends returns the user's friends as public profiles.
func (r *Repository) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.UserPublic, error) {
	const q = `SELECT u.id, u.email, u.display_name, COALESCE(u.avatar_url,''), u.created_at
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.display_name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
