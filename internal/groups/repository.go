package groups

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsync/backend/internal/models"
)

// Repository handles group persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a group repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a group and its owner membership in one transaction.
func (r *Repository) Create(ctx context.Context, g *models.Group, ownerDisplayName string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const qGroup = `INSERT INTO groups (name, description, owner_id, join_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, qGroup, g.Name, g.Description, g.OwnerID, g.JoinCode).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return err
	}

	const qMember = `INSERT INTO group_members (group_id, user_id, display_name, role)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, qMember, g.ID, g.OwnerID, ownerDisplayName, models.GroupRoleOwner); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID returns a group by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	const q = `SELECT id, name, description, owner_id, join_code, created_at, updated_at
		FROM groups WHERE id = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.Name, &g.Description, &g.OwnerID, &g.JoinCode, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByJoinCode returns a group by its join code.
func (r *Repository) GetByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	const q = `SELECT id, name, description, owner_id, join_code, created_at, updated_at
		FROM groups WHERE join_code = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, code).Scan(&g.ID, &g.Name, &g.Description, &g.OwnerID, &g.JoinCode, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListForUser returns the groups the user belongs to, in join order.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	const q = `SELECT g.id, g.name, g.description, g.owner_id, g.join_code, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.OwnerID, &g.JoinCode, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// AddMember inserts a membership; joining twice is a no-op.
func (r *Repository) AddMember(ctx context.Context, groupID, userID uuid.UUID, displayName, role string) error {
	const q = `INSERT INTO group_members (group_id, user_id, display_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, groupID, userID, displayName, role)
	return err
}

// ListMembers returns all members of a group.
func (r *Repository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	const q = `SELECT group_id, user_id, display_name, role, joined_at
		FROM group_members WHERE group_id = $1 ORDER BY joined_at`
	rows, err := r.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MemberIDs returns the user IDs of all members of a group.
func (r *Repository) MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM group_members WHERE group_id = $1`, groupID)
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

// MemberRole returns the role of a user in a group, or "" if not a member.
func (r *Repository) MemberRole(ctx context.Context, groupID, userID uuid.UUID) (string, error) {
	const q = `SELECT role FROM group_members WHERE group_id = $1 AND user_id = $2`
	var role string
	err := r.pool.QueryRow(ctx, q, groupID, userID).Scan(&role)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// UpdateMemberRole changes a member's role.
func (r *Repository) UpdateMemberRole(ctx context.Context, groupID, userID uuid.UUID, role string) error {
	const q = `UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3`
	_, err := r.pool.Exec(ctx, q, role, groupID, userID)
	return err
}

// RemoveMember deletes a membership.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	const q = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, q, groupID, userID)
	return err
}
