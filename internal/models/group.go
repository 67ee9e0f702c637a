package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupRole is the role of a member inside a group.
const (
	GroupRoleOwner  = "owner"
	GroupRoleLeader = "leader"
	GroupRoleMember = "member"
)

// Group represents a team or club that owns events and has members.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	JoinCode    string    `json:"join_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupMember links a user to a group with a display name and role.
type GroupMember struct {
	GroupID     uuid.UUID `json:"group_id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CanManage reports whether the role may manage group content (events, announcements, members).
func CanManage(role string) bool {
	return role == GroupRoleOwner || role == GroupRoleLeader
}
