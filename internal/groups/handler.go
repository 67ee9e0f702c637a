package groups

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/pkg/response"
)

// CreateRequest is the body for POST /groups.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DisplayName string `json:"display_name"` // member display name inside the group; defaults to profile name
}

// JoinRequest is the body for POST /groups/join.
type JoinRequest struct {
	JoinCode    string `json:"join_code" binding:"required"`
	DisplayName string `json:"display_name"`
}

// UpdateRoleRequest is the body for PATCH /groups/:id/members/:userId.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserLookup resolves user profiles for membership display names.
// Satisfied by *auth.Repository.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Handler handles group HTTP endpoints.
type Handler struct {
	repo  *Repository
	users UserLookup
}

// NewHandler creates a group handler.
func NewHandler(repo *Repository, users UserLookup) *Handler {
	return &Handler{repo: repo, users: users}
}

// Create handles POST /groups. The creator becomes the owner member.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	displayName := req.DisplayName
	if displayName == "" {
		displayName = h.profileName(c, userID)
	}

	g := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		JoinCode:    newJoinCode(),
	}
	if err := h.repo.Create(c.Request.Context(), g, displayName); err != nil {
		response.Internal(c, "failed to create group")
		return
	}
	response.Created(c, g)
}

// List handles GET /groups. Returns the caller's groups in join order.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list groups")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /groups/:id (members only; join code hidden from non-managers).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	role, err := h.repo.MemberRole(c.Request.Context(), id, userID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if role == "" {
		response.Forbidden(c, "not a member of this group")
		return
	}
	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}
	if !models.CanManage(role) {
		g.JoinCode = ""
	}
	response.OK(c, g)
}

// Join handles POST /groups/join (by join code).
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	g, err := h.repo.GetByJoinCode(c.Request.Context(), strings.TrimSpace(req.JoinCode))
	if err != nil {
		response.NotFound(c, "invalid join code")
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = h.profileName(c, userID)
	}
	if err := h.repo.AddMember(c.Request.Context(), g.ID, userID, displayName, models.GroupRoleMember); err != nil {
		response.Internal(c, "failed to join group")
		return
	}
	g.JoinCode = ""
	response.OK(c, g)
}

// ListMembers handles GET /groups/:id/members (members only).
func (h *Handler) ListMembers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, err := h.repo.MemberRole(c.Request.Context(), id, userID)
	if err != nil || role == "" {
		response.Forbidden(c, "not a member of this group")
		return
	}
	members, err := h.repo.ListMembers(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, members)
}

// UpdateMemberRole handles PATCH /groups/:id/members/:userId (owner/leader only).
// The owner role itself cannot be granted or revoked here.
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Role != models.GroupRoleLeader && req.Role != models.GroupRoleMember {
		response.BadRequest(c, "role must be leader or member")
		return
	}

	targetRole, err := h.repo.MemberRole(c.Request.Context(), groupID, targetID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if targetRole == "" {
		response.NotFound(c, "member not found")
		return
	}
	if targetRole == models.GroupRoleOwner {
		response.Forbidden(c, "cannot change the owner's role")
		return
	}
	if err := h.repo.UpdateMemberRole(c.Request.Context(), groupID, targetID, req.Role); err != nil {
		response.Internal(c, "failed to update role")
		return
	}
	response.OK(c, gin.H{"group_id": groupID, "user_id": targetID, "role": req.Role})
}

// RemoveMember handles DELETE /groups/:id/members/:userId.
// Members may remove themselves; owners/leaders may remove anyone but the owner.
func (h *Handler) RemoveMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	callerRole, err := h.repo.MemberRole(c.Request.Context(), groupID, callerID)
	if err != nil || callerRole == "" {
		response.Forbidden(c, "not a member of this group")
		return
	}
	if callerID != targetID && !models.CanManage(callerRole) {
		response.Forbidden(c, "insufficient permissions")
		return
	}
	targetRole, err := h.repo.MemberRole(c.Request.Context(), groupID, targetID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if targetRole == models.GroupRoleOwner {
		response.Forbidden(c, "the owner cannot leave their own group")
		return
	}
	if err := h.repo.RemoveMember(c.Request.Context(), groupID, targetID); err != nil {
		response.Internal(c, "failed to remove member")
		return
	}
	response.NoContent(c)
}

func (h *Handler) profileName(c *gin.Context, userID uuid.UUID) string {
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return "Member"
	}
	return u.DisplayName
}

// newJoinCode returns a short shareable join code.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
