package groups

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/pkg/response"
)

// ContextGroupRole is the context key for the caller's role in the route's group.
const ContextGroupRole = "group_role"

// RequireMembership validates that the caller belongs to the group in the :id
// param. Call after JWT. Sets ContextGroupRole for downstream handlers.
func RequireMembership(repo *Repository) gin.HandlerFunc {
	return requireRole(repo, false)
}

// RequireManager validates that the caller is the group's owner or a leader.
func RequireManager(repo *Repository) gin.HandlerFunc {
	return requireRole(repo, true)
}

func requireRole(repo *Repository, managerOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid group id")
			c.Abort()
			return
		}
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		role, err := repo.MemberRole(c.Request.Context(), groupID, userID)
		if err != nil {
			response.Internal(c, "failed to check membership")
			c.Abort()
			return
		}
		if role == "" {
			response.Forbidden(c, "not a member of this group")
			c.Abort()
			return
		}
		if managerOnly && !models.CanManage(role) {
			response.Forbidden(c, "requires owner or leader role")
			c.Abort()
			return
		}
		c.Set(ContextGroupRole, role)
		c.Next()
	}
}
