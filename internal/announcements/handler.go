package announcements

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/groups"
	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/internal/realtime"
	"github.com/teamsync/backend/pkg/queue"
	"github.com/teamsync/backend/pkg/response"
)

// CreateRequest is the body for POST /groups/:id/announcements.
type CreateRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// Handler handles announcement HTTP endpoints. Creation is restricted to
// owners and leaders by route middleware; this handler persists, broadcasts
// to the group channel, and enqueues a notification fan-out job.
type Handler struct {
	repo    *Repository
	members *groups.Repository
	hub     *realtime.Hub
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewHandler creates an announcements handler.
func NewHandler(repo *Repository, members *groups.Repository, hub *realtime.Hub, q *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, members: members, hub: hub, queue: q, logger: logger}
}

// Create handles POST /groups/:id/announcements.
func (h *Handler) Create(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	a := &models.Announcement{
		GroupID:  groupID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create announcement", zap.Error(err))
		response.Internal(c, "failed to create announcement")
		return
	}

	h.hub.BroadcastToChannelAndPublish(groupID, "announcement", a)

	recipients, err := h.members.MemberIDs(c.Request.Context(), groupID)
	if err != nil {
		h.logger.Error("list members for fan-out", zap.Error(err), zap.String("group_id", groupID.String()))
	} else {
		// The author already knows; everyone else gets a notification.
		filtered := recipients[:0]
		for _, id := range recipients {
			if id != userID {
				filtered = append(filtered, id)
			}
		}
		if len(filtered) > 0 {
			err := h.queue.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
				Kind:         "announcement",
				GroupID:      groupID,
				SubjectID:    a.ID,
				Title:        a.Title,
				Body:         a.Body,
				RecipientIDs: filtered,
			})
			if err != nil {
				h.logger.Error("enqueue announcement notification", zap.Error(err))
			}
		}
	}

	response.Created(c, a)
}

// List handles GET /groups/:id/announcements.
func (h *Handler) List(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	list, err := h.repo.ListForGroup(c.Request.Context(), groupID)
	if err != nil {
		h.logger.Error("list announcements", zap.Error(err))
		response.Internal(c, "failed to list announcements")
		return
	}
	response.OK(c, gin.H{"announcements": list})
}
