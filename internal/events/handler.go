package events

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/groups"
	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/pkg/queue"
	"github.com/teamsync/backend/pkg/response"
)

// Broadcaster pushes realtime updates to a channel (group or event scope).
// Satisfied by *realtime.Hub.
type Broadcaster interface {
	BroadcastToChannelAndPublish(channelID uuid.UUID, event string, payload interface{})
}

// Notifier enqueues notification fan-out jobs. Satisfied by *queue.Queue.
type Notifier interface {
	EnqueueNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	StartsAt    *string  `json:"starts_at"` // RFC3339; omit for undated events
	EndsAt      *string  `json:"ends_at"`
	AllDay      bool     `json:"all_day"`
	Private     bool     `json:"private"`
	GroupID     *string  `json:"group_id"` // set for group-owned events
	Tags        []string `json:"tags"`
}

// UpdateRequest is the body for PATCH /events/:id.
type UpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartsAt    *string   `json:"starts_at"`
	EndsAt      *string   `json:"ends_at"`
	AllDay      *bool     `json:"all_day"`
	Private     *bool     `json:"private"`
	Tags        *[]string `json:"tags"`
}

// RSVPRequest is the body for PUT /events/:id/rsvp.
type RSVPRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo      *Repository
	groupRepo *groups.Repository
	hub       Broadcaster
	notifier  Notifier
	logger    *zap.Logger
}

// NewHandler creates an event handler. hub and notifier may be nil in tests.
func NewHandler(repo *Repository, groupRepo *groups.Repository, hub Broadcaster, notifier Notifier, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, groupRepo: groupRepo, hub: hub, notifier: notifier, logger: logger}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Create handles POST /events. Group-owned events require owner/leader role.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var startsAt, endsAt *time.Time
	if req.StartsAt != nil {
		t, err := parseTime(*req.StartsAt)
		if err != nil {
			response.BadRequest(c, "invalid starts_at")
			return
		}
		startsAt = &t
	}
	if req.EndsAt != nil {
		t, err := parseTime(*req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		endsAt = &t
	}
	// end-before-start is rejected at creation only; updates are not re-validated.
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		response.BadRequest(c, "ends_at must not be before starts_at")
		return
	}

	ownerType := models.OwnerUser
	ownerID := userID
	if req.GroupID != nil {
		groupID, err := uuid.Parse(*req.GroupID)
		if err != nil {
			response.BadRequest(c, "invalid group_id")
			return
		}
		role, err := h.groupRepo.MemberRole(c.Request.Context(), groupID, userID)
		if err != nil {
			response.Internal(c, "failed to check membership")
			return
		}
		if !models.CanManage(role) {
			response.Forbidden(c, "group events require owner or leader role")
			return
		}
		ownerType = models.OwnerGroup
		ownerID = groupID
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	e := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		AllDay:      req.AllDay,
		Private:     req.Private,
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Tags:        tags,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}

	if ownerType == models.OwnerGroup {
		h.notifyGroup(c, e)
	}
	response.Created(c, e)
}

func (h *Handler) notifyGroup(c *gin.Context, e *models.Event) {
	if h.notifier == nil {
		return
	}
	memberIDs, err := h.groupRepo.MemberIDs(c.Request.Context(), e.OwnerID)
	if err != nil {
		h.logger.Warn("list group members for notification", zap.Error(err))
		return
	}
	err = h.notifier.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
		Kind:         "event_created",
		GroupID:      e.OwnerID,
		SubjectID:    e.ID,
		Title:        e.Name,
		Body:         e.Description,
		RecipientIDs: memberIDs,
	})
	if err != nil {
		h.logger.Warn("enqueue event notification", zap.Error(err))
	}
}

// canView reports whether the user may see the event.
// Private user events are owner-only; group events require membership when private.
func (h *Handler) canView(c *gin.Context, e *models.Event, userID uuid.UUID) bool {
	if !e.Private {
		return true
	}
	if e.OwnerType == models.OwnerUser {
		return e.OwnerID == userID
	}
	role, err := h.groupRepo.MemberRole(c.Request.Context(), e.OwnerID, userID)
	return err == nil && role != ""
}

// canEdit reports whether the user may modify the event.
func (h *Handler) canEdit(c *gin.Context, e *models.Event, userID uuid.UUID) bool {
	if e.OwnerType == models.OwnerUser {
		return e.OwnerID == userID
	}
	role, err := h.groupRepo.MemberRole(c.Request.Context(), e.OwnerID, userID)
	return err == nil && models.CanManage(role)
}

// GetByID handles GET /events/:id. Viewing writes the viewer's default "maybe"
// RSVP if they have none yet; an existing status is never overwritten.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !h.canView(c, e, userID) {
		response.Forbidden(c, "event is private")
		return
	}

	if err := h.repo.EnsureRSVP(c.Request.Context(), id, userID); err != nil {
		h.logger.Warn("ensure rsvp", zap.Error(err), zap.String("event_id", id.String()))
	}
	rsvps, err := h.repo.RSVPMap(c.Request.Context(), id)
	if err != nil {
		rsvps = map[string]string{}
	}
	viewerStatus := models.RSVPNone
	if s, ok := rsvps[userID.String()]; ok {
		viewerStatus = s
	}
	response.OK(c, gin.H{"event": e, "rsvps": rsvps, "viewer_rsvp": viewerStatus})
}

// ListForGroup handles GET /groups/:id/events (membership enforced by route middleware).
func (h *Handler) ListForGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	list, err := h.repo.ListForOwner(c.Request.Context(), models.OwnerGroup, groupID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /events (the caller's personal events in stored order).
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListForOwner(c.Request.Context(), models.OwnerUser, userID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /events/:id (owner or group owner/leader).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !h.canEdit(c, e, userID) {
		response.Forbidden(c, "insufficient permissions")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartsAt != nil {
		t, err := parseTime(*req.StartsAt)
		if err != nil {
			response.BadRequest(c, "invalid starts_at")
			return
		}
		e.StartsAt = &t
	}
	if req.EndsAt != nil {
		t, err := parseTime(*req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		e.EndsAt = &t
	}
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if req.Private != nil {
		e.Private = *req.Private
	}
	if req.Tags != nil {
		e.Tags = *req.Tags
	}
	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), id)
	response.OK(c, updated)
}

// Delete handles DELETE /events/:id (owner or group owner/leader).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !h.canEdit(c, e, userID) {
		response.Forbidden(c, "insufficient permissions")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// SetRSVP handles PUT /events/:id/rsvp.
func (h *Handler) SetRSVP(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	switch req.Status {
	case models.RSVPYes, models.RSVPMaybe, models.RSVPNo:
	default:
		response.BadRequest(c, "status must be yes, maybe or no")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !h.canView(c, e, userID) {
		response.Forbidden(c, "event is private")
		return
	}
	if err := h.repo.SetRSVP(c.Request.Context(), id, userID, req.Status); err != nil {
		response.Internal(c, "failed to set rsvp")
		return
	}

	if h.hub != nil {
		channelID := e.OwnerID // group channel for group events, owner channel otherwise
		h.hub.BroadcastToChannelAndPublish(channelID, "rsvp_update", map[string]string{
			"event_id": id.String(),
			"user_id":  userID.String(),
			"status":   req.Status,
		})
	}
	response.OK(c, gin.H{"event_id": id, "user_id": userID, "status": req.Status})
}

// ListRSVPs handles GET /events/:id/rsvps.
func (h *Handler) ListRSVPs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !h.canView(c, e, userID) {
		response.Forbidden(c, "event is private")
		return
	}
	list, err := h.repo.ListRSVPs(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list rsvps")
		return
	}
	response.OK(c, list)
}
