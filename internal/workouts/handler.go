package workouts

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamsync/backend/internal/events"
	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/pkg/response"
)

// ExerciseInput is one exercise in a workout create request.
type ExerciseInput struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreateRequest is the body for POST /events/:id/workouts.
type CreateRequest struct {
	Name            string          `json:"name" binding:"required"`
	DurationMinutes int             `json:"duration_minutes"`
	Exercises       []ExerciseInput `json:"exercises"`
}

// LogRequest is the body for POST /workouts/:id/logs.
type LogRequest struct {
	Notes string `json:"notes"`
}

// Handler handles workout HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
}

// NewHandler creates a workout handler.
func NewHandler(repo *Repository, eventRepo *events.Repository) *Handler {
	return &Handler{repo: repo, eventRepo: eventRepo}
}

// Create handles POST /events/:id/workouts.
func (h *Handler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if _, err := h.eventRepo.GetByID(c.Request.Context(), eventID); err != nil {
		response.NotFound(c, "event not found")
		return
	}

	w := &models.Workout{
		EventID:         &eventID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
	}
	exercises := make([]models.Exercise, 0, len(req.Exercises))
	for _, ex := range req.Exercises {
		exercises = append(exercises, models.Exercise{Name: ex.Name, DurationMinutes: ex.DurationMinutes})
	}
	if err := h.repo.Create(c.Request.Context(), w, exercises); err != nil {
		response.Internal(c, "failed to create workout")
		return
	}
	response.Created(c, w)
}

// ListForEvent handles GET /events/:id/workouts.
func (h *Handler) ListForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list workouts")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /workouts/:id (workout with exercises).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid workout id")
		return
	}
	w, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "workout not found")
		return
	}
	exercises, err := h.repo.ListExercises(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list exercises")
		return
	}
	response.OK(c, gin.H{"workout": w, "exercises": exercises})
}

// Log handles POST /workouts/:id/logs.
func (h *Handler) Log(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid workout id")
		return
	}
	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "workout not found")
		return
	}
	if err := h.repo.LogCompletion(c.Request.Context(), id, userID, req.Notes); err != nil {
		response.Internal(c, "failed to log workout")
		return
	}
	response.OK(c, gin.H{"workout_id": id, "user_id": userID})
}

// ListLogs handles GET /workouts/:id/logs.
func (h *Handler) ListLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid workout id")
		return
	}
	list, err := h.repo.ListLogs(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list logs")
		return
	}
	response.OK(c, list)
}
