package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/pkg/response"
)

// Handler serves the aggregated calendar view.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a calendar handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Get handles GET /calendar.
// Query: tags (comma-separated), from/to (RFC3339), min_yes (int).
// Each request is its own render cycle: a fresh pipeline resolves,
// materializes and filters, and its records are discarded afterwards.
func (h *Handler) Get(c *gin.Context) {
	viewerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p := NewPipeline(h.store, h.logger)
	if _, err := p.Refresh(c.Request.Context(), viewerID); err != nil {
		h.logger.Error("calendar refresh", zap.Error(err), zap.String("viewer_id", viewerID.String()))
		response.Internal(c, "failed to load calendar")
		return
	}
	response.OK(c, p.Apply(filter))
}

// parseFilter builds a Filter from query params. Invalid min_yes coerces to
// zero rather than rejecting; invalid dates are rejected.
func parseFilter(c *gin.Context) (Filter, error) {
	var f Filter

	if raw := c.Query("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filter{}, errInvalidParam("from")
		}
		ms := t.UnixMilli()
		f.Start = &ms
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filter{}, errInvalidParam("to")
		}
		ms := t.UnixMilli()
		f.End = &ms
	}
	if raw := c.Query("min_yes"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.MinYesRSVP = n
		}
	}
	return f, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string { return "invalid " + string(e) + " parameter" }
