package messages

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
	"github.com/teamsync/backend/internal/realtime"
	"github.com/teamsync/backend/pkg/response"
	"github.com/teamsync/backend/pkg/storage"
)

const defaultPageSize = 50

// CreateRequest is the body for POST /groups/:id/messages.
type CreateRequest struct {
	Body string `json:"body" binding:"required"`
}

// Handler handles group chat HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a messages handler. s3 may be nil when attachment
// storage is not configured.
func NewHandler(repo *Repository, hub *realtime.Hub, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, hub: hub, s3: s3, logger: logger}
}

// Create handles POST /groups/:id/messages (member posts a chat message).
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

	m := &models.Message{
		GroupID:  groupID,
		SenderID: userID,
		Body:     req.Body,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		h.logger.Error("create message", zap.Error(err))
		response.Internal(c, "failed to create message")
		return
	}

	// Publish via Redis only so all connected clients get it exactly once.
	h.hub.PublishToChannelOnly(groupID, "message", m)
	response.Created(c, m)
}

// List handles GET /groups/:id/messages?before=<RFC3339>&limit=<n>.
// Returns newest messages first; page backwards with the oldest created_at.
func (h *Handler) List(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid before parameter")
			return
		}
	}
	limit := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	list, err := h.repo.ListForGroup(c.Request.Context(), groupID, before, limit)
	if err != nil {
		h.logger.Error("list messages", zap.Error(err))
		response.Internal(c, "failed to list messages")
		return
	}
	response.OK(c, gin.H{"messages": list})
}

// UploadAttachment handles POST /groups/:id/messages/:messageID/attachment.
// Only the sender may attach a file, and only once.
func (h *Handler) UploadAttachment(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	messageID, err := uuid.Parse(c.Param("messageID"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	if h.s3 == nil {
		response.ServiceUnavailable(c, "attachment storage not configured")
		return
	}

	m, err := h.repo.GetByID(c.Request.Context(), messageID)
	if err != nil {
		response.NotFound(c, "message not found")
		return
	}
	if m.GroupID != groupID {
		response.NotFound(c, "message not found")
		return
	}
	if m.SenderID != userID {
		response.Forbidden(c, "only the sender can attach files")
		return
	}
	if m.AttachmentURL != "" {
		response.Conflict(c, "message already has an attachment")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxAttachmentFileSize {
		response.BadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer file.Close()

	// Attachments live in a private bucket; the stored value is the object
	// key, resolved to a presigned URL on download.
	key := storage.AttachmentKey(groupID.String(), messageID.String(), fileHeader.Filename)
	if _, err := h.s3.Upload(c.Request.Context(), h.s3.AttachmentsBucket(), key, storage.ContentTypeForFilename(fileHeader.Filename), file, fileHeader.Size, false); err != nil {
		h.logger.Error("upload attachment", zap.Error(err))
		response.Internal(c, "failed to upload attachment")
		return
	}
	if err := h.repo.SetAttachmentURL(c.Request.Context(), messageID, key); err != nil {
		response.Internal(c, "failed to save attachment")
		return
	}
	m.AttachmentURL = key

	h.hub.PublishToChannelOnly(groupID, "message_attachment", m)
	response.OK(c, m)
}

// DownloadAttachment handles GET /groups/:id/messages/:messageID/attachment.
// Returns a time-limited presigned URL for the stored object.
func (h *Handler) DownloadAttachment(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	messageID, err := uuid.Parse(c.Param("messageID"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "attachment storage not configured")
		return
	}

	m, err := h.repo.GetByID(c.Request.Context(), messageID)
	if err != nil || m.GroupID != groupID {
		response.NotFound(c, "message not found")
		return
	}
	if m.AttachmentURL == "" {
		response.NotFound(c, "message has no attachment")
		return
	}

	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.AttachmentsBucket(), m.AttachmentURL, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign attachment", zap.Error(err))
		response.Internal(c, "failed to generate download url")
		return
	}
	response.OK(c, gin.H{"url": url})
}
