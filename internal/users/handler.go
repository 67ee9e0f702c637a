package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/auth"
	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/pkg/response"
	"github.com/teamsync/backend/pkg/storage"
)

// UpdateProfileRequest is the body for PATCH /users/me.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// AddFriendRequest is the body for POST /friends.
type AddFriendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Handler handles user profile and friend endpoints.
type Handler struct {
	repo     *Repository
	authRepo *auth.Repository
	s3       *storage.S3
	logger   *zap.Logger
}

// NewHandler creates a users handler. s3 may be nil when avatar upload is disabled.
func NewHandler(repo *Repository, authRepo *auth.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, authRepo: authRepo, s3: s3, logger: logger}
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	u, err := h.authRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, u.ToPublic())
}

// GetByID handles GET /users/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	u, err := h.authRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, u.ToPublic())
}

// UpdateMe handles PATCH /users/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.UpdateProfile(c.Request.Context(), userID, req.DisplayName); err != nil {
		response.Internal(c, "failed to update profile")
		return
	}
	u, err := h.authRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load profile")
		return
	}
	response.OK(c, u.ToPublic())
}

// UploadAvatar handles POST /users/me/avatar (multipart form, field "file").
func (h *Handler) UploadAvatar(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "avatar upload is not configured")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxAvatarFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateImageFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fileHeader.Filename)
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer f.Close()

	key := storage.AvatarKey(userID.String(), fileHeader.Filename)
	url, err := h.s3.Upload(c.Request.Context(), h.s3.AvatarsBucket(), key, contentType, f, fileHeader.Size, true)
	if err != nil {
		h.logger.Error("avatar upload", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to upload avatar")
		return
	}
	if err := h.repo.SetAvatarURL(c.Request.Context(), userID, url); err != nil {
		response.Internal(c, "failed to save avatar")
		return
	}
	response.OK(c, gin.H{"avatar_url": url})
}

// ListFriends handles GET /friends.
func (h *Handler) ListFriends(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListFriends(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list friends")
		return
	}
	response.OK(c, list)
}

// AddFriend handles POST /friends (by email).
func (h *Handler) AddFriend(c *gin.Context) {
	var req AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	friend, err := h.authRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.NotFound(c, "no user with that email")
		return
	}
	if friend.ID == userID {
		response.BadRequest(c, "cannot befriend yourself")
		return
	}
	if err := h.repo.AddFriend(c.Request.Context(), userID, friend.ID); err != nil {
		response.Internal(c, "failed to add friend")
		return
	}
	response.Created(c, friend.ToPublic())
}

// RemoveFriend handles DELETE /friends/:id.
func (h *Handler) RemoveFriend(c *gin.Context) {
	friendID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		response.Internal(c, "failed to remove friend")
		return
	}
	response.NoContent(c)
}
