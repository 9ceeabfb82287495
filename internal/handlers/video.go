package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/auth"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/dispatch"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/service"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VideoHandler handles video-related requests.
type VideoHandler struct {
	service    *service.VideoService
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videoService *service.VideoService, dispatcher *dispatch.Dispatcher, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		service:    videoService,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateVideoRequest represents the request to create an upload intent.
type CreateVideoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description" binding:"omitempty"`
	Filename    string  `json:"filename" binding:"required"`
	// ContentType, when set, is signed into the upload URL and must be
	// sent as the upload's Content-Type header.
	ContentType string `json:"content_type" binding:"omitempty"`
}

// CreateVideo handles POST /api/v1/videos.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	intent, err := h.service.CreateUploadIntent(c.Request.Context(), req.Title, req.Description, req.Filename, req.ContentType, auth.Identity(c))
	if err != nil {
		h.logger.Error("Failed to create upload intent", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	h.respondSuccess(c, gin.H{
		"video_id":   intent.Video.ID.String(),
		"status":     string(intent.Video.Status),
		"upload_url": intent.UploadURL,
		"created_at": intent.Video.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// GetVideo handles GET /api/v1/videos/:video_id.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", "invalid video_id")
		return
	}

	video, err := h.service.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, http.StatusNotFound, "video not found", "")
			return
		}
		h.logger.Error("Failed to get video", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	h.respondSuccess(c, video)
}

// ListVideos handles GET /api/v1/videos.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	videos, total, err := h.service.ListVideos(c.Request.Context(), status, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list videos", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	h.respondSuccess(c, gin.H{
		"videos":    videos,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// RequestProcessing handles POST /api/v1/videos/:video_id/process.
// This is also the manual retry path for failed videos and for records
// stuck in queued after a dispatch failure.
func (h *VideoHandler) RequestProcessing(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", "invalid video_id")
		return
	}

	if err := h.dispatcher.RequestProcessing(c.Request.Context(), videoID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.respondError(c, http.StatusNotFound, "video not found", "")
		case errors.Is(err, dispatch.ErrInvalidState):
			h.respondError(c, http.StatusConflict, "video not processable", err.Error())
		default:
			// Includes dispatch failures after the queued merge; the
			// caller may simply retry.
			h.logger.Error("Failed to request processing", zap.Error(err))
			h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		}
		return
	}

	h.respondSuccess(c, gin.H{"video_id": videoID.String(), "status": "queued"})
}

// GetPlayback handles GET /api/v1/videos/:video_id/play.
func (h *VideoHandler) GetPlayback(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", "invalid video_id")
		return
	}

	url, err := h.service.PlaybackDownloadURL(c.Request.Context(), videoID, time.Hour)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.respondError(c, http.StatusNotFound, "video not found", "")
		case errors.Is(err, service.ErrNotReady):
			h.respondError(c, http.StatusConflict, "video not ready", "")
		default:
			h.logger.Error("Failed to sign playback URL", zap.Error(err))
			h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		}
		return
	}

	h.respondSuccess(c, gin.H{"playback_url": url, "expires_in": int(time.Hour.Seconds())})
}

// DeleteVideo handles DELETE /api/v1/videos/:video_id.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", "invalid video_id")
		return
	}

	if err := h.service.DeleteVideo(c.Request.Context(), videoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, http.StatusNotFound, "video not found", "")
			return
		}
		h.logger.Error("Failed to delete video", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	h.respondSuccess(c, nil)
}

// respondSuccess sends a success response.
func (h *VideoHandler) respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondError sends an error response.
func (h *VideoHandler) respondError(c *gin.Context, statusCode int, message, details string) {
	c.JSON(statusCode, gin.H{
		"code":    statusCode,
		"message": message,
		"data":    details,
	})
}
