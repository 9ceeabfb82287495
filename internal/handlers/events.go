package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/dispatch"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageEventHandler receives object-store bucket notifications and
// feeds finalized uploads into the dispatcher.
type StorageEventHandler struct {
	dispatcher   *dispatch.Dispatcher
	sharedSecret string
	logger       *zap.Logger
}

// NewStorageEventHandler creates a new storage event handler.
func NewStorageEventHandler(dispatcher *dispatch.Dispatcher, sharedSecret string, logger *zap.Logger) *StorageEventHandler {
	return &StorageEventHandler{
		dispatcher:   dispatcher,
		sharedSecret: sharedSecret,
		logger:       logger,
	}
}

// storageEvent is the MinIO webhook notification payload, reduced to
// the fields the dispatcher needs.
type storageEvent struct {
	EventName string `json:"EventName"`
	Records   []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// HandleEvent handles POST /internal/events/storage. The notification
// source does not retry, so record-level problems are logged and
// dropped rather than surfaced as errors.
func (h *StorageEventHandler) HandleEvent(c *gin.Context) {
	if h.sharedSecret != "" {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token != h.sharedSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}
	}

	var event storageEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, record := range event.Records {
		// Object keys arrive URL-encoded in bucket notifications.
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			key = record.S3.Object.Key
		}

		if err := h.dispatcher.OnUploadFinalized(c.Request.Context(), record.S3.Bucket.Name, key); err != nil {
			h.logger.Error("Failed to handle finalized upload",
				zap.String("bucket", record.S3.Bucket.Name),
				zap.String("key", key),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
