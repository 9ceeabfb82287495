package worker

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/metrics"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the worker's HTTP surface: a push-style job
// endpoint guarded by a shared-secret bearer credential, plus health
// and metrics. The queue's redelivery policy keys off the response
// status: non-2xx responses are redelivered.
func NewRouter(w *Worker, sharedSecret string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/internal/jobs", func(c *gin.Context) {
		if !bearerMatches(c.GetHeader("Authorization"), sharedSecret) {
			// Rejected before the body is read: no side effects.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if err := w.HandleJob(c.Request.Context(), body); err != nil {
			logger.Error("Pushed job failed", zap.Error(err))
			switch {
			case errors.Is(err, ErrBadRequest):
				metrics.JobsProcessed.WithLabelValues("rejected").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, store.ErrNotFound):
				metrics.JobsProcessed.WithLabelValues("rejected").Inc()
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "processed"})
	})

	return r
}

// bearerMatches verifies the Authorization header against the
// configured shared secret. An empty secret disables the check.
func bearerMatches(header, secret string) bool {
	if secret == "" {
		return true
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && token == secret
}
