package router

import (
	"net/http"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/auth"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/dispatch"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/handlers"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// New creates a new router with all API routes configured.
func New(videoService *service.VideoService, dispatcher *dispatch.Dispatcher, authCfg config.AuthConfig, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(ginLogger(logger))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	videoHandler := handlers.NewVideoHandler(videoService, dispatcher, logger)
	eventHandler := handlers.NewStorageEventHandler(dispatcher, authCfg.WorkerSharedSecret, logger)

	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(authCfg.JWTSecret))
	{
		videos := v1.Group("/videos")
		{
			videos.POST("", videoHandler.CreateVideo)
			videos.GET("", videoHandler.ListVideos)
			videos.GET("/:video_id", videoHandler.GetVideo)
			videos.POST("/:video_id/process", videoHandler.RequestProcessing)
			videos.GET("/:video_id/play", videoHandler.GetPlayback)
			videos.DELETE("/:video_id", videoHandler.DeleteVideo)
		}
	}

	// Storage notifications bypass user auth; they carry the worker
	// shared secret instead.
	r.POST("/internal/events/storage", eventHandler.HandleEvent)

	return r
}

// ginLogger is a custom logger middleware.
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", latency),
		)
	}
}

// corsMiddleware allows browser clients on other origins.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
