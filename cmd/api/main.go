package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/blob"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/database"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/dispatch"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/queue"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/router"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/service"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting API service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")
	if err := database.Migrate(db.DB); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	blobClient, err := blob.NewClient(cfg.MinIO)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	blobService := blob.NewService(blobClient)
	logger.Info("Object storage initialized successfully")

	queueConn, err := queue.NewConnection(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queueConn.Close()

	logger.Info("RabbitMQ connected successfully")

	publisher := queue.NewPublisher(queueConn)
	videoStore := store.New(db)
	videoService := service.NewVideoService(videoStore, blobService, cfg.Upload.URLTTL)
	dispatcher := dispatch.New(videoStore, publisher, cfg.MinIO.RawBucket, cfg.MinIO.ProcessedBucket, logger)

	r := router.New(videoService, dispatcher, cfg.Auth, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
