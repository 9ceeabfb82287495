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
	"github.com/Sandeep45-cyber/Youtube-clone/internal/queue"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/transcoder"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/worker"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting transcode worker...")

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

	videoStore := store.New(db)
	engine := transcoder.NewFFmpeg(cfg.Transcode)
	w := worker.New(videoStore, blobService, engine, cfg.Transcode, cfg.MinIO.ProcessedBucket, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := worker.NewConsumer(queueConn, w, logger)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Fatal("Consumer failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      worker.NewRouter(w, cfg.Auth.WorkerSharedSecret, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // pushed jobs run a full transcode inline
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

	logger.Info("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Worker exited")
}
