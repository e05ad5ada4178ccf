package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/proteinpal/config"
	"github.com/pageza/proteinpal/internal/api"
	"github.com/pageza/proteinpal/internal/capture"
	"github.com/pageza/proteinpal/internal/database"
	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/server"
	"github.com/pageza/proteinpal/internal/session"
	"github.com/pageza/proteinpal/internal/tracker"
)

const (
	purgeInterval   = time.Hour
	presignedExpiry = 24 * time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	var detection *middleware.RateLimiter
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis, photo analysis will not be rate limited: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			detection = middleware.NewDetectionRateLimiter(redisClient, cfg.DetectLimit, cfg.DetectWindow)
		}
	}

	var blobs capture.BlobStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("Warning: Failed to configure S3, captured photos will not be kept: %v", err)
		} else {
			blobs = capture.NewS3Uploader(s3Config, presignedExpiry)
		}
	}

	client := tracker.New(cfg.TrackerBaseURL, tracker.WithRateLimit(cfg.TrackerRPS, cfg.TrackerBurst))
	sessions := session.NewManager(session.NewGormStore(db), client, cfg.SessionTTL)
	go purgeSessions(ctx, sessions)

	srv := server.New(cfg, api.Dependencies{
		DB:             db,
		Redis:          redisClient,
		Sessions:       sessions,
		Tracker:        client,
		Blobs:          blobs,
		MaxUploadBytes: capture.DefaultMaxBytes,
		Detection:      detection,
		SecureCookies:  config.IsProduction(),
	})

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Received shutdown signal")
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func purgeSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		if _, err := sessions.Purge(ctx); err != nil {
			log.Printf("Warning: session purge failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
