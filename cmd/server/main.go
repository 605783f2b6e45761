package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clearcue-backend/internal/config"
	"clearcue-backend/internal/database"
	"clearcue-backend/internal/handlers"
	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/repository"
	"clearcue-backend/internal/router"
	"clearcue-backend/internal/services"
	"clearcue-backend/internal/websocket"
	"clearcue-backend/pkg/logger"
)

func main() {
	// ──── Step 1: Load Configuration ────
	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	log.Info("starting ClearCue backend", zap.String("env", cfg.Env))
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.DefaultTranscriptKey != "" {
		models.DefaultTranscriptKey = cfg.DefaultTranscriptKey
	}

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(context.Background(), cfg.PostgresPool())
	if err != nil {
		log.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	defer pool.Close()
	log.Info("PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClients.Close()
	log.Info("Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(context.Background(), pool, "migrations"); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("database migrations applied")

	// ──── Initialize Repositories ────
	keyCipher, err := repository.NewKeyCipher(cfg.ConfigEncryptionKey)
	if err != nil {
		log.Fatal("key cipher initialization failed", zap.Error(err))
	}
	stores := services.Stores{
		RemoteSessions: repository.NewSessionRepo(pool),
		LocalSessions:  repository.NewLocalSessionRepo(redisClients.Store),
		RemoteConfig:   repository.NewApiConfigRepo(pool, keyCipher),
		LocalConfig:    repository.NewLocalConfigRepo(redisClients.Store),
	}

	// ──── Initialize Services ────
	publisher := services.NewRedisPublisher(redisClients.Store)
	configService := services.NewConfigService(stores)
	sessionService := services.NewSessionService(stores, publisher)
	analyzerService := services.NewAnalyzerService(configService, sessionService, services.NewAnalysisProvider, publisher, cfg.AnalysisLanguage)
	youtubeService := services.NewYouTubeService(cfg.HTTPClientTimeout)
	transcriptService := services.NewTranscriptService(cfg.TranscriptAPIURL, cfg.HTTPClientTimeout, youtubeService)
	videoService := services.NewVideoService(configService, youtubeService, transcriptService)
	fileExtractService := services.NewFileExtractService()
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)

	// ──── Initialize Handlers ────
	analysisHandler := handlers.NewAnalysisHandler(analyzerService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	configHandler := handlers.NewConfigHandler(configService)
	videoHandler := handlers.NewVideoHandler(videoService, fileExtractService)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, cfg.FrontendURL)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		analysisHandler,
		sessionHandler,
		configHandler,
		videoHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.RateLimitPerMinute,
	)

	// Analyses wait on the model, so the write timeout is generous.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("ClearCue backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
