package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielvr/adaptengine/internal/api"
	"github.com/danielvr/adaptengine/internal/config"
	"github.com/danielvr/adaptengine/internal/db"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/repository/sqlite"
	"github.com/danielvr/adaptengine/internal/scheduler"
	"github.com/danielvr/adaptengine/internal/services"
	"github.com/danielvr/adaptengine/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("AdaptEngine Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_fetch_limit=%d", cfg.SessionFetchLimit)
	log.Debug("sweep_interval_minutes=%d", cfg.SweepIntervalMinutes)
	log.Debug("sweep_worker_count=%d", cfg.SweepWorkerCount)
	log.Debug("sweep_queue_size=%d", cfg.SweepQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	profileRepo := sqlite.NewProfileRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	adapterRepo := sqlite.NewAdapterRepository(database.DB)
	homeworkRepo := sqlite.NewHomeworkRepository(database.DB)
	diagnosticRepo := sqlite.NewDiagnosticRepository(database.DB)
	lessonRepo := sqlite.NewLessonRepository(database.DB)

	// Initialize services
	locks := services.NewUserLocks()
	profileService := services.NewProfileService(profileRepo)
	adapterService := services.NewAdapterService(adapterRepo, sessionRepo, profileRepo, homeworkRepo, locks, cfg.SessionFetchLimit)
	sessionService := services.NewSessionService(sessionRepo, profileRepo, adapterService, locks)
	homeworkService := services.NewHomeworkService(homeworkRepo, profileRepo, locks)
	diagnosticService := services.NewDiagnosticService(diagnosticRepo, profileRepo, adapterRepo, locks)
	lessonService := services.NewLessonService(lessonRepo, homeworkRepo, profileRepo, locks)

	// Initialize worker pool and sweep scheduler
	sweepPool := worker.NewPool(cfg.SweepWorkerCount, cfg.SweepQueueSize)
	sweepScheduler := scheduler.New(sweepPool, homeworkService, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)

	srv := &api.Server{
		DB:                database.DB,
		ProfileService:    profileService,
		SessionService:    sessionService,
		AdapterService:    adapterService,
		HomeworkService:   homeworkService,
		DiagnosticService: diagnosticService,
		LessonService:     lessonService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	sweepPool.Start(ctx)
	if err := sweepScheduler.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sweepScheduler.Stop()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	sweepPool.Stop()

	log.Info("===========================================")
	log.Info("AdaptEngine Server Stopped")
	log.Info("===========================================")
}
