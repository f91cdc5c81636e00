package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/atomlab/pulsebridge/internal/clients/braket"
	"github.com/atomlab/pulsebridge/internal/config"
	"github.com/atomlab/pulsebridge/internal/database"
	"github.com/atomlab/pulsebridge/internal/modules/device"
	"github.com/atomlab/pulsebridge/internal/modules/tasks"
	"github.com/atomlab/pulsebridge/internal/scheduler"
	"github.com/atomlab/pulsebridge/internal/server"
	"github.com/atomlab/pulsebridge/internal/simulator"
	"github.com/atomlab/pulsebridge/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Str("backend", cfg.Backend).Msg("Starting pulse bridge")

	// Initialize database
	db, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "tasks.db"),
		Name: "tasks",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := tasks.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize task schema")
	}
	repo := tasks.NewRepository(db.Conn())

	// Select execution backend
	var backend device.Backend
	switch cfg.Backend {
	case config.BackendBraket:
		client, err := braket.New(context.Background(), braket.Config{
			Region:      cfg.AWSRegion,
			DeviceARN:   cfg.BraketDeviceARN,
			Bucket:      cfg.S3Bucket,
			Prefix:      cfg.S3Prefix,
			PollSeconds: cfg.PollSeconds,
			Log:         log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Braket client")
		}
		backend = client
	default:
		backend = simulator.New(simulator.Config{Log: log})
	}

	svc := tasks.NewService(repo, backend, cfg.Backend, cfg.Backend == config.BackendBraket, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob("@daily", tasks.NewCleanupJob(repo, cfg.Retention, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:         cfg.Port,
		DevMode:      cfg.DevMode,
		DefaultShots: cfg.Shots,
		Backend:      cfg.Backend,
		Tasks:        svc,
		DB:           db,
		Log:          log,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
