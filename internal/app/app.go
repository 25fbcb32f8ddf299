package app

import (
	"fmt"
	"net/http"
	"time"

	"visionpulse/internal/config"
	"visionpulse/internal/logger"
	"visionpulse/internal/observe"
	"visionpulse/internal/repository/sqlite"
	"visionpulse/internal/routes"
	"visionpulse/internal/services"
	"visionpulse/internal/services/ai"
	"visionpulse/internal/services/session"
	"visionpulse/internal/services/storage"
	"visionpulse/internal/services/websocket"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	db      *sqlite.DB
	manager *services.Manager
}

func New() (*App, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	repo := sqlite.NewSessionRepository(db)

	detector, err := ai.NewDetectorService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load detector: %w", err)
	}

	uploads, err := storage.NewUploadStore(cfg.UploadDirectory, time.Duration(cfg.FileTTLMinutes)*time.Minute, log)
	if err != nil {
		return nil, err
	}

	admission := session.NewManager(cfg.MaxImagesPerSession, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	hub := websocket.NewHubService(log)
	obs := observe.New()

	manager := services.NewManager(detector, repo, uploads, hub, admission, obs, log)

	return &App{
		config:  cfg,
		logger:  log,
		db:      db,
		manager: manager,
	}, nil
}

func (a *App) Run() error {
	// Background sweeps: stale upload files and expired session records.
	interval := time.Duration(a.config.CleanupIntervalMinutes) * time.Minute
	go a.manager.Uploads().Run(interval)
	go a.purgeRecordsLoop(interval)

	router := routes.SetupRoutes(a.manager, a.config, a.logger)

	a.logger.Info("🚀 VisionPulse server listening on :%d", a.config.Port)
	a.logger.Info("📁 Uploads: %s", a.config.UploadDirectory)
	a.logger.Info("🤖 Model: %s", a.config.ModelPath)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

func (a *App) purgeRecordsLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		<-ticker.C
		cutoff := time.Now().Add(-time.Duration(a.config.FileTTLMinutes) * time.Minute)
		n, err := a.manager.PurgeExpiredRecords(cutoff)
		if err != nil {
			a.logger.Error("Session record sweep failed: %v", err)
			continue
		}
		if n > 0 {
			a.logger.Info("Purged %d expired session record(s)", n)
		}
	}
}
