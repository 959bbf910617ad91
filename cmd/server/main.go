package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "reviwa-backend/internal/api/http"
	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/config"
	"reviwa-backend/internal/email"
	"reviwa-backend/internal/imaging"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository/postgres"
	"reviwa-backend/internal/security"
	"reviwa-backend/internal/service"
	"reviwa-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Reviwa API...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "client_url", cfg.Server.ClientURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "workers", cfg.Email.QueueWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryDays)*24*time.Hour)

	// Initialize Image Storage
	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Image storage ready", "type", cfg.Storage.Type)

	// Initialize Leaderboard Cache
	leaderboard, closeCache, err := cache.NewLeaderboardCache(ctx, cfg.Cache)
	if err != nil {
		logger.Error("Failed to initialize cache", "type", cfg.Cache.Type, "error", err)
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeCache()

	// Initialize Email
	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		logger.Error("Failed to initialize email sender", "error", err)
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	queue := email.NewQueue(sender, cfg.Email.QueueWorkers, cfg.Email.QueueSize, cfg.Email.MaxRetries)
	queue.Start(context.Background())
	templates := email.NewTemplates(cfg.Email.FrontendBaseURL)
	notifier := service.NewEmailNotifier(queue, templates, store.UserRepository)

	// Initialize Services
	gamificationSvc := service.NewGamificationService(
		store.PointsRepository,
		store.AchievementRepository,
		store.UserRepository,
		leaderboard,
		notifier,
	)
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.AchievementRepository,
		gamificationSvc,
		tokenManager,
		notifier,
	)
	reportSvc := service.NewReportService(
		store.ReportRepository,
		store.UserRepository,
		gamificationSvc,
		images,
		imaging.OptionsFromConfig(cfg.Imaging),
		notifier,
	)
	userSvc := service.NewUserService(store.UserRepository, store.AchievementRepository, leaderboard)
	adminSvc := service.NewAdminService(store.UserRepository, store.ReportRepository, store.AuditRepository, leaderboard)

	routerCfg := apihttp.RouterConfig{
		CORSOrigins:  cfg.Server.CORSOrigins,
		CookieName:   cfg.JWT.CookieName,
		CookieSecure: cfg.JWT.CookieSecure,
		MaxFileBytes: cfg.Storage.MaxFileSizeMB << 20,
	}
	if cfg.Storage.Type == "local" {
		routerCfg.Images = images
	}
	handler := apihttp.NewRouter(apihttp.Services{
		Auth:         authSvc,
		Reports:      reportSvc,
		Users:        userSvc,
		Admin:        adminSvc,
		Gamification: gamificationSvc,
		Mail:         service.NewMailService(sender, templates),
	}, routerCfg)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	queue.Stop()
	logger.Info("Reviwa API stopped. Goodbye!")
}
