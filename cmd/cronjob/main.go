package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/config"
	"reviwa-backend/internal/jobs"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository/postgres"
	"reviwa-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ("+strings.Join(jobs.Names(), ", ")+", all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Reviwa Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	leaderboard, closeCache, err := cache.NewLeaderboardCache(context.Background(), cfg.Cache)
	if err != nil {
		logger.Warn("Leaderboard cache unavailable, continuing without it", "error", err)
		leaderboard, closeCache = cache.NoopLeaderboardCache{}, func() error { return nil }
	}
	defer closeCache()

	jobRunner := jobs.NewJobRunner(store.UserRepository, store.PointsRepository, leaderboard, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(context.Background(), *runOnce); err != nil {
			logger.Error("Job failed", "job", *runOnce, "error", err)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobs.Names() {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Printf("  - %s\n", jobs.AllJob)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running", "jobs", cronScheduler.Entries())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down cronjob scheduler...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := cronScheduler.Stop(shutdownCtx); err != nil {
		logger.Error("Scheduler did not stop cleanly", "error", err)
	}
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
