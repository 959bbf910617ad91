package main

import (
	"context"
	"database/sql"
	"fmt"

	"reviwa-backend/internal/config"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository/postgres"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// app holds state shared by subcommands. The database is opened only by
// commands that need it.
type app struct {
	configPath string
	cfg        *config.Config
	db         *sql.DB
}

func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	return nil
}

func (a *app) store(ctx context.Context) (*postgres.Store, error) {
	if a.db == nil {
		db, err := sql.Open("postgres", a.cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		a.db = db
	}
	return postgres.NewStore(a.db), nil
}

func (a *app) close(cmd *cobra.Command, args []string) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "reviwactl",
		Short: "Administrative tasks for the Reviwa backend",
		Long: `Run administrative tasks against the Reviwa database and mail transport.

Available subcommands:
  make-admin       - Promote an existing user to admin
  recount-reports  - Recompute report counters from the reports table
  points-drift     - List users whose balance differs from their ledger
  send-test-email  - Send a test message through the configured provider`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.loadConfig,
		PersistentPostRunE: a.close,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	root.AddCommand(
		newMakeAdminCmd(a),
		newRecountReportsCmd(a),
		newPointsDriftCmd(a),
		newSendTestEmailCmd(a),
	)
	return root
}
