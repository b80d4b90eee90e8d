package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/pkg/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded schema migrations.

Without --steps every pending migration is applied. A positive value applies that
many migrations, a negative value rolls back that many.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations to apply (negative rolls back)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	version, err := database.Migrate(db, migrateSteps)
	if err != nil {
		return err
	}
	logr.Info("migrations applied", zap.Uint("version", version), zap.Int("steps", migrateSteps))
	return nil
}
