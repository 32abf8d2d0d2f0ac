package cmd

import (
	"context"
	"fmt"

	"github.com/gilanghuda/goal-tracker-backend/pkg/config"
	"github.com/gilanghuda/goal-tracker-backend/pkg/database"
	"github.com/gilanghuda/goal-tracker-backend/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.App.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx := context.Background()
		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := database.Migrate(ctx, db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			log.Info("database is up to date")
			return nil
		}
		log.Info("migrations applied", zap.Strings("migrations", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
