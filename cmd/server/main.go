package main

import (
	"fmt"
	"os"

	"gameportal/backend/internal/config"
	"gameportal/backend/internal/database"
	"gameportal/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Swagger imports
	_ "gameportal/backend/docs" // This is important for swag to find the generated docs
)

var configDir string

// @title           Game Portal API
// @version         1.0
// @description     Catalog, play tracking and administration API for the game portal.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Game portal backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing the .env file")
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs.
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
	db  *gorm.DB
}

func bootstrap(withDB bool) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	gin.SetMode(cfg.GinMode)

	log, err := logger.New(cfg.LogDir, cfg.LogLevel, true)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if !withDB {
		return a, nil
	}
	a.db, err = database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.log.Sync()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info("database migrated")
			return nil
		},
	}
}
