package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/config"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/db"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/logging"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the scheduling and evaluation REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func loadServeConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags and environment override the file.
	if servePort != 0 {
		cfg.Port = servePort
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" && cfg.LogLevel == "" {
		cfg.LogLevel = level
	}

	merged := cfg.MergeWithDefaults(config.Config{})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if merged.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return &merged, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	scheduleService := schedule.NewService(database, database)
	cycleService := cycle.NewService(database, database, database)
	evaluationService := evaluation.NewService(database, cycleService)

	srv := server.New(server.Config{
		Port:        cfg.Port,
		HorizonDays: cfg.HorizonDays,
	}, logger, scheduleService, database, evaluationService, cycleService)

	return srv.Start()
}
