// Package main provides the entry point for the MindNotes admin CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aswin071/MindNotes/cmd/adm/commands"
	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/database"
	"github.com/aswin071/MindNotes/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override log level for admin tool
	cfg.Server.LogLevel = "error"

	// Disable all OpenTelemetry features for the CLI to avoid connection errors
	cfg.OpenTelemetry.EnableTracing = false
	cfg.OpenTelemetry.EnableMetrics = false
	cfg.OpenTelemetry.EnableLogging = false

	_, _, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "mindnotes-adm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}

	dbManager := database.NewManager(logger)
	db, err := dbManager.InitDBWithConfig(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "Warning: failed to close database connection", map[string]interface{}{"error": err.Error()})
		}
	}()

	rootCmd := &cobra.Command{
		Use:   "adm",
		Short: "MindNotes rotation admin tool",
		Long:  "Administrative commands for the MindNotes daily reflection rotation engine.",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(commands.SeedCommand(cfg, logger, db))
	rootCmd.AddCommand(commands.UserCommands(cfg, logger, db))
	rootCmd.AddCommand(commands.SetCommands(cfg, logger, db))
	rootCmd.AddCommand(commands.StatsCommands(cfg, logger, db))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
