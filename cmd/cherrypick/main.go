// Package main provides the cherrypick CLI: the HTTP API server plus
// operational commands for tailoring and embedding maintenance.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/config"
	"github.com/jmartell/cherrypick/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cherrypick",
	Short: "Resume tailoring service",
	Long:  "Cherrypick tailors a stored resume content bank to individual job postings: it ranks bullets and skills against the job, has an LLM pick the strongest per section, and assembles a schema-valid resume ready for PDF rendering.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./cherrypick.yaml)")
}

// loadConfigAndLogger is shared setup for every subcommand
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	// load .env if present; real env vars still win
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
