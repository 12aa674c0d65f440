package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evidence-tools/phonedb/internal/config"
	"github.com/evidence-tools/phonedb/internal/logging"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "phonedb",
		Short:   "Import heterogeneous phone data exports into a normalized SQLite database",
		Version: version,
	}

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads .env if present, then builds and validates the
// configuration and configures logging from it.
func loadConfig() (*config.Config, error) {
	// Overload overwrites existing env vars with .env values
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
