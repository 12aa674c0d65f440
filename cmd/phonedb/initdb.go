package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evidence-tools/phonedb/internal/store"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database file and record type tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if err := st.Init(cmd.Context()); err != nil {
				return fmt.Errorf("init store: %w", err)
			}

			slog.Info("database initialized", "path", cfg.Store.Path)
			return nil
		},
	}
}
