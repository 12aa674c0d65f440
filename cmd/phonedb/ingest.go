package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evidence-tools/phonedb/internal/ingest"
	"github.com/evidence-tools/phonedb/internal/store"
)

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Import one or more CSV or Excel exports into the database",
		Args:  cobra.MinimumNArgs(1),
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

			svc, err := ingest.NewService(cfg, st)
			if err != nil {
				return fmt.Errorf("create service: %w", err)
			}
			if err := svc.InitStore(cmd.Context()); err != nil {
				return fmt.Errorf("init store: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			var firstErr error
			for _, path := range args {
				stats, err := svc.Ingest(cmd.Context(), path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				enc.Encode(stats)
			}
			return firstErr
		},
	}
}
