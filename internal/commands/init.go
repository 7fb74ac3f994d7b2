package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintab-dev/fintab/internal/config"
	"github.com/fintab-dev/fintab/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, entityType)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "llc_single_member", "entity type")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, entityType string) error {
	for _, d := range []string{"data", "logs", "import"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, "fintab.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name, entityType)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dir, cfg.Database.Path), log)
	if err != nil {
		return err
	}
	if err := st.SeedDefaultChart(cmd.Context(), cfg.Ledger.ScopeID); err != nil {
		return fmt.Errorf("seeding default chart: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized book for %q in %s (scope %s)\n", name, dir, cfg.Ledger.ScopeID)
	return nil
}
