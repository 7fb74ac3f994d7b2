// Package commands wires the CLI surface over the engine.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fintab-dev/fintab/internal/buildinfo"
	"github.com/fintab-dev/fintab/internal/config"
	"github.com/fintab-dev/fintab/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fintab",
		Short:   "Ledger aggregation and financial statement engine",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("dir", "C", ".", "book directory containing fintab.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newVoucherCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newTrialBalanceCommand())

	return rootCmd
}

// book bundles everything a command needs to run against one ledger.
type book struct {
	dir   string
	cfg   *config.Config
	store *store.Store
	log   *zap.Logger
}

// openBook loads fintab.yaml from the --dir flag and opens the store.
func openBook(cmd *cobra.Command) (*book, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, "fintab.yaml"))
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(filepath.Join(absDir, cfg.Database.Path), log)
	if err != nil {
		return nil, err
	}

	return &book{dir: absDir, cfg: cfg, store: st, log: log}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
