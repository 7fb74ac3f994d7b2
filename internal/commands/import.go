package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fintab-dev/fintab/internal/importer"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import CSV data into the book",
	}
	cmd.AddCommand(newImportChartCommand())
	cmd.AddCommand(newImportJournalCommand())
	return cmd
}

func newImportChartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chart <file.csv>",
		Short: "Import a chart of accounts (" + importer.ChartHeader + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := importer.ImportChart(cmd.Context(), b.store, b.cfg.Ledger.ScopeID, f)
			if err != nil {
				return err
			}
			b.log.Info("chart imported", zap.Int("accounts", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", n)
			return nil
		},
	}
}

func newImportJournalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "journal <file.csv>",
		Short: "Import journal entries (" + importer.JournalHeader + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := importer.ImportJournal(cmd.Context(), b.store, b.cfg.Ledger.ScopeID, f)
			if err != nil {
				return err
			}
			b.log.Info("journal imported", zap.Int("vouchers", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d vouchers\n", n)
			return nil
		},
	}
}
