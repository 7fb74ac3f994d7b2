package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fintab-dev/fintab/internal/aggregate"
	"github.com/fintab-dev/fintab/internal/auditlog"
	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
	"github.com/fintab-dev/fintab/internal/report"
)

const dateFormat = "2006-01-02"

// statementFactory builds one concrete generator.
type statementFactory func(accounts ledger.AccountRepository, items ledger.LineItemRepository, p report.Params) (report.Statement, error)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate financial statements",
	}
	cmd.AddCommand(newStatementCommand("balance-sheet", "Generate a balance sheet", report.BalanceSheet))
	cmd.AddCommand(newStatementCommand("income-statement", "Generate an income statement", report.IncomeStatement))
	cmd.AddCommand(newStatementCommand("cash-flow", "Generate a cash flow statement", report.CashFlow))
	return cmd
}

func newStatementCommand(use, short string, factory statementFactory) *cobra.Command {
	var (
		from       string
		to         string
		format     string
		includeDel bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}

			start, end, err := parseWindow(from, to)
			if err != nil {
				return err
			}

			stmt, err := factory(b.store, b.store, report.Params{
				ScopeID:        b.cfg.Ledger.ScopeID,
				StartDate:      start,
				EndDate:        end,
				IncludeDeleted: includeDel,
			})
			if err != nil {
				return err
			}

			began := time.Now()
			switch format {
			case "tree":
				res, err := stmt.Tree(cmd.Context())
				if err != nil {
					return err
				}
				b.log.Info("statement generated",
					zap.String("statement", use),
					zap.Duration("took", time.Since(began)),
					zap.Int("anomalies", len(res.Anomalies)))

				if err := logReport(b, res.Sheet, res.StartDate, res.EndDate,
					res.Total.StringFixed(2), len(res.Anomalies)); err != nil {
					return err
				}
				return printJSON(cmd, struct {
					Sheet     model.ReportSheetType `json:"sheet"`
					Total     string                `json:"total"`
					Tree      []report.TreeNode     `json:"tree"`
					Anomalies []string              `json:"anomalies"`
				}{
					Sheet:     res.Sheet,
					Total:     res.Total.StringFixed(2),
					Tree:      report.Serialize(res.Roots),
					Anomalies: anomalyStrings(res.Anomalies),
				})
			case "rows":
				res, err := stmt.Rows(cmd.Context())
				if err != nil {
					return err
				}
				b.log.Info("statement generated",
					zap.String("statement", use),
					zap.Duration("took", time.Since(began)),
					zap.Int("rows", len(res.Rows)),
					zap.Int("anomalies", len(res.Anomalies)))

				// The logged total is the ending position: root rows
				// already include their subtrees.
				total := decimal.Zero
				for _, r := range res.Rows {
					if r.Account.ParentID == 0 {
						total = total.Add(r.EndingBalance)
					}
				}
				if err := logReport(b, res.Sheet, res.StartDate, res.EndDate,
					total.StringFixed(2), len(res.Anomalies)); err != nil {
					return err
				}

				type rowOut struct {
					Code      string `json:"code"`
					Name      string `json:"name"`
					Beginning string `json:"beginningBalance"`
					Movement  string `json:"periodMovement"`
					Ending    string `json:"endingBalance"`
				}
				rows := make([]rowOut, 0, len(res.Rows))
				for _, r := range res.Rows {
					rows = append(rows, rowOut{
						Code:      r.Account.Code,
						Name:      r.Account.Name,
						Beginning: r.BeginningBalance.StringFixed(2),
						Movement:  r.PeriodMovement.StringFixed(2),
						Ending:    r.EndingBalance.StringFixed(2),
					})
				}
				return printJSON(cmd, struct {
					Sheet     model.ReportSheetType `json:"sheet"`
					Rows      []rowOut              `json:"rows"`
					Anomalies []string              `json:"anomalies"`
				}{
					Sheet:     res.Sheet,
					Rows:      rows,
					Anomalies: anomalyStrings(res.Anomalies),
				})
			default:
				return fmt.Errorf("unknown format %q (want tree or rows)", format)
			}
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "period end date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&format, "format", "tree", "output shape: tree or rows")
	cmd.Flags().BoolVar(&includeDel, "voided", false, "include voided line items")

	return cmd
}

// parseWindow reads the inclusive report window. The end date extends
// to the last second of its day.
func parseWindow(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateFormat, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
	}
	end, err := time.Parse(dateFormat, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
	}
	end = end.Add(24*time.Hour - time.Second)
	return start, end, nil
}

// logReport appends one audit row per successful generation, tree and
// rows formats alike.
func logReport(b *book, sheet model.ReportSheetType, start, end time.Time, total string, anomalies int) error {
	return auditlog.Append(b.dir, auditlog.Entry{
		Timestamp:    time.Now(),
		Scope:        b.cfg.Ledger.ScopeID.String(),
		Statement:    string(sheet),
		WindowStart:  start,
		WindowEnd:    end,
		Total:        total,
		AnomalyCount: anomalies,
	})
}

func anomalyStrings(anomalies []aggregate.Anomaly) []string {
	out := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, a.String())
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
