package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintab-dev/fintab/internal/trialbalance"
)

func newTrialBalanceCommand() *cobra.Command {
	var (
		beginning string
		midterm   string
		ending    string
	)

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Compute a three-window trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}

			b0, err := parseBoundary(beginning, "--beginning")
			if err != nil {
				return err
			}
			b1, err := parseBoundary(midterm, "--midterm")
			if err != nil {
				return err
			}
			b2, err := parseBoundary(ending, "--ending")
			if err != nil {
				return err
			}

			calc := trialbalance.New(b.store, b.store)
			res, err := calc.Calculate(cmd.Context(), b.cfg.Ledger.ScopeID, b0, b1, b2)
			if err != nil {
				return err
			}

			return printJSON(cmd, trialBalanceOut(res))
		},
	}

	cmd.Flags().StringVar(&beginning, "beginning", "", "beginning window boundary, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&midterm, "midterm", "", "midterm window boundary, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&ending, "ending", "", "ending window boundary, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("beginning")
	_ = cmd.MarkFlagRequired("midterm")
	_ = cmd.MarkFlagRequired("ending")

	return cmd
}

func parseBoundary(s, flag string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date: %w", flag, err)
	}
	// Boundaries close their window at the last second of the day.
	return t.Add(24*time.Hour - time.Second), nil
}

type tbItemOut struct {
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	BeginningDebit  string      `json:"beginningDebit"`
	BeginningCredit string      `json:"beginningCredit"`
	MidtermDebit    string      `json:"midtermDebit"`
	MidtermCredit   string      `json:"midtermCredit"`
	EndingDebit     string      `json:"endingDebit"`
	EndingCredit    string      `json:"endingCredit"`
	SubAccounts     []tbItemOut `json:"subAccounts"`
}

type tbOut struct {
	Items     []tbItemOut `json:"items"`
	Total     tbItemOut   `json:"total"`
	Anomalies []string    `json:"anomalies"`
}

func trialBalanceOut(res *trialbalance.Result) tbOut {
	out := tbOut{Anomalies: make([]string, 0, len(res.Anomalies))}
	for _, item := range res.Items {
		out.Items = append(out.Items, tbItem(item))
	}
	out.Total = tbItemOut{
		Name:            "Total",
		BeginningDebit:  res.Total.BeginningDebit.StringFixed(2),
		BeginningCredit: res.Total.BeginningCredit.StringFixed(2),
		MidtermDebit:    res.Total.MidtermDebit.StringFixed(2),
		MidtermCredit:   res.Total.MidtermCredit.StringFixed(2),
		EndingDebit:     res.Total.EndingDebit.StringFixed(2),
		EndingCredit:    res.Total.EndingCredit.StringFixed(2),
		SubAccounts:     []tbItemOut{},
	}
	for _, a := range res.Anomalies {
		out.Anomalies = append(out.Anomalies, a.String())
	}
	return out
}

func tbItem(item *trialbalance.Item) tbItemOut {
	out := tbItemOut{
		Code:            item.Account.Code,
		Name:            item.Account.Name,
		BeginningDebit:  item.BeginningDebit.StringFixed(2),
		BeginningCredit: item.BeginningCredit.StringFixed(2),
		MidtermDebit:    item.MidtermDebit.StringFixed(2),
		MidtermCredit:   item.MidtermCredit.StringFixed(2),
		EndingDebit:     item.EndingDebit.StringFixed(2),
		EndingCredit:    item.EndingCredit.StringFixed(2),
		SubAccounts:     []tbItemOut{},
	}
	for _, sub := range item.SubAccounts {
		out.SubAccounts = append(out.SubAccounts, tbItem(sub))
	}
	return out
}
