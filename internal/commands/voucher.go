package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintab-dev/fintab/internal/id"
	"github.com/fintab-dev/fintab/internal/model"
)

func newVoucherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Record journal entries",
	}
	cmd.AddCommand(newVoucherAddCommand())
	return cmd
}

func newVoucherAddCommand() *cobra.Command {
	var (
		dateStr     string
		description string
		debitCode   string
		creditCode  string
		amountStr   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a two-leg voucher (one debit, one credit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			date, err := time.Parse(dateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			if !amount.IsPositive() {
				return fmt.Errorf("--amount must be positive")
			}

			debit, err := b.store.AccountByCode(ctx, b.cfg.Ledger.ScopeID, debitCode)
			if err != nil {
				return err
			}
			credit, err := b.store.AccountByCode(ctx, b.cfg.Ledger.ScopeID, creditCode)
			if err != nil {
				return err
			}

			seq, err := b.store.NextVoucherSeq(ctx, b.cfg.Ledger.ScopeID, date.Year(), int(date.Month()))
			if err != nil {
				return err
			}

			v := model.Voucher{
				ID:      uuid.New(),
				No:      id.FormatVoucherNo(date.Year(), int(date.Month()), seq),
				ScopeID: b.cfg.Ledger.ScopeID,
				Date:    date,
				Note:    description,
			}
			v.LineItems = []model.LineItem{
				{AccountID: debit.ID, AccountType: debit.Type, Debit: true, Amount: amount, VoucherID: v.ID, Description: description},
				{AccountID: credit.ID, AccountType: credit.Type, Debit: false, Amount: amount, VoucherID: v.ID, Description: description},
			}

			if err := b.store.CreateVoucher(ctx, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded voucher %s\n", v.No)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "voucher date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().StringVar(&debitCode, "debit", "", "debit account code (required)")
	cmd.Flags().StringVar(&creditCode, "credit", "", "credit account code (required)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("debit")
	_ = cmd.MarkFlagRequired("credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
