// Package importer loads chart-of-accounts and journal CSV files into
// a ledger scope.
package importer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fintab-dev/fintab/internal/model"
)

// ChartWriter persists imported accounts.
type ChartWriter interface {
	CreateAccounts(ctx context.Context, scopeID uuid.UUID, accounts []model.Account, parentCodes map[string]string) error
}

// VoucherWriter persists imported vouchers and resolves account codes.
type VoucherWriter interface {
	AccountByCode(ctx context.Context, scopeID uuid.UUID, code string) (model.Account, error)
	CreateVoucher(ctx context.Context, v model.Voucher) error
}

// ImportChart reads a chart-of-accounts CSV and persists it.
func ImportChart(ctx context.Context, w ChartWriter, scopeID uuid.UUID, r io.Reader) (int, error) {
	accounts, parents, err := ReadChart(r)
	if err != nil {
		return 0, err
	}
	if err := w.CreateAccounts(ctx, scopeID, accounts, parents); err != nil {
		return 0, err
	}
	return len(accounts), nil
}

// ImportJournal reads a journal CSV, groups rows into vouchers,
// resolves account codes and persists every voucher. Unbalanced
// vouchers reject the whole import.
func ImportJournal(ctx context.Context, w VoucherWriter, scopeID uuid.UUID, r io.Reader) (int, error) {
	rows, err := ReadJournal(r)
	if err != nil {
		return 0, err
	}

	grouped := make(map[string][]journalRow)
	var order []string
	for _, row := range rows {
		if _, seen := grouped[row.VoucherNo]; !seen {
			order = append(order, row.VoucherNo)
		}
		grouped[row.VoucherNo] = append(grouped[row.VoucherNo], row)
	}

	vouchers := make([]model.Voucher, 0, len(order))
	var unbalanced []string
	for _, no := range order {
		v, err := buildVoucher(ctx, w, scopeID, no, grouped[no])
		if err != nil {
			return 0, err
		}
		if !v.Balanced() {
			unbalanced = append(unbalanced, no)
			continue
		}
		vouchers = append(vouchers, v)
	}
	if len(unbalanced) > 0 {
		sort.Strings(unbalanced)
		return 0, fmt.Errorf("unbalanced vouchers: %s", strings.Join(unbalanced, ", "))
	}

	for _, v := range vouchers {
		if err := w.CreateVoucher(ctx, v); err != nil {
			return 0, err
		}
	}
	return len(vouchers), nil
}

func buildVoucher(ctx context.Context, w VoucherWriter, scopeID uuid.UUID, no string, rows []journalRow) (model.Voucher, error) {
	v := model.Voucher{
		ID:      uuid.New(),
		No:      no,
		ScopeID: scopeID,
		Date:    rows[0].Date,
	}
	for _, row := range rows {
		acct, err := w.AccountByCode(ctx, scopeID, row.AccountCode)
		if err != nil {
			return model.Voucher{}, fmt.Errorf("voucher %s: %w", no, err)
		}
		li := model.LineItem{
			AccountID:   acct.ID,
			AccountType: acct.Type,
			Description: row.Description,
			VoucherID:   v.ID,
			CreatedAt:   row.Date,
		}
		switch {
		case !row.Debit.IsZero() && row.Credit.IsZero():
			li.Debit = true
			li.Amount = row.Debit
		case row.Debit.IsZero() && !row.Credit.IsZero():
			li.Amount = row.Credit
		default:
			return model.Voucher{}, fmt.Errorf("voucher %s: row must have exactly one of debit or credit", no)
		}
		v.LineItems = append(v.LineItems, li)
	}
	return v, nil
}
