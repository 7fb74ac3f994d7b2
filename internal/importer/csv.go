package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintab-dev/fintab/internal/model"
)

// ChartHeader is the expected chart-of-accounts CSV header.
const ChartHeader = "code,name,type,parent_code,liquidity"

const (
	chartNumFields = 5
	colChartCode   = 0
	colChartName   = 1
	colChartType   = 2
	colChartParent = 3
	colChartLiquid = 4
)

// ReadChart reads a chart-of-accounts CSV, returning accounts plus a
// code -> parent code map for tree wiring.
func ReadChart(r io.Reader) ([]model.Account, map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chartNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading chart CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	var accounts []model.Account
	parents := make(map[string]string)
	for i, rec := range records[1:] {
		acct, parent, err := unmarshalChartRow(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
		parents[acct.Code] = parent
	}
	return accounts, parents, nil
}

func unmarshalChartRow(rec []string) (model.Account, string, error) {
	t := model.AccountType(strings.ToLower(strings.TrimSpace(rec[colChartType])))
	switch t {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
		model.AccountTypeRevenue, model.AccountTypeExpense, model.AccountTypeOther:
	default:
		return model.Account{}, "", fmt.Errorf("unknown account type %q", rec[colChartType])
	}

	acct := model.Account{
		Code:      strings.TrimSpace(rec[colChartCode]),
		Name:      strings.TrimSpace(rec[colChartName]),
		Type:      t,
		Liquidity: strings.EqualFold(strings.TrimSpace(rec[colChartLiquid]), "true"),
		ForUser:   true,
	}
	if acct.Code == "" {
		return model.Account{}, "", fmt.Errorf("empty account code")
	}
	return acct, strings.TrimSpace(rec[colChartParent]), nil
}

// JournalHeader is the expected journal CSV header.
const JournalHeader = "date,description,account_code,debit,credit,voucher_no"

const (
	journalNumFields = 6
	dateFormat       = "2006-01-02"
	colDate          = 0
	colDesc          = 1
	colAcctCode      = 2
	colDebit         = 3
	colCredit        = 4
	colVoucherNo     = 5
)

// journalRow is one parsed journal CSV line.
type journalRow struct {
	Date        time.Time
	Description string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	VoucherNo   string
}

// ReadJournal reads all rows from a journal CSV reader.
func ReadJournal(r io.Reader) ([]journalRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = journalNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []journalRow
	for i, rec := range records[1:] {
		row, err := unmarshalJournalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func unmarshalJournalRow(rec []string) (journalRow, error) {
	date, err := time.Parse(dateFormat, strings.TrimSpace(rec[colDate]))
	if err != nil {
		return journalRow{}, fmt.Errorf("invalid date %q: %w", rec[colDate], err)
	}

	debit, err := parseAmount(rec[colDebit])
	if err != nil {
		return journalRow{}, fmt.Errorf("invalid debit: %w", err)
	}
	credit, err := parseAmount(rec[colCredit])
	if err != nil {
		return journalRow{}, fmt.Errorf("invalid credit: %w", err)
	}
	if debit.IsNegative() || credit.IsNegative() {
		return journalRow{}, fmt.Errorf("amounts must be non-negative")
	}

	no := strings.TrimSpace(rec[colVoucherNo])
	if no == "" {
		return journalRow{}, fmt.Errorf("empty voucher number")
	}

	return journalRow{
		Date:        date,
		Description: strings.TrimSpace(rec[colDesc]),
		AccountCode: strings.TrimSpace(rec[colAcctCode]),
		Debit:       debit,
		Credit:      credit,
		VoucherNo:   no,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
