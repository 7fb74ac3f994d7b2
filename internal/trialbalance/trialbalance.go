// Package trialbalance computes three-window per-account debit/credit
// totals with a double-entry closure check.
package trialbalance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fintab-dev/fintab/internal/aggregate"
	"github.com/fintab-dev/fintab/internal/forest"
	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
	"github.com/fintab-dev/fintab/internal/report"
	"github.com/fintab-dev/fintab/internal/retriever"
)

// Window indexes the three reporting windows.
type Window int

const (
	WindowBeginning Window = iota
	WindowMidterm
	WindowEnding
	windowCount
)

func (w Window) String() string {
	switch w {
	case WindowBeginning:
		return "beginning"
	case WindowMidterm:
		return "midterm"
	default:
		return "ending"
	}
}

// Item is one trial balance row. Figures are subtree-inclusive: a
// parent already contains its sub-accounts.
type Item struct {
	Account         model.Account
	BeginningDebit  decimal.Decimal
	BeginningCredit decimal.Decimal
	MidtermDebit    decimal.Decimal
	MidtermCredit   decimal.Decimal
	EndingDebit     decimal.Decimal
	EndingCredit    decimal.Decimal
	SubAccounts     []*Item
}

// GrandTotal sums every account once per window.
type GrandTotal struct {
	BeginningDebit  decimal.Decimal
	BeginningCredit decimal.Decimal
	MidtermDebit    decimal.Decimal
	MidtermCredit   decimal.Decimal
	EndingDebit     decimal.Decimal
	EndingCredit    decimal.Decimal
}

// Result is a complete trial balance.
type Result struct {
	Items     []*Item
	Total     GrandTotal
	Anomalies []aggregate.Anomaly
}

// Calculator builds trial balances from the repository contracts.
type Calculator struct {
	accounts ledger.AccountRepository
	items    ledger.LineItemRepository
}

// New returns a Calculator over the given repositories.
func New(accounts ledger.AccountRepository, items ledger.LineItemRepository) *Calculator {
	return &Calculator{accounts: accounts, items: items}
}

// allTypes is the fetch order for the unfiltered account set.
var allTypes = []model.AccountType{
	model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
	model.AccountTypeRevenue, model.AccountTypeExpense, model.AccountTypeOther,
}

// Calculate splits time at the three boundaries into beginning
// (..b0], midterm (b0..b1] and ending (b1..b2] windows and totals
// every account's debits and credits per window. The closure check
// runs over the full unfiltered account set regardless of how the
// result is later paginated for display; a violated window is reported
// as an anomaly, not an error.
func (c *Calculator) Calculate(ctx context.Context, scopeID uuid.UUID, b0, b1, b2 time.Time) (*Result, error) {
	if b0.After(b1) || b1.After(b2) {
		return nil, report.ValidationError{Field: "window boundaries", Reason: "boundaries must be non-decreasing"}
	}

	accounts, err := c.fetchAllAccounts(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	// Items past b2 are fetched too: they stay out of every window but
	// the voucher check needs them, or a voucher with one leg inside
	// the window and one after it would look unbalanced.
	items, err := c.fetchAllItems(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	// Bucket items into windows by creation time, then total each
	// window independently.
	aggs := [windowCount]*aggregate.Aggregator{aggregate.New(), aggregate.New(), aggregate.New()}
	for _, li := range items {
		switch {
		case li.CreatedAt.After(b2):
		case !li.CreatedAt.After(b0):
			aggs[WindowBeginning].Add(li)
		case !li.CreatedAt.After(b1):
			aggs[WindowMidterm].Add(li)
		default:
			aggs[WindowEnding].Add(li)
		}
	}

	roots := forest.Build(accounts)
	result := &Result{Total: zeroTotal()}
	for _, r := range roots {
		item := buildItem(r, aggs)
		result.Items = append(result.Items, item)
		result.Total = addTotal(result.Total, item)
	}

	result.Anomalies = append(result.Anomalies, aggregate.CheckVouchers(items)...)
	for w := WindowBeginning; w < windowCount; w++ {
		result.Anomalies = append(result.Anomalies, closureCheck(w, aggs[w])...)
	}
	return result, nil
}

func (c *Calculator) fetchAllAccounts(ctx context.Context, scopeID uuid.UUID) ([]model.Account, error) {
	r := retriever.General(c.accounts)
	var all []model.Account
	for page := 1; ; page++ {
		res, err := r.GetAccounts(ctx, scopeID, ledger.AccountQuery{
			IncludeDefault: true,
			Page:           page,
			PageSize:       200,
			SortBy:         ledger.SortByCode,
		})
		if err != nil {
			return nil, report.RepositoryError{Op: "find accounts", Err: err}
		}
		all = append(all, res.Data...)
		if !res.HasNextPage {
			return all, nil
		}
	}
}

func (c *Calculator) fetchAllItems(ctx context.Context, scopeID uuid.UUID) ([]model.LineItem, error) {
	perType := make([][]model.LineItem, len(allTypes))
	eg, ctx := errgroup.WithContext(ctx)
	for i, t := range allTypes {
		i, t := i, t
		eg.Go(func() error {
			items, err := c.items.FindLineItems(ctx, scopeID, t, time.Time{}, time.Time{}, false)
			if err != nil {
				return report.RepositoryError{Op: "find line items (" + string(t) + ")", Err: err}
			}
			perType[i] = items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []model.LineItem
	for _, items := range perType {
		all = append(all, items...)
	}
	return all, nil
}

// buildItem assembles one subtree-inclusive row, children first.
func buildItem(n *forest.Node, aggs [windowCount]*aggregate.Aggregator) *Item {
	item := &Item{Account: n.Account}
	b := aggs[WindowBeginning].Totals(n.Account.ID)
	m := aggs[WindowMidterm].Totals(n.Account.ID)
	e := aggs[WindowEnding].Totals(n.Account.ID)
	item.BeginningDebit, item.BeginningCredit = b.Debit, b.Credit
	item.MidtermDebit, item.MidtermCredit = m.Debit, m.Credit
	item.EndingDebit, item.EndingCredit = e.Debit, e.Credit

	for _, c := range n.Children {
		sub := buildItem(c, aggs)
		item.SubAccounts = append(item.SubAccounts, sub)
		item.BeginningDebit = item.BeginningDebit.Add(sub.BeginningDebit)
		item.BeginningCredit = item.BeginningCredit.Add(sub.BeginningCredit)
		item.MidtermDebit = item.MidtermDebit.Add(sub.MidtermDebit)
		item.MidtermCredit = item.MidtermCredit.Add(sub.MidtermCredit)
		item.EndingDebit = item.EndingDebit.Add(sub.EndingDebit)
		item.EndingCredit = item.EndingCredit.Add(sub.EndingCredit)
	}
	return item
}

func closureCheck(w Window, agg *aggregate.Aggregator) []aggregate.Anomaly {
	debit, credit := decimal.Zero, decimal.Zero
	for _, id := range agg.AccountIDs() {
		t := agg.Totals(id)
		debit = debit.Add(t.Debit)
		credit = credit.Add(t.Credit)
	}
	if debit.Equal(credit) {
		return nil
	}
	return []aggregate.Anomaly{{
		Kind:   aggregate.AnomalyClosureMismatch,
		Amount: debit.Sub(credit),
		Detail: w.String() + " window: total debits != total credits",
	}}
}

func zeroTotal() GrandTotal {
	z := decimal.Zero
	return GrandTotal{z, z, z, z, z, z}
}

func addTotal(t GrandTotal, item *Item) GrandTotal {
	t.BeginningDebit = t.BeginningDebit.Add(item.BeginningDebit)
	t.BeginningCredit = t.BeginningCredit.Add(item.BeginningCredit)
	t.MidtermDebit = t.MidtermDebit.Add(item.MidtermDebit)
	t.MidtermCredit = t.MidtermCredit.Add(item.MidtermCredit)
	t.EndingDebit = t.EndingDebit.Add(item.EndingDebit)
	t.EndingCredit = t.EndingCredit.Add(item.EndingCredit)
	return t
}
