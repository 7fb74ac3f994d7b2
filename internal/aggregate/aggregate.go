// Package aggregate computes per-account debit/credit totals and
// largest-entry summaries over a stream of line items.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/fintab-dev/fintab/internal/model"
)

// Totals holds raw debit and credit sums for one account. Sign by
// normal balance is applied later by the caller, so the aggregator
// stays account-type-agnostic.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Net returns the totals signed by a normal balance side.
func (t Totals) Net(side model.BalanceSide) decimal.Decimal {
	if side == model.SideDebit {
		return t.Debit.Sub(t.Credit)
	}
	return t.Credit.Sub(t.Debit)
}

// Summary describes the single largest line item seen on one side.
// A zero Summary (empty description, zero amount) means no item was
// seen; callers never get a nil.
type Summary struct {
	AccountID   int64
	Amount      decimal.Decimal
	Description string
}

// Aggregator accumulates line items in a single linear pass.
type Aggregator struct {
	totals        map[int64]Totals
	largestDebit  Summary
	largestCredit Summary
}

// New returns an empty Aggregator with zeroed summaries.
func New() *Aggregator {
	return &Aggregator{
		totals:        make(map[int64]Totals),
		largestDebit:  Summary{Amount: decimal.Zero},
		largestCredit: Summary{Amount: decimal.Zero},
	}
}

// Add accumulates one line item.
func (a *Aggregator) Add(li model.LineItem) {
	t := a.totals[li.AccountID]
	if li.Debit {
		t.Debit = t.Debit.Add(li.Amount)
	} else {
		t.Credit = t.Credit.Add(li.Amount)
	}
	a.totals[li.AccountID] = t

	// Strictly greater-than: on a tie the first-seen entry stays the
	// largest.
	s := Summary{AccountID: li.AccountID, Amount: li.Amount, Description: li.Description}
	if li.Debit {
		if li.Amount.GreaterThan(a.largestDebit.Amount) {
			a.largestDebit = s
		}
	} else {
		if li.Amount.GreaterThan(a.largestCredit.Amount) {
			a.largestCredit = s
		}
	}
}

// AddAll accumulates a slice of line items.
func (a *Aggregator) AddAll(items []model.LineItem) {
	for _, li := range items {
		a.Add(li)
	}
}

// Totals returns the accumulated totals for an account. Accounts with
// no items yield zeroed totals.
func (a *Aggregator) Totals(accountID int64) Totals {
	t, ok := a.totals[accountID]
	if !ok {
		return Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	}
	return t
}

// AccountIDs returns every account that received at least one item.
func (a *Aggregator) AccountIDs() []int64 {
	ids := make([]int64, 0, len(a.totals))
	for id := range a.totals {
		ids = append(ids, id)
	}
	return ids
}

// Largest returns the largest debit and credit summaries.
func (a *Aggregator) Largest() (debit, credit Summary) {
	return a.largestDebit, a.largestCredit
}
