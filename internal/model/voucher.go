package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one debit or credit leg of a voucher.
type LineItem struct {
	ID          int64
	AccountID   int64
	AccountType AccountType
	Debit       bool
	Amount      decimal.Decimal // always non-negative; Debit selects the side
	VoucherID   uuid.UUID
	Description string
	Deleted     bool
	CreatedAt   time.Time
}

// Signed returns the item's amount signed by the given normal balance
// side: positive when the item increases the account, negative when it
// decreases it.
func (li LineItem) Signed(side BalanceSide) decimal.Decimal {
	if (side == SideDebit) == li.Debit {
		return li.Amount
	}
	return li.Amount.Neg()
}

// Voucher is a journal entry: a dated set of two or more line items.
// A balanced voucher has equal debit and credit totals; balance is
// enforced at entry, but downstream aggregation still checks it.
type Voucher struct {
	ID        uuid.UUID
	No        string // human-facing number like "2025-01-001"
	ScopeID   uuid.UUID
	Date      time.Time
	Note      string
	LineItems []LineItem
}

// Totals returns the voucher's debit and credit sums.
func (v Voucher) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, li := range v.LineItems {
		if li.Debit {
			debit = debit.Add(li.Amount)
		} else {
			credit = credit.Add(li.Amount)
		}
	}
	return debit, credit
}

// Balanced reports whether debits equal credits.
func (v Voucher) Balanced() bool {
	d, c := v.Totals()
	return d.Equal(c)
}
