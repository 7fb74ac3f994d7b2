package aggregate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintab-dev/fintab/internal/model"
)

// AnomalyKind names a class of data-integrity problem found during
// aggregation.
type AnomalyKind string

const (
	// AnomalyOrphanLineItem marks a line item whose account is absent
	// from the fetched forest. Its amount is excluded from rollup but
	// counted here, so nothing disappears silently.
	AnomalyOrphanLineItem AnomalyKind = "orphan_line_item"
	// AnomalyUnbalancedVoucher marks a voucher whose debit and credit
	// totals disagree.
	AnomalyUnbalancedVoucher AnomalyKind = "unbalanced_voucher"
	// AnomalyClosureMismatch marks a trial-balance window whose
	// unfiltered debit and credit totals disagree.
	AnomalyClosureMismatch AnomalyKind = "closure_mismatch"
)

// Anomaly is one non-fatal integrity finding. Computation completes
// around anomalies; they are returned alongside the result.
type Anomaly struct {
	Kind      AnomalyKind
	AccountID int64
	VoucherID uuid.UUID
	Amount    decimal.Decimal
	Detail    string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s (amount %s)", a.Kind, a.Detail, a.Amount.StringFixed(2))
}

// CheckVouchers groups line items by voucher and reports an anomaly for
// every voucher whose debits and credits disagree. The anomaly amount
// is the imbalance (debits minus credits).
func CheckVouchers(items []model.LineItem) []Anomaly {
	type balance struct {
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	balances := make(map[uuid.UUID]*balance)
	var order []uuid.UUID
	for _, li := range items {
		b, ok := balances[li.VoucherID]
		if !ok {
			b = &balance{debit: decimal.Zero, credit: decimal.Zero}
			balances[li.VoucherID] = b
			order = append(order, li.VoucherID)
		}
		if li.Debit {
			b.debit = b.debit.Add(li.Amount)
		} else {
			b.credit = b.credit.Add(li.Amount)
		}
	}

	var anomalies []Anomaly
	for _, id := range order {
		b := balances[id]
		if b.debit.Equal(b.credit) {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Kind:      AnomalyUnbalancedVoucher,
			VoucherID: id,
			Amount:    b.debit.Sub(b.credit),
			Detail: fmt.Sprintf("voucher %s: debits (%s) != credits (%s)",
				id, b.debit.StringFixed(2), b.credit.StringFixed(2)),
		})
	}
	return anomalies
}
