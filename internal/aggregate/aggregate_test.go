package aggregate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintab-dev/fintab/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(accountID int64, debit bool, amount, desc string) model.LineItem {
	return model.LineItem{
		AccountID:   accountID,
		Debit:       debit,
		Amount:      dec(amount),
		Description: desc,
	}
}

func TestAggregator_NetByNormalBalance(t *testing.T) {
	a := New()
	a.Add(item(1, true, "100.00", "purchase"))
	a.Add(item(1, false, "30.00", "refund"))

	totals := a.Totals(1)
	assert.True(t, totals.Net(model.SideDebit).Equal(dec("70.00")), "debit-normal net")
	assert.True(t, totals.Net(model.SideCredit).Equal(dec("-70.00")), "credit-normal net")
}

func TestAggregator_RawSumsAreTypeAgnostic(t *testing.T) {
	a := New()
	a.Add(item(7, true, "10.50", ""))
	a.Add(item(7, true, "4.50", ""))
	a.Add(item(7, false, "3.00", ""))

	totals := a.Totals(7)
	assert.True(t, totals.Debit.Equal(dec("15.00")))
	assert.True(t, totals.Credit.Equal(dec("3.00")))
}

func TestAggregator_LargestFirstSeenWinsOnTie(t *testing.T) {
	a := New()
	a.Add(item(1, true, "50.00", "first"))
	a.Add(item(2, true, "50.00", "second"))
	a.Add(item(3, false, "20.00", "first credit"))
	a.Add(item(4, false, "20.00", "second credit"))

	debit, credit := a.Largest()
	assert.Equal(t, "first", debit.Description)
	assert.Equal(t, int64(1), debit.AccountID)
	assert.Equal(t, "first credit", credit.Description)
}

func TestAggregator_LargerAmountReplaces(t *testing.T) {
	a := New()
	a.Add(item(1, true, "50.00", "small"))
	a.Add(item(2, true, "50.01", "big"))

	debit, _ := a.Largest()
	assert.Equal(t, "big", debit.Description)
}

func TestAggregator_EmptyInputZeroedSummaries(t *testing.T) {
	a := New()

	debit, credit := a.Largest()
	assert.True(t, debit.Amount.IsZero())
	assert.Empty(t, debit.Description)
	assert.True(t, credit.Amount.IsZero())
	assert.Empty(t, credit.Description)

	totals := a.Totals(42)
	assert.True(t, totals.Debit.IsZero())
	assert.True(t, totals.Credit.IsZero())
}

func TestCheckVouchers_Balanced(t *testing.T) {
	vid := uuid.New()
	items := []model.LineItem{
		{VoucherID: vid, Debit: true, Amount: dec("100.00")},
		{VoucherID: vid, Debit: false, Amount: dec("100.00")},
	}
	assert.Empty(t, CheckVouchers(items))
}

func TestCheckVouchers_Unbalanced(t *testing.T) {
	good, bad := uuid.New(), uuid.New()
	items := []model.LineItem{
		{VoucherID: good, Debit: true, Amount: dec("10.00")},
		{VoucherID: good, Debit: false, Amount: dec("10.00")},
		{VoucherID: bad, Debit: true, Amount: dec("100.00")},
		{VoucherID: bad, Debit: false, Amount: dec("99.00")},
	}

	anomalies := CheckVouchers(items)
	require.Len(t, anomalies, 1)
	assert.Equal(t, AnomalyUnbalancedVoucher, anomalies[0].Kind)
	assert.Equal(t, bad, anomalies[0].VoucherID)
	assert.True(t, anomalies[0].Amount.Equal(dec("1.00")))
}
