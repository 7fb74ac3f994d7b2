package report

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintab-dev/fintab/internal/aggregate"
	"github.com/fintab-dev/fintab/internal/forest"
	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memRepo is an in-memory implementation of both repository contracts.
type memRepo struct {
	accounts []model.Account
	items    []model.LineItem
	accErr   error
	itemErr  error
}

func (m *memRepo) FindAccounts(_ context.Context, _ uuid.UUID, q ledger.AccountQuery) (ledger.Page[model.Account], error) {
	if m.accErr != nil {
		return ledger.Page[model.Account]{}, m.accErr
	}
	q = q.Normalize()

	var matched []model.Account
	for _, a := range m.accounts {
		if q.Type != nil && a.Type != *q.Type {
			continue
		}
		if q.SheetType != nil {
			s, ok := model.SheetForType(a.Type)
			if !ok || s != *q.SheetType {
				continue
			}
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return ledger.NewPage(matched[start:end], q.Page, q.PageSize, int64(len(matched))), nil
}

func (m *memRepo) FindLineItems(_ context.Context, _ uuid.UUID, t model.AccountType, start, end time.Time, _ bool) ([]model.LineItem, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	var out []model.LineItem
	for _, li := range m.items {
		if li.AccountType != t {
			continue
		}
		if !start.IsZero() && li.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && li.CreatedAt.After(end) {
			continue
		}
		out = append(out, li)
	}
	return out, nil
}

func li(account int64, t model.AccountType, debit bool, amount string, on time.Time) model.LineItem {
	return model.LineItem{
		AccountID:   account,
		AccountType: t,
		Debit:       debit,
		Amount:      dec(amount),
		VoucherID:   uuid.Nil, // single "voucher" keeps CheckVouchers quiet in balanced fixtures
		CreatedAt:   on,
	}
}

func balanceSheetFixture() *memRepo {
	return &memRepo{
		accounts: []model.Account{
			{ID: 1, Code: "1000", Name: "Current Assets", Type: model.AccountTypeAsset},
			{ID: 2, Code: "1010", Name: "Cash", ParentID: 1, Type: model.AccountTypeAsset, Liquidity: true},
			{ID: 3, Code: "1020", Name: "Bank", ParentID: 1, Type: model.AccountTypeAsset, Liquidity: true},
			{ID: 4, Code: "2000", Name: "Liabilities", Type: model.AccountTypeLiability},
			{ID: 5, Code: "2010", Name: "Payable", ParentID: 4, Type: model.AccountTypeLiability},
			{ID: 6, Code: "3000", Name: "Equity", Type: model.AccountTypeEquity},
		},
		items: []model.LineItem{
			li(2, model.AccountTypeAsset, true, "100.00", date(2025, 3, 10)),
			li(2, model.AccountTypeAsset, false, "30.00", date(2025, 3, 11)),
			li(3, model.AccountTypeAsset, true, "50.00", date(2025, 3, 12)),
			li(5, model.AccountTypeLiability, false, "80.00", date(2025, 3, 12)),
			li(6, model.AccountTypeEquity, false, "40.00", date(2025, 3, 13)),
		},
	}
}

func params() Params {
	return Params{
		ScopeID:   uuid.New(),
		StartDate: date(2025, 3, 1),
		EndDate:   date(2025, 3, 31),
	}
}

func TestBalanceSheet_TreeRollup(t *testing.T) {
	repo := balanceSheetFixture()
	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)

	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Anomalies)

	idx := forest.Index(res.Roots)

	// Debit-normal cash account: 100 debit - 30 credit = 70.
	assert.True(t, idx[2].OwnAmount.Equal(dec("70.00")), "cash own amount, got %s", idx[2].OwnAmount)
	// Parent holds no items of its own; subtree is its children.
	assert.True(t, idx[1].OwnAmount.IsZero())
	assert.True(t, idx[1].SubtreeAmount.Equal(dec("120.00")), "current assets subtree, got %s", idx[1].SubtreeAmount)
	// Credit-normal liability: 80 credit.
	assert.True(t, idx[5].SubtreeAmount.Equal(dec("80.00")))

	// Invariant: subtree == own + sum(children subtrees), everywhere.
	forest.Walk(res.Roots, func(n *forest.Node) {
		sum := n.OwnAmount
		for _, c := range n.Children {
			sum = sum.Add(c.SubtreeAmount)
		}
		assert.True(t, n.SubtreeAmount.Equal(sum), "node %s", n.Account.Code)
	})

	// Invariant: no amount lost between own amounts and root subtrees.
	ownSum, rootSum := decimal.Zero, decimal.Zero
	forest.Walk(res.Roots, func(n *forest.Node) { ownSum = ownSum.Add(n.OwnAmount) })
	for _, r := range res.Roots {
		rootSum = rootSum.Add(r.SubtreeAmount)
	}
	assert.True(t, ownSum.Equal(rootSum))
	assert.True(t, res.Total.Equal(rootSum))
}

func TestTree_TypeOrderDeterministic(t *testing.T) {
	repo := balanceSheetFixture()
	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)

	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	var rootTypes []model.AccountType
	for _, r := range res.Roots {
		rootTypes = append(rootTypes, r.Account.Type)
	}
	assert.Equal(t, []model.AccountType{
		model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
	}, rootTypes)
}

func TestTree_Idempotent(t *testing.T) {
	repo := balanceSheetFixture()
	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)

	first, err := stmt.Tree(context.Background())
	require.NoError(t, err)
	second, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Serialize(first.Roots), Serialize(second.Roots))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestTree_OrphanClosure(t *testing.T) {
	repo := balanceSheetFixture()
	// Account 999 is not in the chart; its net must surface as an
	// anomaly, not vanish.
	repo.items = append(repo.items,
		li(999, model.AccountTypeAsset, true, "25.00", date(2025, 3, 14)),
		li(999, model.AccountTypeAsset, false, "5.00", date(2025, 3, 14)),
	)

	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	var orphans []aggregate.Anomaly
	for _, a := range res.Anomalies {
		if a.Kind == aggregate.AnomalyOrphanLineItem {
			orphans = append(orphans, a)
		}
	}
	require.Len(t, orphans, 1)
	assert.Equal(t, int64(999), orphans[0].AccountID)
	assert.True(t, orphans[0].Amount.Equal(dec("20.00")))

	// Closure: signed input == rolled-up own amounts + anomaly amounts.
	signedInput := decimal.Zero
	for _, item := range repo.items {
		signedInput = signedInput.Add(item.Signed(item.AccountType.NormalBalance()))
	}
	rolled := decimal.Zero
	forest.Walk(res.Roots, func(n *forest.Node) { rolled = rolled.Add(n.OwnAmount) })
	for _, a := range orphans {
		rolled = rolled.Add(a.Amount)
	}
	assert.True(t, signedInput.Equal(rolled))
}

func TestTree_CrossStatementVoucherNotFlagged(t *testing.T) {
	repo := balanceSheetFixture()
	// A voucher with one asset leg and one revenue leg: the balance
	// sheet only fetches the asset side, which must not be mistaken
	// for an unbalanced voucher.
	vid := uuid.New()
	repo.items = append(repo.items,
		model.LineItem{AccountID: 2, AccountType: model.AccountTypeAsset,
			Debit: true, Amount: dec("13.00"), VoucherID: vid, CreatedAt: date(2025, 3, 20)},
		model.LineItem{AccountID: 50, AccountType: model.AccountTypeRevenue,
			Debit: false, Amount: dec("13.00"), VoucherID: vid, CreatedAt: date(2025, 3, 20)},
	)

	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	for _, a := range res.Anomalies {
		assert.NotEqual(t, aggregate.AnomalyUnbalancedVoucher, a.Kind)
	}
}

func TestParams_StartAfterEnd(t *testing.T) {
	repo := balanceSheetFixture()
	p := params()
	p.StartDate, p.EndDate = p.EndDate, p.StartDate

	_, err := BalanceSheet(repo, repo, p)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestTree_RepositoryFailureIsFatal(t *testing.T) {
	repo := balanceSheetFixture()
	repo.accErr = errors.New("connection refused")

	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)

	res, err := stmt.Tree(context.Background())
	assert.Nil(t, res, "no partial statement")
	var rerr RepositoryError
	require.ErrorAs(t, err, &rerr)
}

func TestRows_BeginningMovementEnding(t *testing.T) {
	repo := balanceSheetFixture()
	// One pre-period deposit on cash.
	repo.items = append(repo.items,
		li(2, model.AccountTypeAsset, true, "500.00", date(2025, 1, 15)),
	)

	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Rows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Anomalies)

	byCode := make(map[string]Row)
	for _, r := range res.Rows {
		byCode[r.Account.Code] = r
	}

	cash := byCode["1010"]
	assert.True(t, cash.BeginningBalance.Equal(dec("500.00")), "beginning, got %s", cash.BeginningBalance)
	assert.True(t, cash.PeriodMovement.Equal(dec("70.00")), "movement, got %s", cash.PeriodMovement)
	assert.True(t, cash.EndingBalance.Equal(dec("570.00")), "ending, got %s", cash.EndingBalance)

	// Parent rows are subtree-inclusive.
	parent := byCode["1000"]
	assert.True(t, parent.EndingBalance.Equal(dec("620.00")), "parent ending, got %s", parent.EndingBalance)

	// Rows come out parents-first in display order.
	assert.Equal(t, "1000", res.Rows[0].Account.Code)
}

func TestRows_OrphanClosure(t *testing.T) {
	repo := balanceSheetFixture()
	// Account 999 is not in the chart; its net must surface as an
	// anomaly on the rows path too, not vanish.
	repo.items = append(repo.items,
		li(999, model.AccountTypeAsset, true, "25.00", date(2025, 3, 14)),
		li(999, model.AccountTypeAsset, false, "5.00", date(2025, 3, 14)),
	)

	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Rows(context.Background())
	require.NoError(t, err)

	var orphans []aggregate.Anomaly
	for _, a := range res.Anomalies {
		if a.Kind == aggregate.AnomalyOrphanLineItem {
			orphans = append(orphans, a)
		}
	}
	require.Len(t, orphans, 1)
	assert.Equal(t, int64(999), orphans[0].AccountID)
	assert.True(t, orphans[0].Amount.Equal(dec("20.00")))

	// Closure: signed input == root ending balances + anomaly amounts.
	// Root rows already include their subtrees.
	signedInput := decimal.Zero
	for _, item := range repo.items {
		signedInput = signedInput.Add(item.Signed(item.AccountType.NormalBalance()))
	}
	accounted := decimal.Zero
	for _, r := range res.Rows {
		if r.Account.ParentID == 0 {
			accounted = accounted.Add(r.EndingBalance)
		}
	}
	for _, a := range orphans {
		accounted = accounted.Add(a.Amount)
	}
	assert.True(t, signedInput.Equal(accounted), "input %s, accounted %s", signedInput, accounted)
}

func TestIncomeStatement_TypeSet(t *testing.T) {
	repo := &memRepo{
		accounts: []model.Account{
			{ID: 1, Code: "4010", Name: "Service Revenue", Type: model.AccountTypeRevenue},
			{ID: 2, Code: "5010", Name: "Rent", Type: model.AccountTypeExpense},
			{ID: 3, Code: "1010", Name: "Cash", Type: model.AccountTypeAsset},
		},
		items: []model.LineItem{
			li(1, model.AccountTypeRevenue, false, "200.00", date(2025, 3, 5)),
			li(2, model.AccountTypeExpense, true, "120.00", date(2025, 3, 6)),
			li(3, model.AccountTypeAsset, true, "80.00", date(2025, 3, 6)),
		},
	}

	stmt, err := IncomeStatement(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Roots, 2)
	assert.Equal(t, model.AccountTypeRevenue, res.Roots[0].Account.Type)
	assert.Equal(t, model.AccountTypeExpense, res.Roots[1].Account.Type)
	// Revenue 200 (credit-normal) + expense 120 (debit-normal).
	assert.True(t, res.Total.Equal(dec("320.00")))
}

func TestTree_LargestSummaries(t *testing.T) {
	repo := balanceSheetFixture()
	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)

	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	assert.True(t, res.LargestDebit.Amount.Equal(dec("100.00")))
	assert.True(t, res.LargestCredit.Amount.Equal(dec("80.00")))
}

func TestSerialize_ChildrenNeverNull(t *testing.T) {
	repo := balanceSheetFixture()
	stmt, err := BalanceSheet(repo, repo, params())
	require.NoError(t, err)
	res, err := stmt.Tree(context.Background())
	require.NoError(t, err)

	nodes := Serialize(res.Roots)
	require.NotEmpty(t, nodes)
	var check func(n TreeNode)
	check = func(n TreeNode) {
		require.NotNil(t, n.Children)
		for _, c := range n.Children {
			check(c)
		}
	}
	for _, n := range nodes {
		check(n)
	}
}
