// Package report builds hierarchical, balance-correct financial
// statements from a chart of accounts and its line items.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fintab-dev/fintab/internal/aggregate"
	"github.com/fintab-dev/fintab/internal/forest"
	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
	"github.com/fintab-dev/fintab/internal/retriever"
)

// Params configures one statement generation. Dates are inclusive at
// second granularity.
type Params struct {
	ScopeID        uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	Sheet          model.ReportSheetType
	IncludeDeleted bool // include voided line items
}

func (p Params) validate() error {
	if p.StartDate.After(p.EndDate) {
		return ValidationError{Field: "date range", Reason: "start date is after end date"}
	}
	if len(model.TypesForSheet(p.Sheet)) == 0 {
		return ValidationError{Field: "sheet", Reason: "no account types map to sheet " + string(p.Sheet)}
	}
	return nil
}

// Report is a fully rolled-up statement tree.
type Report struct {
	Sheet         model.ReportSheetType
	ScopeID       uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Roots         []*forest.Node
	Total         decimal.Decimal // sum of root subtree amounts
	LargestDebit  aggregate.Summary
	LargestCredit aggregate.Summary
	Anomalies     []aggregate.Anomaly
}

// Row is one flattened statement line. Balances are subtree-level, so
// a parent row already includes its children.
type Row struct {
	Account          model.Account
	BeginningBalance decimal.Decimal
	PeriodMovement   decimal.Decimal
	EndingBalance    decimal.Decimal
}

// RowsResult pairs flattened rows with the anomalies found while
// building them. Orphan amounts are excluded from the rows but
// counted here, same as in the tree output.
type RowsResult struct {
	Sheet     model.ReportSheetType
	ScopeID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Rows      []Row
	Anomalies []aggregate.Anomaly
}

// Statement is implemented by every concrete statement generator.
type Statement interface {
	// Tree builds the statement as a forest with subtree rollup.
	Tree(ctx context.Context) (*Report, error)
	// Rows builds the statement as flattened ordered rows with
	// beginning/movement/ending balances.
	Rows(ctx context.Context) (*RowsResult, error)
}

type generator struct {
	accounts ledger.AccountRepository
	items    ledger.LineItemRepository
	params   Params
	types    []model.AccountType // fixed fetch and concatenation order
}

func newGenerator(accounts ledger.AccountRepository, items ledger.LineItemRepository, p Params, sheet model.ReportSheetType) (*generator, error) {
	p.Sheet = sheet
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &generator{
		accounts: accounts,
		items:    items,
		params:   p,
		types:    model.TypesForSheet(sheet),
	}, nil
}

// BalanceSheet builds a balance sheet generator over asset, liability
// and equity accounts.
func BalanceSheet(accounts ledger.AccountRepository, items ledger.LineItemRepository, p Params) (Statement, error) {
	return newGenerator(accounts, items, p, model.SheetBalance)
}

// IncomeStatement builds an income statement generator over revenue
// and expense accounts.
func IncomeStatement(accounts ledger.AccountRepository, items ledger.LineItemRepository, p Params) (Statement, error) {
	return newGenerator(accounts, items, p, model.SheetIncomeStatement)
}

// CashFlow builds a cash flow generator over movements on every
// statement account.
func CashFlow(accounts ledger.AccountRepository, items ledger.LineItemRepository, p Params) (Statement, error) {
	return newGenerator(accounts, items, p, model.SheetCashFlow)
}

// fetchAccountForest fetches accounts per type concurrently, builds one
// forest per type, and concatenates the forests in the generator's
// fixed type order so output ordering is reproducible regardless of
// fetch completion order.
func (g *generator) fetchAccountForest(ctx context.Context) ([]*forest.Node, error) {
	perType := make([][]model.Account, len(g.types))
	eg, ctx := errgroup.WithContext(ctx)
	for i, t := range g.types {
		i, t := i, t
		eg.Go(func() error {
			accts, err := g.fetchAllAccounts(ctx, t)
			if err != nil {
				return err
			}
			perType[i] = accts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var roots []*forest.Node
	for _, accts := range perType {
		roots = append(roots, forest.Build(accts)...)
	}
	return roots, nil
}

// fetchAllAccounts drains every page of one type's accounts through
// the type-specific retriever.
func (g *generator) fetchAllAccounts(ctx context.Context, t model.AccountType) ([]model.Account, error) {
	r := retriever.ForType(g.accounts, t)
	var all []model.Account
	for page := 1; ; page++ {
		res, err := r.GetAccounts(ctx, g.params.ScopeID, ledger.AccountQuery{
			IncludeDefault: true,
			Page:           page,
			PageSize:       200,
			SortBy:         ledger.SortByCode,
		})
		if err != nil {
			return nil, RepositoryError{Op: "find accounts (" + string(t) + ")", Err: err}
		}
		all = append(all, res.Data...)
		if !res.HasNextPage {
			return all, nil
		}
	}
}

// fetchLineItems fetches the window's line items per type concurrently
// and concatenates them in type order.
func (g *generator) fetchLineItems(ctx context.Context, start, end time.Time) ([]model.LineItem, error) {
	perType := make([][]model.LineItem, len(g.types))
	eg, ctx := errgroup.WithContext(ctx)
	for i, t := range g.types {
		i, t := i, t
		eg.Go(func() error {
			items, err := g.items.FindLineItems(ctx, g.params.ScopeID, t, start, end, g.params.IncludeDeleted)
			if err != nil {
				return RepositoryError{Op: "find line items (" + string(t) + ")", Err: err}
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

// Tree implements Statement.
func (g *generator) Tree(ctx context.Context) (*Report, error) {
	var (
		roots []*forest.Node
		items []model.LineItem
	)
	eg, fctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		roots, err = g.fetchAccountForest(fctx)
		return err
	})
	eg.Go(func() error {
		var err error
		items, err = g.fetchLineItems(fctx, g.params.StartDate, g.params.EndDate)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	agg := aggregate.New()
	agg.AddAll(items)

	// Voucher balance is not checked here: a statement fetches only its
	// own families' legs, so a voucher spanning statements would always
	// look unbalanced. The trial balance checks it over the full set.
	idx := forest.Index(roots)
	anomalies := applyOwnAmounts(idx, items, agg)
	rollup(roots)

	total := decimal.Zero
	for _, r := range roots {
		total = total.Add(r.SubtreeAmount)
	}

	largestDebit, largestCredit := agg.Largest()
	return &Report{
		Sheet:         g.params.Sheet,
		ScopeID:       g.params.ScopeID,
		StartDate:     g.params.StartDate,
		EndDate:       g.params.EndDate,
		Roots:         roots,
		Total:         total,
		LargestDebit:  largestDebit,
		LargestCredit: largestCredit,
		Anomalies:     anomalies,
	}, nil
}

// Rows implements Statement. The beginning window is everything
// strictly before the period start; ending is beginning plus the
// period's movement. Line items on accounts outside the forest are
// excluded from every balance and reported as anomalies, once per
// window they appear in.
func (g *generator) Rows(ctx context.Context) (*RowsResult, error) {
	roots, err := g.fetchAccountForest(ctx)
	if err != nil {
		return nil, err
	}

	var beginning, movement []model.LineItem
	eg, fctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		beginning, err = g.fetchLineItems(fctx, time.Time{}, g.params.StartDate.Add(-time.Second))
		return err
	})
	eg.Go(func() error {
		var err error
		movement, err = g.fetchLineItems(fctx, g.params.StartDate, g.params.EndDate)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	idx := forest.Index(roots)

	beginAgg := aggregate.New()
	beginAgg.AddAll(beginning)
	anomalies := applyOwnAmounts(idx, beginning, beginAgg)
	rollup(roots)
	beginBySubtree := snapshotSubtrees(roots)

	resetAmounts(roots)
	moveAgg := aggregate.New()
	moveAgg.AddAll(movement)
	anomalies = append(anomalies, applyOwnAmounts(idx, movement, moveAgg)...)
	rollup(roots)

	var rows []Row
	flatten(roots, func(n *forest.Node) {
		begin := beginBySubtree[n.Account.ID]
		rows = append(rows, Row{
			Account:          n.Account,
			BeginningBalance: begin,
			PeriodMovement:   n.SubtreeAmount,
			EndingBalance:    begin.Add(n.SubtreeAmount),
		})
	})
	return &RowsResult{
		Sheet:     g.params.Sheet,
		ScopeID:   g.params.ScopeID,
		StartDate: g.params.StartDate,
		EndDate:   g.params.EndDate,
		Rows:      rows,
		Anomalies: anomalies,
	}, nil
}

// applyOwnAmounts writes each account's signed net onto its node and
// returns one anomaly per account that received line items but is
// absent from the forest. Anomaly amounts are signed by the item's own
// account type, so the closure property holds:
// sum(anomalies) + sum(own amounts) == sum(signed input).
func applyOwnAmounts(idx map[int64]*forest.Node, items []model.LineItem, agg *aggregate.Aggregator) []aggregate.Anomaly {
	for id, n := range idx {
		n.OwnAmount = agg.Totals(id).Net(n.Account.Type.NormalBalance())
	}

	orphanNet := make(map[int64]decimal.Decimal)
	for _, li := range items {
		if _, ok := idx[li.AccountID]; ok {
			continue
		}
		net, ok := orphanNet[li.AccountID]
		if !ok {
			net = decimal.Zero
		}
		orphanNet[li.AccountID] = net.Add(li.Signed(li.AccountType.NormalBalance()))
	}

	orphanIDs := make([]int64, 0, len(orphanNet))
	for id := range orphanNet {
		orphanIDs = append(orphanIDs, id)
	}
	sort.Slice(orphanIDs, func(i, j int) bool { return orphanIDs[i] < orphanIDs[j] })

	var anomalies []aggregate.Anomaly
	for _, id := range orphanIDs {
		anomalies = append(anomalies, aggregate.Anomaly{
			Kind:      aggregate.AnomalyOrphanLineItem,
			AccountID: id,
			Amount:    orphanNet[id],
			Detail:    "line items reference an account outside the fetched forest",
		})
	}
	return anomalies
}

// rollup populates SubtreeAmount bottom-up: children before parents.
func rollup(roots []*forest.Node) {
	forest.Walk(roots, func(n *forest.Node) {
		sum := n.OwnAmount
		for _, c := range n.Children {
			sum = sum.Add(c.SubtreeAmount)
		}
		n.SubtreeAmount = sum
	})
}

func resetAmounts(roots []*forest.Node) {
	forest.Walk(roots, func(n *forest.Node) {
		n.OwnAmount = decimal.Zero
		n.SubtreeAmount = decimal.Zero
	})
}

func snapshotSubtrees(roots []*forest.Node) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	forest.Walk(roots, func(n *forest.Node) {
		out[n.Account.ID] = n.SubtreeAmount
	})
	return out
}

// flatten visits the forest pre-order, parents before children, in
// display order.
func flatten(roots []*forest.Node, visit func(*forest.Node)) {
	var walk func(*forest.Node)
	walk = func(n *forest.Node) {
		visit(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}
