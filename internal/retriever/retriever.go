// Package retriever filters and paginates chart-of-accounts fetches per
// account type and statement family. The variants are tagged filter
// configurations interpreted by one GetAccounts, not a class hierarchy.
package retriever

import (
	"context"

	"github.com/google/uuid"

	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
)

// Retriever restricts account fetches to a set of allowed types.
type Retriever struct {
	name string
	// allowed is nil for the general retriever (no type restriction).
	allowed []model.AccountType
	// single is set when the retriever pins exactly one type; liquidity
	// and equity-type sub-filters from the query only apply then.
	single *model.AccountType
	repo   ledger.AccountRepository
}

// Name identifies the variant, mostly for logs and tests.
func (r *Retriever) Name() string { return r.name }

func single(repo ledger.AccountRepository, name string, t model.AccountType) *Retriever {
	return &Retriever{
		name:    name,
		allowed: []model.AccountType{t},
		single:  &t,
		repo:    repo,
	}
}

// General places no type restriction on the fetch.
func General(repo ledger.AccountRepository) *Retriever {
	return &Retriever{name: "general", repo: repo}
}

// BalanceSheet restricts to asset, liability and equity accounts.
func BalanceSheet(repo ledger.AccountRepository) *Retriever {
	return &Retriever{
		name:    "balance-sheet",
		allowed: model.TypesForSheet(model.SheetBalance),
		repo:    repo,
	}
}

// Asset restricts to asset accounts; the query's liquidity sub-filter
// applies.
func Asset(repo ledger.AccountRepository) *Retriever {
	return single(repo, "asset", model.AccountTypeAsset)
}

// Liability restricts to liability accounts.
func Liability(repo ledger.AccountRepository) *Retriever {
	return single(repo, "liability", model.AccountTypeLiability)
}

// Equity restricts to equity accounts; the query's equity-type
// sub-filter applies.
func Equity(repo ledger.AccountRepository) *Retriever {
	return single(repo, "equity", model.AccountTypeEquity)
}

// IncomeStatement restricts to revenue and expense accounts.
func IncomeStatement(repo ledger.AccountRepository) *Retriever {
	return &Retriever{
		name:    "income-statement",
		allowed: model.TypesForSheet(model.SheetIncomeStatement),
		repo:    repo,
	}
}

// ForType dispatches to the most specific retriever for an account
// type: the single-type variant for balance sheet types, the
// income-statement variant for revenue/expense, and the general
// retriever for everything else (including OTHER). Dispatch never
// fails.
func ForType(repo ledger.AccountRepository, t model.AccountType) *Retriever {
	sheet, ok := model.SheetForType(t)
	if !ok {
		return General(repo)
	}
	switch sheet {
	case model.SheetBalance:
		switch t {
		case model.AccountTypeAsset:
			return Asset(repo)
		case model.AccountTypeLiability:
			return Liability(repo)
		case model.AccountTypeEquity:
			return Equity(repo)
		}
		return BalanceSheet(repo)
	case model.SheetIncomeStatement:
		return IncomeStatement(repo)
	default:
		return General(repo)
	}
}

// GetAccounts applies the variant's restriction to the query, then
// delegates to the repository. Pagination is clamped, never rejected.
func (r *Retriever) GetAccounts(ctx context.Context, scopeID uuid.UUID, q ledger.AccountQuery) (ledger.Page[model.Account], error) {
	q = q.Normalize()

	switch {
	case r.single != nil:
		q.Type = r.single
	case len(r.allowed) > 0:
		// Multi-type variants ignore a caller-supplied type unless it
		// falls inside the allowed set.
		if q.Type == nil || !r.allows(*q.Type) {
			q.Type = nil
			sheet := sheetOf(r.allowed)
			q.SheetType = &sheet
		}
	}
	if r.single == nil && len(r.allowed) > 0 {
		// Liquidity and equity sub-filters only make sense when the
		// fetch is pinned to one type; the general retriever passes
		// the query through untouched.
		q.Liquidity = nil
		q.EquityType = nil
	}

	return r.repo.FindAccounts(ctx, scopeID, q)
}

func (r *Retriever) allows(t model.AccountType) bool {
	for _, a := range r.allowed {
		if a == t {
			return true
		}
	}
	return false
}

func sheetOf(types []model.AccountType) model.ReportSheetType {
	if len(types) == 0 {
		return ""
	}
	s, _ := model.SheetForType(types[0])
	return s
}
