package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/fintab-dev/fintab/internal/model"
)

// seedAccount pairs a default account with its parent's code.
type seedAccount struct {
	account model.Account
	parent  string
}

// SeedDefaultChart installs the default chart of accounts for a new
// ledger scope. These are the rows the includeDefaultAccount filter
// toggles.
func (s *Store) SeedDefaultChart(ctx context.Context, scopeID uuid.UUID) error {
	seeds := defaultChart()
	accounts := make([]model.Account, len(seeds))
	parents := make(map[string]string, len(seeds))
	for i, sa := range seeds {
		sa.account.IsDefault = true
		accounts[i] = sa.account
		parents[sa.account.Code] = sa.parent
	}
	return s.CreateAccounts(ctx, scopeID, accounts, parents)
}

func defaultChart() []seedAccount {
	acct := func(code, name string, t model.AccountType) model.Account {
		return model.Account{Code: code, Name: name, Type: t, ForUser: true}
	}
	liquid := func(code, name string) model.Account {
		a := acct(code, name, model.AccountTypeAsset)
		a.Liquidity = true
		return a
	}
	equity := func(code, name string, et model.EquityType) model.Account {
		a := acct(code, name, model.AccountTypeEquity)
		a.EquityType = et
		return a
	}

	group := func(code, name string, t model.AccountType) model.Account {
		a := acct(code, name, t)
		a.ForUser = false // grouping headers are not keyed directly
		return a
	}

	return []seedAccount{
		{account: group("1000", "Current Assets", model.AccountTypeAsset)},
		{account: liquid("1010", "Cash on Hand"), parent: "1000"},
		{account: liquid("1020", "Business Checking"), parent: "1000"},
		{account: liquid("1030", "Business Savings"), parent: "1000"},
		{account: acct("1100", "Accounts Receivable", model.AccountTypeAsset), parent: "1000"},
		{account: group("1500", "Fixed Assets", model.AccountTypeAsset)},
		{account: acct("1510", "Equipment", model.AccountTypeAsset), parent: "1500"},
		{account: acct("1520", "Accumulated Depreciation", model.AccountTypeAsset), parent: "1500"},

		{account: group("2000", "Current Liabilities", model.AccountTypeLiability)},
		{account: acct("2010", "Accounts Payable", model.AccountTypeLiability), parent: "2000"},
		{account: acct("2020", "Credit Card", model.AccountTypeLiability), parent: "2000"},
		{account: acct("2100", "Taxes Payable", model.AccountTypeLiability), parent: "2000"},
		{account: group("2500", "Long-Term Liabilities", model.AccountTypeLiability)},
		{account: acct("2510", "Loans Payable", model.AccountTypeLiability), parent: "2500"},

		{account: group("3000", "Equity", model.AccountTypeEquity)},
		{account: equity("3010", "Owner's Capital", model.EquityTypeContributed), parent: "3000"},
		{account: equity("3020", "Retained Earnings", model.EquityTypeRetained), parent: "3000"},

		{account: group("4000", "Revenue", model.AccountTypeRevenue)},
		{account: acct("4010", "Service Revenue", model.AccountTypeRevenue), parent: "4000"},
		{account: acct("4020", "Product Revenue", model.AccountTypeRevenue), parent: "4000"},

		{account: group("5000", "Operating Expenses", model.AccountTypeExpense)},
		{account: acct("5010", "Advertising & Marketing", model.AccountTypeExpense), parent: "5000"},
		{account: acct("5020", "Software & SaaS", model.AccountTypeExpense), parent: "5000"},
		{account: acct("5030", "Office Supplies", model.AccountTypeExpense), parent: "5000"},
		{account: acct("5040", "Professional Services", model.AccountTypeExpense), parent: "5000"},
		{account: acct("5050", "Rent", model.AccountTypeExpense), parent: "5000"},
	}
}
