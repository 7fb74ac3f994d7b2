package model

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeOther     AccountType = "other"
)

// BalanceSide is the side on which an account type naturally increases.
type BalanceSide string

const (
	SideDebit  BalanceSide = "debit"
	SideCredit BalanceSide = "credit"
)

// NormalBalance returns the normal balance side for an account type.
// Asset and expense accounts grow on the debit side; liability, equity
// and revenue accounts grow on the credit side. Unknown types default
// to debit-normal.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue:
		return SideCredit
	default:
		return SideDebit
	}
}

// EquityType sub-classifies equity accounts.
type EquityType string

const (
	EquityTypeContributed EquityType = "contributed"
	EquityTypeRetained    EquityType = "retained"
)

// Account represents one entry in a ledger scope's chart of accounts.
type Account struct {
	ID         int64
	Code       string
	Name       string
	ParentID   int64 // 0 = top-level
	Type       AccountType
	Liquidity  bool // cash-equivalent; meaningful for assets only
	EquityType EquityType
	IsDefault  bool // installed by the default chart, not created by a user
	ForUser    bool // selectable when keying vouchers by hand
	Deleted    bool
	CreatedAt  time.Time
}
