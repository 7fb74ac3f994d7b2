package model

// ReportSheetType is the statement family an account type belongs to.
type ReportSheetType string

const (
	SheetBalance         ReportSheetType = "balance_sheet"
	SheetIncomeStatement ReportSheetType = "income_statement"
	SheetCashFlow        ReportSheetType = "cash_flow"
)

// sheetForType maps each account type to its owning statement family.
// OTHER belongs to no statement and is absent on purpose.
var sheetForType = map[AccountType]ReportSheetType{
	AccountTypeAsset:     SheetBalance,
	AccountTypeLiability: SheetBalance,
	AccountTypeEquity:    SheetBalance,
	AccountTypeRevenue:   SheetIncomeStatement,
	AccountTypeExpense:   SheetIncomeStatement,
}

// SheetForType returns the statement family owning an account type.
// The second result is false for OTHER and unrecognized types.
func SheetForType(t AccountType) (ReportSheetType, bool) {
	s, ok := sheetForType[t]
	return s, ok
}

// TypesForSheet returns the account types belonging to a statement
// family, in the fixed order statements list them. The order is part of
// the output contract: concatenating per-type results in this order
// keeps report output deterministic.
func TypesForSheet(s ReportSheetType) []AccountType {
	switch s {
	case SheetBalance:
		return []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeEquity}
	case SheetIncomeStatement:
		return []AccountType{AccountTypeRevenue, AccountTypeExpense}
	case SheetCashFlow:
		// Cash flow is derived from movements on every balance sheet
		// and income statement account.
		return []AccountType{
			AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
			AccountTypeRevenue, AccountTypeExpense,
		}
	default:
		return nil
	}
}
