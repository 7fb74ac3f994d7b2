// Package ledger defines the repository contracts the aggregation engine
// is built against. Implementations live elsewhere (internal/store for
// SQLite); the engine only ever sees these interfaces.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fintab-dev/fintab/internal/model"
)

// SortField selects the column accounts are ordered by.
type SortField string

const (
	SortByCode      SortField = "code"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Pagination defaults applied by AccountQuery.Normalize.
const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// AccountQuery carries every filter the retriever family supports.
// Zero values mean "no restriction" except where noted.
type AccountQuery struct {
	IncludeDefault bool // include accounts installed by the default chart
	Liquidity      *bool
	Type           *model.AccountType
	SheetType      *model.ReportSheetType
	EquityType     *model.EquityType
	ForUser        *bool
	SearchKey      string
	IncludeDeleted bool
	Page           int
	PageSize       int
	SortBy         SortField
	SortOrder      SortOrder
}

// Normalize clamps pagination to sane defaults and fills in the default
// sort. Non-positive page/limit are never an error.
func (q AccountQuery) Normalize() AccountQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = SortByCode
	}
	if q.SortOrder == "" {
		q.SortOrder = OrderAsc
	}
	return q
}

// AccountRepository supplies flat account records for a ledger scope.
type AccountRepository interface {
	FindAccounts(ctx context.Context, scopeID uuid.UUID, q AccountQuery) (Page[model.Account], error)
}

// LineItemRepository supplies line items for a ledger scope, restricted
// to one account type and a date window. The zero time for start means
// "from the beginning of the book". Live items are always returned;
// includeDeleted unions voided items into the result.
type LineItemRepository interface {
	FindLineItems(ctx context.Context, scopeID uuid.UUID, accountType model.AccountType, start, end time.Time, includeDeleted bool) ([]model.LineItem, error)
}
