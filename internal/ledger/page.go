package ledger

// Sort describes one ordering applied to a page of results.
type Sort struct {
	SortBy    SortField `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// Page is the paginated envelope shared by every retriever variant.
type Page[T any] struct {
	Data            []T    `json:"data"`
	Page            int    `json:"page"`
	TotalPages      int    `json:"totalPages"`
	TotalCount      int64  `json:"totalCount"`
	PageSize        int    `json:"pageSize"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	Sort            []Sort `json:"sort"`
}

// NewPage assembles an envelope from one page of data and the total
// row count, deriving page counts and next/previous flags.
func NewPage[T any](data []T, page, pageSize int, totalCount int64, sorts ...Sort) Page[T] {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize != 0 {
		totalPages++
	}
	return Page[T]{
		Data:            data,
		Page:            page,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		PageSize:        pageSize,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && totalCount > 0,
		Sort:            sorts,
	}
}
