package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
)

// FindAccounts implements ledger.AccountRepository.
func (s *Store) FindAccounts(ctx context.Context, scopeID uuid.UUID, q ledger.AccountQuery) (ledger.Page[model.Account], error) {
	q = q.Normalize()

	db := s.db.WithContext(ctx).Model(&accountRow{})
	if q.IncludeDeleted {
		db = db.Unscoped()
	}
	db = db.Where("scope_id = ?", scopeID.String())

	if !q.IncludeDefault {
		db = db.Where("is_default = ?", false)
	}
	switch {
	case q.Type != nil:
		db = db.Where("type = ?", string(*q.Type))
	case q.SheetType != nil:
		types := model.TypesForSheet(*q.SheetType)
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		db = db.Where("type IN ?", names)
	}
	if q.Liquidity != nil {
		db = db.Where("liquidity = ?", *q.Liquidity)
	}
	if q.EquityType != nil {
		db = db.Where("equity_type = ?", string(*q.EquityType))
	}
	if q.ForUser != nil {
		db = db.Where("for_user = ?", *q.ForUser)
	}
	if q.SearchKey != "" {
		like := "%" + q.SearchKey + "%"
		db = db.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return ledger.Page[model.Account]{}, fmt.Errorf("counting accounts: %w", err)
	}

	column := "code"
	if q.SortBy == ledger.SortByCreatedAt {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortOrder == ledger.OrderDesc {
		direction = "DESC"
	}

	var rows []accountRow
	err := db.Order(column + " " + direction).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&rows).Error
	if err != nil {
		return ledger.Page[model.Account]{}, fmt.Errorf("finding accounts: %w", err)
	}

	data := make([]model.Account, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.toModel())
	}
	return ledger.NewPage(data, q.Page, q.PageSize, total, ledger.Sort{SortBy: q.SortBy, SortOrder: q.SortOrder}), nil
}

// AccountByCode looks one account up by its code.
func (s *Store) AccountByCode(ctx context.Context, scopeID uuid.UUID, code string) (model.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).
		Where("scope_id = ? AND code = ?", scopeID.String(), code).
		First(&row).Error
	if err != nil {
		return model.Account{}, fmt.Errorf("account %q: %w", code, err)
	}
	return row.toModel(), nil
}

// CreateAccounts inserts accounts, resolving each ParentID from the
// already-inserted rows when the caller supplies parent codes via the
// parentCodes map (account code -> parent code).
func (s *Store) CreateAccounts(ctx context.Context, scopeID uuid.UUID, accounts []model.Account, parentCodes map[string]string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idByCode := make(map[string]int64, len(accounts))
		for _, a := range accounts {
			if a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			row := accountToRow(scopeID, a)
			row.ID = 0
			if parent, ok := parentCodes[a.Code]; ok && parent != "" {
				pid, seen := idByCode[parent]
				if !seen {
					var prow accountRow
					if err := tx.Where("scope_id = ? AND code = ?", scopeID.String(), parent).First(&prow).Error; err != nil {
						return fmt.Errorf("parent %q of %q: %w", parent, a.Code, err)
					}
					pid = prow.ID
				}
				row.ParentID = pid
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("creating account %q: %w", a.Code, err)
			}
			idByCode[a.Code] = row.ID
		}
		s.log.Info("accounts created", zap.Int("count", len(accounts)))
		return nil
	})
}
