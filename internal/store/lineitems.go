package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintab-dev/fintab/internal/model"
)

// FindLineItems implements ledger.LineItemRepository. A zero start
// means "from the beginning of the book"; end is inclusive.
// includeDeleted is a union: voided items are returned alongside live
// ones, never instead of them.
func (s *Store) FindLineItems(ctx context.Context, scopeID uuid.UUID, accountType model.AccountType, start, end time.Time, includeDeleted bool) ([]model.LineItem, error) {
	db := s.db.WithContext(ctx).Model(&lineItemRow{})
	if includeDeleted {
		db = db.Unscoped()
	}
	db = db.Where("scope_id = ? AND account_type = ?", scopeID.String(), string(accountType))
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}

	var rows []lineItemRow
	if err := db.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("finding line items: %w", err)
	}

	items := make([]model.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toModel())
	}
	return items, nil
}

// CreateVoucher persists a voucher and its line items atomically. The
// voucher must already be balanced; the store does not re-check.
func (s *Store) CreateVoucher(ctx context.Context, v model.Voucher) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := voucherRow{
			ID:      v.ID.String(),
			ScopeID: v.ScopeID.String(),
			No:      v.No,
			Date:    v.Date,
			Note:    v.Note,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("creating voucher %s: %w", v.No, err)
		}
		for _, li := range v.LineItems {
			item := lineItemRow{
				ScopeID:     v.ScopeID.String(),
				AccountID:   li.AccountID,
				AccountType: string(li.AccountType),
				Debit:       li.Debit,
				Amount:      li.Amount,
				VoucherID:   v.ID.String(),
				Description: li.Description,
				CreatedAt:   v.Date,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("creating line item for voucher %s: %w", v.No, err)
			}
		}
		s.log.Debug("voucher created",
			zap.String("no", v.No),
			zap.Int("line_items", len(v.LineItems)))
		return nil
	})
}
