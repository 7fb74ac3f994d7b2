package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fintab-dev/fintab/internal/model"
)

// Persistence rows are kept separate from the domain structs so schema
// concerns (soft deletes, denormalized account type) never leak into
// the engine.

type accountRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ScopeID    string `gorm:"size:36;index:idx_account_scope_code,unique,priority:1"`
	Code       string `gorm:"size:20;index:idx_account_scope_code,unique,priority:2"`
	Name       string `gorm:"size:200;not null"`
	ParentID   int64  `gorm:"index"`
	Type       string `gorm:"size:20;index"`
	Liquidity  bool
	EquityType string `gorm:"size:20"`
	IsDefault  bool
	ForUser    bool
	CreatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (accountRow) TableName() string { return "accounts" }

func (r accountRow) toModel() model.Account {
	return model.Account{
		ID:         r.ID,
		Code:       r.Code,
		Name:       r.Name,
		ParentID:   r.ParentID,
		Type:       model.AccountType(r.Type),
		Liquidity:  r.Liquidity,
		EquityType: model.EquityType(r.EquityType),
		IsDefault:  r.IsDefault,
		ForUser:    r.ForUser,
		Deleted:    r.DeletedAt.Valid,
		CreatedAt:  r.CreatedAt,
	}
}

func accountToRow(scopeID uuid.UUID, a model.Account) accountRow {
	return accountRow{
		ID:         a.ID,
		ScopeID:    scopeID.String(),
		Code:       a.Code,
		Name:       a.Name,
		ParentID:   a.ParentID,
		Type:       string(a.Type),
		Liquidity:  a.Liquidity,
		EquityType: string(a.EquityType),
		IsDefault:  a.IsDefault,
		ForUser:    a.ForUser,
		CreatedAt:  a.CreatedAt,
	}
}

type voucherRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	ScopeID   string `gorm:"size:36;index"`
	No        string `gorm:"size:20;index"`
	Date      time.Time
	Note      string `gorm:"size:500"`
	CreatedAt time.Time
}

func (voucherRow) TableName() string { return "vouchers" }

type lineItemRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	ScopeID     string `gorm:"size:36;index:idx_item_scope_type,priority:1"`
	AccountID   int64  `gorm:"index"`
	AccountType string `gorm:"size:20;index:idx_item_scope_type,priority:2"`
	Debit       bool
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	VoucherID   string          `gorm:"size:36;index"`
	Description string          `gorm:"size:500"`
	CreatedAt   time.Time       `gorm:"index"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"`
}

func (lineItemRow) TableName() string { return "line_items" }

func (r lineItemRow) toModel() model.LineItem {
	voucherID, _ := uuid.Parse(r.VoucherID)
	return model.LineItem{
		ID:          r.ID,
		AccountID:   r.AccountID,
		AccountType: model.AccountType(r.AccountType),
		Debit:       r.Debit,
		Amount:      r.Amount,
		VoucherID:   voucherID,
		Description: r.Description,
		Deleted:     r.DeletedAt.Valid,
		CreatedAt:   r.CreatedAt,
	}
}
