package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fintab-dev/fintab/internal/id"
)

// NextVoucherSeq returns the next free sequence number for a scope's
// year/month voucher series.
func (s *Store) NextVoucherSeq(ctx context.Context, scopeID uuid.UUID, year, month int) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	var nos []string
	err := s.db.WithContext(ctx).Model(&voucherRow{}).
		Where("scope_id = ? AND no LIKE ?", scopeID.String(), prefix+"%").
		Pluck("no", &nos).Error
	if err != nil {
		return 0, fmt.Errorf("listing voucher numbers: %w", err)
	}

	maxSeq := 0
	for _, no := range nos {
		_, _, seq, err := id.ParseVoucherNo(no)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}
