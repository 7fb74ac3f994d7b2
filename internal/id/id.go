// Package id formats and parses human-facing voucher numbers.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVoucherNo returns a voucher number like "2025-01-001".
func FormatVoucherNo(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseVoucherNo parses "2025-01-001" into year, month, seq.
func ParseVoucherNo(no string) (year, month, seq int, err error) {
	parts := strings.SplitN(no, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid voucher number format: %q", no)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in voucher number %q: %w", no, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in voucher number %q: %w", no, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in voucher number %q: %w", no, err)
	}

	return year, month, seq, nil
}
