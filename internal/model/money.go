package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price is not a parseable amount")

// spaceStripper drops the space characters the backend mixes into
// formatted amounts (regular, non-breaking and narrow non-breaking)
var spaceStripper = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// ParsePrice converts a formatted currency string into a decimal.
// The backend serves amounts like "₴1 234,56", "UAH 1,234.56" or plain
// "649.50"; anything that is not a digit or separator is stripped, and
// comma decimal separators are normalized.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := spaceStripper.Replace(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	raw := b.String()
	if raw == "" || raw == "-" {
		return decimal.Decimal{}, ErrInvalidPrice
	}

	raw = normalizeSeparators(raw)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d, nil
}

// normalizeSeparators rewrites a digit/separator string so that '.' is
// the decimal separator and grouping separators are gone. When both
// separators occur, the one appearing last is the decimal separator.
// A lone comma is treated as a decimal separator when followed by one
// or two digits ("12,5"), and as grouping otherwise ("1,234").
func normalizeSeparators(raw string) string {
	dot := strings.LastIndexByte(raw, '.')
	comma := strings.LastIndexByte(raw, ',')

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case comma >= 0:
		if strings.Count(raw, ",") == 1 && len(raw)-comma-1 <= 2 {
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case strings.Count(raw, ".") > 1:
		// grouping dots, keep only the last as decimal
		raw = strings.ReplaceAll(raw[:dot], ".", "") + raw[dot:]
	}
	return raw
}

// EffectivePrice returns the unit price used for total computation:
// the sale price when set and parseable, else the displayed price,
// else the regular price.
func EffectivePrice(item CartItem) (decimal.Decimal, error) {
	for _, s := range []string{item.SalePrice, item.Price, item.RegularPrice} {
		if s == "" {
			continue
		}
		if d, err := ParsePrice(s); err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, ErrInvalidPrice
}
