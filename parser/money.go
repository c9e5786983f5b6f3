// Package parser provides cell-level cleaning for feed values: money parsing
// in the Brazilian convention and product-name normalization for search.
package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a Brazilian-formatted currency string into an exact
// decimal. It strips the "R$" marker, non-breaking spaces and thousands
// separators ("."), then treats "," as the decimal point. No rounding is
// applied.
func ParseMoney(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("parse money: empty value")
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return value, nil
}

// FormatBRL renders a decimal in display format: two decimal places, "." as
// the thousands separator, "," as the decimal separator, prefixed "R$ ".
func FormatBRL(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), fracPart)
}

// FormatBRLNull is FormatBRL for optional values; missing renders as "-".
func FormatBRLNull(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return FormatBRL(v.Decimal)
}
