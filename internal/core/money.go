// Package core provides money parsing and handling utilities.
//
// Amounts are decimals backed by shopspring/decimal so that sums over many
// transactions never drift the way float64 accumulation does.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value. On the wire it is a bare JSON
// number, matching what the web client and the document store exchange.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a float value, typically one read back from a document store.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// AmountFromDecimal wraps an existing decimal.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d}
}

// ParseAmount converts user input to an Amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Signs and zero
// amounts are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{d}, nil
}

// MustParseAmount is ParseAmount for literals known to be valid.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// Equal reports whether both amounts have the same numeric value.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// MarshalJSON emits the amount as a JSON number rather than a quoted string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Format renders the amount with two decimals and a currency sign, e.g. "$12.50".
func (a Amount) Format() string {
	if a.IsNegative() {
		return "-$" + a.Abs().StringFixed(2)
	}
	return "$" + a.StringFixed(2)
}
