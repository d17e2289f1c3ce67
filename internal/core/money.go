// Package core holds the domain model: period keys, money amounts,
// recurrence cadences, category goals and resource typing.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a signed amount in minor currency units. Liability balances are
// expected (not enforced) to be negative.
type Money struct {
	Cents int64
}

func NewMoney(cents int64) Money {
	return Money{Cents: cents}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) Mul(n int64) Money {
	return Money{Cents: m.Cents * n}
}

// Div divides the amount by n, rounding half-up to the nearest cent.
// Division by zero yields the zero amount; callers guard where zero is not
// the documented fallback.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return Money{}
	}
	d := decimal.NewFromInt(m.Cents).Div(decimal.NewFromInt(n))
	return Money{Cents: d.Round(0).IntPart()}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Decimal returns the amount as a decimal number of cents.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Cents)
}

// Share applies a ratio to the amount, rounding to the nearest cent.
func (m Money) Share(ratio decimal.Decimal) Money {
	return Money{Cents: m.Decimal().Mul(ratio).Round(0).IntPart()}
}

// Euros returns the euro value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MaxMoney returns the larger of two amounts.
func MaxMoney(a, b Money) Money {
	if a.Cents >= b.Cents {
		return a
	}
	return b
}

// Proportion returns m divided by total, or zero when total is zero.
// It never propagates a division error.
func Proportion(m, total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return m.Decimal().Div(total.Decimal())
}

// PercentChange returns the percentage change from prev to cur, or zero
// when prev is zero.
func PercentChange(prev, cur Money) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Decimal().Div(prev.Decimal()).Mul(decimal.NewFromInt(100))
}

// ParseDecimalToCents converts a decimal string to signed cents with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign, so liability balances can be entered directly.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("-12,34") -> -1234, nil
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	// Convert integer part - check for overflow
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}
