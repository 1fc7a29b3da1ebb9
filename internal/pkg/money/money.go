// internal/pkg/money/money.go
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money represents a currency amount in cents. Storing cents keeps
// arithmetic exact; rounding happens once per derived value, on the
// cent grid, half away from zero.
type Money int64

// FromFloat converts a dollar amount to Money, rounding to the nearest cent
func FromFloat(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// LineTotal computes the total for a cart line: quantity * unit price,
// reduced by the discount percentage, rounded to the nearest cent
func LineTotal(unitPrice Money, quantity int, discountPercent float64) Money {
	return Money(math.Round(float64(unitPrice) * float64(quantity) * (1 - discountPercent/100)))
}

// DiscountAmount computes the amount taken off a cart line by its
// discount percentage, before rounding. Callers sum these and round once.
func DiscountAmount(unitPrice Money, quantity int, discountPercent float64) float64 {
	return float64(unitPrice) * float64(quantity) * discountPercent / 100
}

// PercentOf computes rate percent of m, rounded to the nearest cent
func PercentOf(m Money, ratePercent float64) Money {
	return Money(math.Round(float64(m) * ratePercent / 100))
}

// Round rounds a fractional cent amount to the nearest cent
func Round(cents float64) Money {
	return Money(math.Round(cents))
}

// Float64 returns the amount in dollars
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String formats the amount with exactly two fraction digits
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON serializes Money as a decimal number with exactly two
// fraction digits, e.g. 12.99, never a binary float artifact
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a decimal number or a quoted decimal string
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parse converts a decimal string like "12.99" to Money without going
// through binary floating point
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty money value")
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
		frac = s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}

	// Normalize the fraction to exactly two digits, rounding half up on the third
	roundUp := false
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		if frac[2] >= '5' {
			roundUp = true
		}
		frac = frac[:2]
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q: %w", s, err)
	}

	total := dollars*100 + cents
	if roundUp {
		total++
	}
	if negative {
		total = -total
	}
	return Money(total), nil
}
