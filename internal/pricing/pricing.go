// Package pricing holds the tax and tip arithmetic shared by carts and settings.
//
// All amounts are exact decimals. Rounding to currency precision happens only
// in Display, never in the intermediate values.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPercent is returned for non-numeric percents and values outside [0, 100].
var ErrInvalidPercent = errors.New("percent must be a number between 0 and 100")

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = hundred
)

// ParsePercent parses a user-entered percent such as "8.875" or "20".
func ParsePercent(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidPercent)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPercent, raw)
	}
	if err := ValidatePercent(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidatePercent checks that d lies within [0, 100].
func ValidatePercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(maxPercent) {
		return fmt.Errorf("%w: %s", ErrInvalidPercent, d.String())
	}
	return nil
}

// PercentOf returns amount * percent / 100.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// Breakdown is the full set of derived totals for a subtotal.
// Tip is charged on the pre-tax subtotal, never on subtotal+tax.
type Breakdown struct {
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal
	TipPercent decimal.Decimal
	TipAmount  decimal.Decimal
	Total      decimal.Decimal
}

// Compute derives tax, tip and total from subtotal.
// Total is subtotal * (1 + tax/100 + tip/100).
func Compute(subtotal, taxPercent, tipPercent decimal.Decimal) Breakdown {
	factor := decimal.NewFromInt(1).
		Add(taxPercent.Div(hundred)).
		Add(tipPercent.Div(hundred))

	return Breakdown{
		Subtotal:   subtotal,
		TaxPercent: taxPercent,
		TaxAmount:  PercentOf(subtotal, taxPercent),
		TipPercent: tipPercent,
		TipAmount:  PercentOf(subtotal, tipPercent),
		Total:      subtotal.Mul(factor),
	}
}

// DisplayBreakdown is a Breakdown rounded to two decimal places for presentation.
type DisplayBreakdown struct {
	Subtotal   string `json:"subtotal"`
	TaxPercent string `json:"tax_percent"`
	TaxAmount  string `json:"tax_amount"`
	TipPercent string `json:"tip_percent"`
	TipAmount  string `json:"tip_amount"`
	Total      string `json:"total"`
	TotalExact string `json:"total_exact"`
}

// Display rounds each amount to currency precision. Percents are shown as entered.
func (b Breakdown) Display() DisplayBreakdown {
	return DisplayBreakdown{
		Subtotal:   Money(b.Subtotal),
		TaxPercent: b.TaxPercent.String(),
		TaxAmount:  Money(b.TaxAmount),
		TipPercent: b.TipPercent.String(),
		TipAmount:  Money(b.TipAmount),
		Total:      Money(b.Total),
		TotalExact: b.Total.String(),
	}
}

// Money formats d with exactly two decimal places, rounding half away from zero.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
