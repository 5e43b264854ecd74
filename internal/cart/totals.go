package cart

import (
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/shopspring/decimal"
)

// Subtotal is the exact sum of price * quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

// TaxAmount is subtotal * taxPercent / 100.
func (c *Cart) TaxAmount(taxPercent decimal.Decimal) decimal.Decimal {
	return pricing.PercentOf(c.Subtotal(), taxPercent)
}

// TipAmount is subtotal * tipPercent / 100. The tip base is the pre-tax subtotal.
func (c *Cart) TipAmount(tipPercent decimal.Decimal) decimal.Decimal {
	return pricing.PercentOf(c.Subtotal(), tipPercent)
}

// Total is subtotal * (1 + taxPercent/100 + tipPercent/100).
func (c *Cart) Total(taxPercent, tipPercent decimal.Decimal) decimal.Decimal {
	return c.Quote(taxPercent, tipPercent).Total
}

// Quote computes every derived amount from a single consistent snapshot.
func (c *Cart) Quote(taxPercent, tipPercent decimal.Decimal) pricing.Breakdown {
	return pricing.Compute(c.Subtotal(), taxPercent, tipPercent)
}

// Snapshot is an immutable view of the cart together with its totals.
type Snapshot struct {
	Lines     []Line
	ItemCount int
	Breakdown pricing.Breakdown
}

// Snapshot captures lines and totals under one lock acquisition.
func (c *Cart) Snapshot(taxPercent, tipPercent decimal.Decimal) Snapshot {
	c.mu.Lock()
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	subtotal := c.subtotalLocked()
	c.mu.Unlock()

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return Snapshot{
		Lines:     lines,
		ItemCount: count,
		Breakdown: pricing.Compute(subtotal, taxPercent, tipPercent),
	}
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Extended())
	}
	return sum
}
