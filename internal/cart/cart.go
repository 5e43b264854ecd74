package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a quantity is not a whole number or
// exceeds MaxQuantity.
var ErrInvalidQuantity = errors.New("quantity must be a whole number")

// MaxQuantity is the largest quantity a single line can hold.
const MaxQuantity = 9999

// Line is one catalog item and its quantity. Quantity is always >= 1.
type Line struct {
	Item     catalog.MenuItem
	Quantity int
}

// Extended returns price * quantity.
func (l Line) Extended() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per item id, in the order items were first added.
// All methods are safe for concurrent use; every call is applied atomically.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one more of item in the cart, creating the line if needed.
// A line already at MaxQuantity stays there.
func (c *Cart) Add(item catalog.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		if c.lines[i].Quantity < MaxQuantity {
			c.lines[i].Quantity++
		}
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// Remove deletes the line for itemID. Unknown ids are ignored.
func (c *Cart) Remove(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(itemID)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line; anything above MaxQuantity is capped.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeLocked(itemID)
		return
	}
	c.lines[i].Quantity = min(quantity, MaxQuantity)
}

// AdjustQuantity changes an existing line's quantity by delta and returns the
// new quantity (0 when the line was removed or never existed). The result
// saturates at MaxQuantity.
func (c *Cart) AdjustQuantity(itemID string, delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return 0
	}
	cur := c.lines[i].Quantity
	switch {
	case delta <= -cur:
		c.removeLocked(itemID)
		return 0
	case delta >= MaxQuantity-cur:
		c.lines[i].Quantity = MaxQuantity
	default:
		c.lines[i].Quantity = cur + delta
	}
	return c.lines[i].Quantity
}

// SyncItem refreshes the stored copy of an item after a catalog update,
// so later totals use the new price. Items not in the cart are ignored.
func (c *Cart) SyncItem(item catalog.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Item = item
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a snapshot of the cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Quantity returns the quantity for itemID, or 0 if it is not in the cart.
func (c *Cart) Quantity(itemID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// ParseQuantity converts user input into a quantity. Anything other than a
// whole number, or a value above MaxQuantity, is rejected with
// ErrInvalidQuantity. Negatives too large for an int come back as 0.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	if err != nil || n > MaxQuantity {
		if strings.HasPrefix(raw, "-") {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrInvalidQuantity, raw, MaxQuantity)
	}
	return n, nil
}

// QuantityFromNumber validates a JSON number, accepting integral values
// such as 2 or 2.0 and rejecting 2.5. Values above MaxQuantity are rejected;
// zero or less comes back as 0, which removes the line.
func QuantityFromNumber(n decimal.Decimal) (int, error) {
	if !n.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidQuantity, n.String())
	}
	if n.Sign() <= 0 {
		return 0, nil
	}
	if n.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrInvalidQuantity, n.String(), MaxQuantity)
	}
	return int(n.IntPart()), nil
}

func (c *Cart) indexOf(itemID string) int {
	for i, l := range c.lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeLocked(itemID string) {
	if i := c.indexOf(itemID); i >= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	}
}
