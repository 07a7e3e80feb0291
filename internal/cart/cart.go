// Package cart holds the visitor's in-progress order and the quantity stepper rules.
package cart

import "cafe-storefront/internal/models"

// Stepper bounds
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// ClampQuantity bounds q to [MinQuantity, MaxQuantity]
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// Step applies delta to the current stepper value without wrapping
func Step(current, delta int) int {
	return ClampQuantity(ClampQuantity(current) + delta)
}

// Cart is an ordered sequence of lines, at most one per product
type Cart struct {
	Lines []models.CartLine `json:"lines"`
}

// Add puts quantity units of p into the cart. An existing line for the same
// product grows by quantity; otherwise a new line is appended with a snapshot
// of the product's name and price. limit > 0 caps the combined line quantity,
// limit <= 0 leaves it unbounded. The resulting line is returned.
func (c *Cart) Add(p models.Product, quantity, limit int) models.CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += quantity
			if limit > 0 && c.Lines[i].Quantity > limit {
				c.Lines[i].Quantity = limit
			}
			return c.Lines[i]
		}
	}

	if limit > 0 && quantity > limit {
		quantity = limit
	}
	line := models.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	}
	c.Lines = append(c.Lines, line)
	return line
}

// Remove deletes the line at index. An out-of-range index leaves the cart
// unchanged and reports false.
func (c *Cart) Remove(index int) (models.CartLine, bool) {
	if index < 0 || index >= len(c.Lines) {
		return models.CartLine{}, false
	}
	removed := c.Lines[index]
	c.Lines = append(c.Lines[:index:index], c.Lines[index+1:]...)
	return removed, true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums every line subtotal
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// Snapshot returns a copy of the lines safe to hand to another goroutine
func (c *Cart) Snapshot() []models.CartLine {
	out := make([]models.CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}
