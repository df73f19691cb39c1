// Package draft holds the pre-checkout cart state: an explicit value owned
// by the caller and handed to the reconciliation service, which runs the
// read/merge/write cycle behind a single interface. Older frontend builds
// kept this state in browser storage; the server is now the owner.
package draft

import (
	"errors"
	"fmt"

	"github.com/freshmart/grocery-backend/internal/product"
)

// ErrNonPositiveQuantity rejects add requests for zero or negative amounts;
// a line quantity is always at least 1.
var ErrNonPositiveQuantity = errors.New("quantity must be positive")

// Line is one {product, quantity} entry. Price is the last-known unit price
// captured when the line was added or last merged; Total() uses it without
// re-fetching.
type Line struct {
	ProductID int     `json:"product"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// OverQuantityError reports a request that exceeds the quantity on hand. The
// available amount is carried so the caller can retry with a corrected value.
type OverQuantityError struct {
	ProductID int
	Requested int
	Available int
}

func (e *OverQuantityError) Error() string {
	return fmt.Sprintf("requested quantity %d for product %d exceeds available stock %d",
		e.Requested, e.ProductID, e.Available)
}

// Cart is the mutable draft of a single user's selections. It is owned by
// one request at a time and needs no locking.
type Cart struct {
	UserID int
	lines  []Line
}

func NewCart(userID int) *Cart {
	return &Cart{UserID: userID}
}

// AddItem merges qty units of p into the cart. The merged quantity (already
// held plus requested) is validated against p.Qty; on success the line is
// upserted keeping insertion order, with price and subtotal refreshed from p.
func (c *Cart) AddItem(p product.Product, qty int) error {
	if qty <= 0 {
		return ErrNonPositiveQuantity
	}

	held := c.Quantity(p.ID)
	requested := held + qty
	if requested > p.Qty {
		return &OverQuantityError{ProductID: p.ID, Requested: requested, Available: p.Qty}
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity = requested
			c.lines[i].Name = p.Name
			c.lines[i].Price = p.Price
			c.lines[i].Subtotal = p.Price * float64(requested)
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Subtotal:  p.Price * float64(qty),
	})
	return nil
}

// SetQuantity replaces the held quantity for p, clamped to [1, p.Qty]. A
// product not yet in the cart is added with the clamped quantity. With no
// stock on hand the clamp range is empty, so the line is dropped instead.
func (c *Cart) SetQuantity(p product.Product, qty int) {
	if p.Qty < 1 {
		c.RemoveItem(p.ID)
		return
	}
	if qty < 1 {
		qty = 1
	}
	if qty > p.Qty {
		qty = p.Qty
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity = qty
			c.lines[i].Price = p.Price
			c.lines[i].Subtotal = p.Price * float64(qty)
			return
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Subtotal:  p.Price * float64(qty),
	})
}

// RemoveQuantity removes amount units from the line for productID. When
// amount covers the whole line the line is dropped; otherwise the quantity is
// decremented and the subtotal recomputed. Absent products are a no-op.
func (c *Cart) RemoveQuantity(productID, amount int) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if amount >= c.lines[i].Quantity {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity -= amount
		c.lines[i].Subtotal = c.lines[i].Price * float64(c.lines[i].Quantity)
		return
	}
}

// RemoveItem drops the line for productID entirely. Removing an absent
// product is a no-op, so repeated calls are safe.
func (c *Cart) RemoveItem(productID int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Quantity returns the held quantity for productID, zero when absent.
func (c *Cart) Quantity(productID int) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Total sums price×quantity over all lines using the last-known prices.
func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

// Lines returns a copy of the current line items in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct line items.
func (c *Cart) Len() int {
	return len(c.lines)
}
