// Package cart holds the visitor's cart: an ordered, duplicate-permitting
// list of variant ids.
package cart

import (
	"slices"
)

// Cart is the top-level cart aggregator. It is not safe for concurrent use;
// the owning session serializes access.
type Cart struct {
	items []int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends variantID.
func (c *Cart) Add(variantID int) {
	c.items = append(c.items, variantID)
}

// Remove deletes every occurrence of variantID and returns how many were
// removed.
func (c *Cart) Remove(variantID int) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(id int) bool { return id == variantID })
	return before - len(c.items)
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []int {
	return slices.Clone(c.items)
}

// Len returns the number of entries.
func (c *Cart) Len() int { return len(c.items) }

// Count returns how many entries equal variantID.
func (c *Cart) Count(variantID int) int {
	n := 0
	for _, id := range c.items {
		if id == variantID {
			n++
		}
	}
	return n
}

// AddToCart implements card.Intents.
func (c *Cart) AddToCart(variantID int) { c.Add(variantID) }

// RemoveFromCart implements card.Intents.
func (c *Cart) RemoveFromCart(variantID int) { c.Remove(variantID) }
