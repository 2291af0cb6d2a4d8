// Package cart implements the shopping cart as an explicit state container
// with a pluggable persistence port.
package cart

import (
	"encoding/json"
	"fmt"
)

// MaxQuantity is the largest quantity a single line can hold.
const MaxQuantity = 1000

// Item is a cart line. UnitPrice is in minor currency units.
type Item struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Key identifies a line.
type Key struct {
	ProductID string
	VariantID string
}

// Key returns the identity key of the item.
func (i Item) Key() Key {
	return Key{ProductID: i.ProductID, VariantID: i.VariantID}
}

// LineTotal returns UnitPrice × Quantity.
func (i Item) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart holds lines in insertion order. It is not safe for concurrent use;
// callers load, mutate and save a cart within one request.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges item into the cart, summing quantities for an existing key.
// Quantities below one are treated as one and a line never exceeds
// MaxQuantity.
func (c *Cart) Add(item Item) {
	item.Quantity = clampQuantity(item.Quantity)
	if i := c.index(item.Key()); i >= 0 {
		c.items[i].Quantity = clampQuantity(c.items[i].Quantity + item.Quantity)
		return
	}
	c.items = append(c.items, item)
}

// SetQty sets the exact quantity of a line, removing it when qty <= 0 and
// capping it at MaxQuantity. Unknown lines are ignored.
func (c *Cart) SetQty(productID, variantID string, qty int) {
	i := c.index(Key{ProductID: productID, VariantID: variantID})
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = clampQuantity(qty)
}

// Remove deletes a line if present.
func (c *Cart) Remove(productID, variantID string) {
	if i := c.index(Key{ProductID: productID, VariantID: variantID}); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the line for the key.
func (c *Cart) Get(productID, variantID string) (Item, bool) {
	if i := c.index(Key{ProductID: productID, VariantID: variantID}); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Count returns the total quantity across lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Subtotal returns Σ unitPrice × quantity.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

func (c *Cart) index(key Key) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func clampQuantity(qty int) int {
	switch {
	case qty < 1:
		return 1
	case qty > MaxQuantity:
		return MaxQuantity
	}
	return qty
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

type snapshot struct {
	Items []Item `json:"items"`
}

// MarshalJSON serialises the cart as {"items": [...]}.
func (c *Cart) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(snapshot{Items: items})
}

// UnmarshalJSON restores a cart, re-merging duplicate keys and dropping
// lines with non-positive quantities.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode cart: %w", err)
	}
	c.items = nil
	for _, item := range s.Items {
		if item.Quantity <= 0 {
			continue
		}
		c.Add(item)
	}
	return nil
}
