package domain

// Product is a catalog snapshot carried into the cart. The cart never
// mutates catalog data.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       int64    `json:"price"`
	Image       string   `json:"image,omitempty"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Rating      int      `json:"rating"`
	Colors      []string `json:"colors,omitempty"`
}

// LineItem is one cart entry: a product snapshot plus the quantity and
// the size the shopper picked.
type LineItem struct {
	Product
	Quantity     int64  `json:"quantity"`
	SelectedSize string `json:"selectedSize,omitempty"`
}

// LineKey identifies a line. Two lines with the same product id but
// different sizes are distinct; same id and size merge into one line.
type LineKey struct {
	ProductID string
	Size      string
}

func (li LineItem) Key() LineKey {
	return LineKey{ProductID: li.ID, Size: li.SelectedSize}
}

// Cart is an ordered collection of line items. Insertion order is
// display order. No two lines share a key, and no line has a quantity
// below one. Totals are derived on every call, never cached.
type Cart struct {
	lines []LineItem
}

func NewCart(lines []LineItem) Cart {
	c := Cart{}
	for _, li := range lines {
		c.Add(li.Product, li.SelectedSize, li.Quantity)
	}
	return c
}

// Add merges into an existing line with the same (id, size) key or
// appends a new one. Quantities below one are treated as one.
func (c *Cart) Add(p Product, size string, qty int64) {
	if qty < 1 {
		qty = 1
	}
	key := LineKey{ProductID: p.ID, Size: size}
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, LineItem{Product: p, Quantity: qty, SelectedSize: size})
}

// Remove deletes the line with the given (id, size) key. Removing a
// line that does not exist is a no-op.
func (c *Cart) Remove(productID, size string) {
	key := LineKey{ProductID: productID, Size: size}
	kept := c.lines[:0]
	for _, li := range c.lines {
		if li.Key() != key {
			kept = append(kept, li)
		}
	}
	c.lines = kept
}

// SetQuantity sets the quantity of the line with the given key. A
// quantity below one removes the line instead.
func (c *Cart) SetQuantity(productID, size string, qty int64) {
	if qty < 1 {
		c.Remove(productID, size)
		return
	}
	key := LineKey{ProductID: productID, Size: size}
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the line items in display order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, li := range c.lines {
		total += li.Price * li.Quantity
	}
	return total
}

// Count is the sum of quantities over all lines.
func (c *Cart) Count() int64 {
	var count int64
	for _, li := range c.lines {
		count += li.Quantity
	}
	return count
}
