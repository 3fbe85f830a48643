package domain

import "time"

// CartItem is one product line inside a session cart. Discount is the
// per-unit discount already resolved by the pricing engine.
type CartItem struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	UnitPrice float64   `json:"unitPrice"`
	Discount  float64   `json:"discount"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LineTotal returns the item total with the per-unit discount applied,
// clamped at zero.
func (i CartItem) LineTotal() float64 {
	perUnit := i.UnitPrice - i.Discount
	if perUnit < 0 {
		perUnit = 0
	}
	return perUnit * float64(i.Qty)
}

// LastAction records the most recent mutation for conversational replay
// ("agregué 3 leches a tu carrito").
type LastAction struct {
	Action    string    `json:"action"`
	SKU       string    `json:"sku,omitempty"`
	Name      string    `json:"name,omitempty"`
	Qty       int       `json:"qty"`
	Timestamp time.Time `json:"timestamp"`
}

// Cart is a per-session shopping cart. Items are keyed by SKU.
type Cart struct {
	SessionID  string              `json:"sessionId"`
	Items      map[string]CartItem `json:"items"`
	Currency   string              `json:"currency"`
	LastAction *LastAction         `json:"lastAction,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Version    int                 `json:"version"`
}

// Subtotal sums all line totals.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.LineTotal()
	}
	return sum
}

// Total equals Subtotal; order-level discounts do not exist yet.
func (c *Cart) Total() float64 {
	return c.Subtotal()
}
