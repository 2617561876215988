// Package cart mirrors the server-owned cart and exposes its mutating
// operations. The client never computes totals; every figure shown comes
// from the most recent server response.
package cart

import (
	"time"

	"storefront/internal/api"
	"storefront/internal/catalog"
)

// Item is one line of the cart.
type Item struct {
	ID        int64                   `json:"id"`
	Product   catalog.Product         `json:"product"`
	Variant   *catalog.ProductVariant `json:"variant,omitempty"`
	Quantity  int                     `json:"quantity"`
	Price     api.Decimal             `json:"price"`
	CreatedAt time.Time               `json:"created_at"`
}

// Cart is the server's cart representation. All totals are
// server-supplied fields.
type Cart struct {
	ID             int64       `json:"id"`
	Items          []Item      `json:"items"`
	TotalItems     int         `json:"total_items"`
	Subtotal       api.Decimal `json:"subtotal"`
	TaxAmount      api.Decimal `json:"tax_amount"`
	ShippingAmount api.Decimal `json:"shipping_amount"`
	DiscountAmount api.Decimal `json:"discount_amount"`
	TotalAmount    api.Decimal `json:"total_amount"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Item returns the line with the given id, or false.
func (c *Cart) Item(id int64) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
