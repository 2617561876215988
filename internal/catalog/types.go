// Package catalog provides read-only access to products, brands and
// categories. Records mirror the server; the client never mutates them.
package catalog

import (
	"time"

	"storefront/internal/api"
)

// Brand is a product manufacturer.
type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// Category is a product grouping; top-level categories may carry children.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Parent      *int64     `json:"parent,omitempty"`
	Children    []Category `json:"children,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// ProductImage is one image of a product.
type ProductImage struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ProductVariant is a purchasable configuration (size, color, ...) with
// its own price and stock count.
type ProductVariant struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	SKU           string         `json:"sku"`
	Price         api.Decimal    `json:"price"`
	ComparePrice  api.Decimal    `json:"compare_price,omitempty"`
	StockQuantity int            `json:"stock_quantity"`
	IsActive      bool           `json:"is_active"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// InStock reports whether the variant can be added to a cart.
func (v ProductVariant) InStock() bool {
	return v.IsActive && v.StockQuantity > 0
}

// Product is a catalog entry.
type Product struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description,omitempty"`
	SKU              string           `json:"sku"`
	Brand            Brand            `json:"brand"`
	Category         Category         `json:"category"`
	Images           []ProductImage   `json:"images"`
	Variants         []ProductVariant `json:"variants"`
	PrimaryImage     *ProductImage    `json:"primary_image,omitempty"`
	AverageRating    float64          `json:"average_rating"`
	ReviewCount      int              `json:"review_count"`
	HasVariants      bool             `json:"has_variants"`
	MinPrice         api.Decimal      `json:"min_price"`
	MaxPrice         api.Decimal      `json:"max_price"`
	IsInStock        bool             `json:"is_in_stock"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DefaultVariant picks the variant to preselect on the detail page:
// the first active in-stock variant, falling back to the first variant.
func (p Product) DefaultVariant() (ProductVariant, bool) {
	if len(p.Variants) == 0 {
		return ProductVariant{}, false
	}
	for _, v := range p.Variants {
		if v.InStock() {
			return v, true
		}
	}
	return p.Variants[0], true
}
