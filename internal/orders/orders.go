package orders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/api"
	"storefront/internal/catalog"
)

// Address is a shipping or billing address attached to an order.
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// Item is one purchased line of an order.
type Item struct {
	ID       int64                   `json:"id"`
	Product  catalog.Product         `json:"product"`
	Variant  *catalog.ProductVariant `json:"variant,omitempty"`
	Quantity int                     `json:"quantity"`
	Price    api.Decimal             `json:"price"`
	Total    api.Decimal             `json:"total"`
}

// Order is an immutable-once-created purchase record.
type Order struct {
	ID              int64       `json:"id"`
	Number          string      `json:"order_number"`
	Status          Status      `json:"status"`
	BillingAddress  Address     `json:"billing_address"`
	ShippingAddress Address     `json:"shipping_address"`
	Items           []Item      `json:"items"`
	Subtotal        api.Decimal `json:"subtotal"`
	TaxAmount       api.Decimal `json:"tax_amount"`
	ShippingAmount  api.Decimal `json:"shipping_amount"`
	DiscountAmount  api.Decimal `json:"discount_amount"`
	TotalAmount     api.Decimal `json:"total_amount"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Service reads order history.
type Service struct {
	client *api.Client
}

// NewService creates an orders service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List returns one page of the user's orders, newest first.
func (s *Service) List(ctx context.Context, page int) (api.Page[Order], error) {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	var out api.Page[Order]
	if err := s.client.Get(ctx, "/orders/", q, &out); err != nil {
		return out, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, nil
}

// Get fetches one order by id.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/%d/", id), nil, &o); err != nil {
		return o, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return o, nil
}
