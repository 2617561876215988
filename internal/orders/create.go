package orders

import (
	"context"
	"fmt"
)

// CreateInput is the order creation payload sent at checkout completion.
// The idempotency key is generated per checkout attempt and reused on
// retry so a retried submission cannot double-create an order.
type CreateInput struct {
	ShippingAddress Address `json:"shipping_address"`
	PaymentIntentID string  `json:"payment_intent_id"`
	IdempotencyKey  string  `json:"idempotency_key,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// Create places an order referencing a confirmed payment.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	var o Order
	if err := s.client.Post(ctx, "/orders/", in, &o); err != nil {
		return o, fmt.Errorf("failed to create order: %w", err)
	}
	return o, nil
}
