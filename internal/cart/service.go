package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/auth"
)

// Authenticator answers whether a session is active. Unauthenticated
// callers must never reach the network layer.
type Authenticator interface {
	IsAuthenticated() bool
}

// Service owns the client-side cart snapshot and its four mutating
// operations plus a manual refresh.
type Service struct {
	client *api.Client
	authn  Authenticator
	logger *zap.Logger

	// opMu serializes mutations so two rapid operations cannot interleave
	// their mutate and reload phases.
	opMu sync.Mutex

	snapMu  sync.RWMutex
	current *Cart

	// ticket/applied order refreshes: a response from an older request
	// never overwrites a newer snapshot.
	ticket  atomic.Uint64
	applied uint64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a cart service.
func NewService(client *api.Client, authn Authenticator, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		authn:  authn,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the most recently loaded cart, which may be nil
// before the first refresh or after logout.
func (s *Service) Snapshot() *Cart {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.current
}

// Reset drops the local snapshot (used on logout).
func (s *Service) Reset() {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	s.current = nil
}

type addRequest struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Add puts quantity units of a product (optionally a specific variant)
// into the cart. Unlike the other mutations it fails loudly when the
// caller is unauthenticated so the UI can redirect to login.
func (s *Service) Add(ctx context.Context, productID int64, variantID *int64, quantity int) error {
	if !s.authn.IsAuthenticated() {
		return auth.ErrNotAuthenticated
	}
	if quantity < 1 {
		quantity = 1
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	req := addRequest{ProductID: productID, VariantID: variantID, Quantity: quantity}
	if err := s.client.Post(ctx, "/cart/", req, nil); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	s.logger.Debug("cart item added",
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity))
	return s.refresh(ctx)
}

// UpdateQuantity changes a line's quantity. Non-positive quantities
// delegate to Remove; a PATCH with quantity <= 0 is never issued.
// No-op when unauthenticated.
func (s *Service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if !s.authn.IsAuthenticated() {
		return nil
	}
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	body := map[string]int{"quantity": quantity}
	if err := s.client.Patch(ctx, fmt.Sprintf("/cart/items/%d/", itemID), body, nil); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return s.refresh(ctx)
}

// Remove deletes a line from the cart. No-op when unauthenticated.
func (s *Service) Remove(ctx context.Context, itemID int64) error {
	if !s.authn.IsAuthenticated() {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.client.Delete(ctx, fmt.Sprintf("/cart/items/%d/", itemID)); err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return s.refresh(ctx)
}

// Clear empties the cart. No-op when unauthenticated.
func (s *Service) Clear(ctx context.Context) error {
	if !s.authn.IsAuthenticated() {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.client.Delete(ctx, "/cart/clear/"); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return s.refresh(ctx)
}

// Refresh reloads the full cart from the server. No-op when
// unauthenticated.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.authn.IsAuthenticated() {
		return nil
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) error {
	ticket := s.ticket.Add(1)

	var c Cart
	if err := s.client.Get(ctx, "/cart/", nil, &c); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	if ticket <= s.applied {
		// A newer refresh already landed; keep its snapshot.
		return nil
	}
	s.applied = ticket
	s.current = &c
	return nil
}
