package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/query"
)

// State is a named checkout phase. Transitions are guarded: there is no
// way to reach payment while shipping is invalid, and no way to submit
// twice.
type State string

const (
	StateCollectingShipping State = "collecting-shipping"
	StateCollectingPayment  State = "collecting-payment"
	StateSubmitting         State = "submitting"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

var (
	// ErrInvalidTransition is returned when an operation is called from
	// the wrong state.
	ErrInvalidTransition = errors.New("invalid checkout transition")

	// ErrEmptyCart prevents entering checkout with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidShipping is returned alongside field errors.
	ErrInvalidShipping = errors.New("shipping details are invalid")

	// ErrPayment wraps provider-side failures. The card was not charged.
	ErrPayment = errors.New("payment failed")

	// ErrOrderCreation wraps order-creation failures that happen after a
	// successful charge. The user has paid; the cart is deliberately kept
	// and the payment reference retained for reconciliation.
	ErrOrderCreation = errors.New("checkout failed after payment")
)

// CartAccess is the slice of the cart service checkout needs.
type CartAccess interface {
	Snapshot() *cart.Cart
	Clear(ctx context.Context) error
}

// IntentCreator creates payment intents.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (payments.Intent, error)
}

// OrderCreator places orders.
type OrderCreator interface {
	Create(ctx context.Context, in orders.CreateInput) (orders.Order, error)
}

// Result is the outcome of a submission attempt. PaymentRef is set as
// soon as the charge succeeds, even when order creation then fails.
type Result struct {
	Order      orders.Order
	PaymentRef string
}

// Flow is one checkout attempt for the current cart.
type Flow struct {
	carts    CartAccess
	intents  IntentCreator
	provider payments.Provider
	orders   OrderCreator
	cache    *query.Cache
	currency string
	logger   *zap.Logger

	// idemKey is fixed at flow creation and reused across retries.
	idemKey string

	mu       sync.Mutex
	state    State
	shipping Shipping
	result   Result
	failure  error
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the flow logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// WithCache lets the flow invalidate cart/order reads on success.
func WithCache(c *query.Cache) Option {
	return func(f *Flow) { f.cache = c }
}

// NewFlow starts a checkout for the current cart snapshot.
func NewFlow(carts CartAccess, intents IntentCreator, provider payments.Provider, orderSvc OrderCreator, currency string, opts ...Option) (*Flow, error) {
	if carts.Snapshot().IsEmpty() {
		return nil, ErrEmptyCart
	}
	f := &Flow{
		carts:    carts,
		intents:  intents,
		provider: provider,
		orders:   orderSvc,
		currency: currency,
		logger:   zap.NewNop(),
		idemKey:  uuid.NewString(),
		state:    StateCollectingShipping,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// State returns the current phase.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Shipping returns the accepted shipping form.
func (f *Flow) Shipping() Shipping {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

// Err returns the failure that put the flow into StateFailed.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}

// Result returns the submission outcome once available.
func (f *Flow) Result() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSucceeded && f.state != StateFailed {
		return Result{}, false
	}
	return f.result, true
}

// SubmitShipping validates the form and, when clean, advances to
// payment. Invalid input keeps the state and reports per-field errors,
// so payment is unreachable while shipping is invalid.
func (f *Flow) SubmitShipping(s Shipping) (FieldErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateCollectingShipping && f.state != StateCollectingPayment {
		return nil, fmt.Errorf("%w: cannot edit shipping from %s", ErrInvalidTransition, f.state)
	}
	if fe := s.Validate(); fe != nil {
		return fe, ErrInvalidShipping
	}
	f.shipping = s
	f.state = StateCollectingPayment
	return nil, nil
}

// Back returns from the payment form to the shipping form.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateCollectingPayment {
		return fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateCollectingShipping
	return nil
}

// Retry re-arms a failed flow for another payment attempt with the same
// idempotency key.
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFailed {
		return fmt.Errorf("%w: cannot retry from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateCollectingPayment
	f.failure = nil
	return nil
}

// ConfirmPayment runs the submission sequence: create intent for the
// server-computed total, confirm with the provider, create the order,
// then clear the cart. The cart is cleared only after confirmed order
// creation.
func (f *Flow) ConfirmPayment(ctx context.Context, card payments.Card) (Result, error) {
	f.mu.Lock()
	if f.state != StateCollectingPayment {
		state := f.state
		f.mu.Unlock()
		return Result{}, fmt.Errorf("%w: cannot submit from %s", ErrInvalidTransition, state)
	}
	f.state = StateSubmitting
	shipping := f.shipping
	f.mu.Unlock()

	snap := f.carts.Snapshot()
	if snap.IsEmpty() {
		return f.fail(fmt.Errorf("%w: %v", ErrPayment, ErrEmptyCart))
	}

	cents, err := snap.TotalAmount.Cents()
	if err != nil {
		return f.fail(fmt.Errorf("%w: bad cart total: %v", ErrPayment, err))
	}

	intent, err := f.intents.CreateIntent(ctx, cents, f.currency)
	if err != nil {
		return f.fail(fmt.Errorf("%w: %v", ErrPayment, err))
	}

	ref, err := f.provider.Confirm(ctx, intent.ClientSecret, card)
	if err != nil {
		return f.fail(fmt.Errorf("%w: %v", ErrPayment, err))
	}

	// The charge has gone through. From here on, failures are checkout
	// failures, never payment failures, and the cart must stay intact.
	f.mu.Lock()
	f.result.PaymentRef = ref
	f.mu.Unlock()

	order, err := f.orders.Create(ctx, orders.CreateInput{
		ShippingAddress: shipping.Address,
		PaymentIntentID: ref,
		IdempotencyKey:  f.idemKey,
	})
	if err != nil {
		f.logger.Error("order creation failed after successful payment",
			zap.String("payment_ref", ref),
			zap.Error(err))
		return f.fail(fmt.Errorf("%w: %v (payment reference %s)", ErrOrderCreation, err, ref))
	}

	if err := f.carts.Clear(ctx); err != nil {
		// The order exists; an unclearable cart is an annoyance, not a
		// checkout failure.
		f.logger.Warn("failed to clear cart after order creation", zap.Error(err))
	}
	if f.cache != nil {
		f.cache.Invalidate("cart", "orders")
	}

	f.mu.Lock()
	f.result.Order = order
	f.state = StateSucceeded
	result := f.result
	f.mu.Unlock()

	f.logger.Info("checkout succeeded",
		zap.String("order_number", order.Number),
		zap.String("payment_ref", ref))
	return result, nil
}

func (f *Flow) fail(err error) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFailed
	f.failure = err
	return f.result, err
}
