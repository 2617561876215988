// Package payments creates payment intents through the commerce API and
// confirms them against the payment provider. The provider is an opaque
// collaborator: the client sends card data only to it and passes the
// resulting confirmation id back to order creation. Card data is never
// logged and never sent to the commerce API.
package payments

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/api"
)

// Intent is a provider-side handle for an in-progress charge.
type Intent struct {
	ID           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}

// Card is the card entry form. It exists only in memory for the duration
// of a confirmation call.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Name     string
}

// Redacted returns a display form that is safe to render or log.
func (c Card) Redacted() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Number)
	if len(digits) < 4 {
		return "••••"
	}
	return "•••• " + digits[len(digits)-4:]
}

// Validate performs the minimal sanity checks the entry form needs; the
// provider is the authority on card validity.
func (c Card) Validate() error {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Number)
	if len(digits) < 12 || len(digits) > 19 {
		return fmt.Errorf("card number must be 12-19 digits")
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return fmt.Errorf("expiry month must be 1-12")
	}
	if c.ExpYear < 2000 {
		return fmt.Errorf("expiry year must be a four-digit year")
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 {
		return fmt.Errorf("security code must be 3 or 4 digits")
	}
	return nil
}

// Provider confirms an intent with card details and returns the
// confirmation id. Declines surface as *ProviderError.
type Provider interface {
	Confirm(ctx context.Context, clientSecret string, card Card) (string, error)
}

// ProviderError is a provider-reported failure (card declined, expired,
// etc.).
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return "payment failed: " + e.Message
	}
	return "payment failed: " + e.Code
}

// Service creates intents via the commerce API.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService creates a payments service.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateIntent asks the backend for a provider intent covering
// amountCents. The amount is the server-computed cart total converted to
// cents.
func (s *Service) CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error) {
	if amountCents <= 0 {
		return Intent{}, fmt.Errorf("intent amount must be positive, got %d", amountCents)
	}
	var intent Intent
	req := createIntentRequest{Amount: amountCents, Currency: strings.ToLower(currency)}
	if err := s.client.Post(ctx, "/payments/create-payment-intent/", req, &intent); err != nil {
		return Intent{}, fmt.Errorf("failed to create payment intent: %w", err)
	}
	s.logger.Debug("payment intent created", zap.String("intent_id", intent.ID))
	return intent, nil
}
