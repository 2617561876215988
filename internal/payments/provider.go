package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StripeProvider confirms intents against the provider's REST API using
// the publishable key, standing in for the hosted card widget. Only the
// confirmation id comes back; raw card data goes nowhere else.
type StripeProvider struct {
	baseURL        string
	publishableKey string
	http           *http.Client
	logger         *zap.Logger
}

// NewStripeProvider creates a provider client.
func NewStripeProvider(baseURL, publishableKey string, logger *zap.Logger) *StripeProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeProvider{
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishableKey: publishableKey,
		http:           &http.Client{Timeout: 60 * time.Second},
		logger:         logger,
	}
}

// intentIDFromSecret extracts "pi_123" from "pi_123_secret_456".
func intentIDFromSecret(clientSecret string) (string, error) {
	i := strings.Index(clientSecret, "_secret")
	if i <= 0 {
		return "", fmt.Errorf("malformed client secret")
	}
	return clientSecret[:i], nil
}

// Confirm implements Provider.
func (p *StripeProvider) Confirm(ctx context.Context, clientSecret string, card Card) (string, error) {
	if p.publishableKey == "" {
		return "", &ProviderError{Code: "missing_key", Message: "payment provider publishable key is not configured"}
	}
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return "", &ProviderError{Code: "invalid_client_secret", Message: err.Error()}
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("payment_method_data[card][exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("payment_method_data[card][cvc]", card.CVC)
	if card.Name != "" {
		form.Set("payment_method_data[billing_details][name]", card.Name)
	}

	endpoint := p.baseURL + "/payment_intents/" + url.PathEscape(intentID) + "/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.publishableKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  *struct {
			Code        string `json:"code"`
			DeclineCode string `json:"decline_code"`
			Message     string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if body.Error != nil {
		code := body.Error.DeclineCode
		if code == "" {
			code = body.Error.Code
		}
		return "", &ProviderError{Code: code, Message: body.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{Code: "provider_error", Message: http.StatusText(resp.StatusCode)}
	}
	if body.Status != "succeeded" {
		return "", &ProviderError{Code: body.Status, Message: "payment did not complete"}
	}

	p.logger.Info("payment confirmed", zap.String("intent_id", body.ID))
	return body.ID, nil
}
