package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testCard() Card {
	return Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123", Name: "Jo Meyer"}
}

func TestIntentIDFromSecret(t *testing.T) {
	id, err := intentIDFromSecret("pi_abc_secret_xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "pi_abc" {
		t.Errorf("expected pi_abc, got %q", id)
	}

	for _, bad := range []string{"", "no-separator", "_secret_x"} {
		if _, err := intentIDFromSecret(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestConfirm_SendsCardAsFormData(t *testing.T) {
	var gotPath, gotAuth, gotNumber string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotNumber = r.PostForm.Get("payment_method_data[card][number]")
		w.Write([]byte(`{"id":"pi_abc","status":"succeeded"}`))
	}))
	t.Cleanup(srv.Close)

	p := NewStripeProvider(srv.URL, "pk_test_123", nil)
	ref, err := p.Confirm(context.Background(), "pi_abc_secret_xyz", testCard())
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if ref != "pi_abc" {
		t.Errorf("expected pi_abc, got %q", ref)
	}
	if gotPath != "/payment_intents/pi_abc/confirm" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer pk_test_123" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotNumber != "4242424242424242" {
		t.Errorf("card number missing from form: %q", gotNumber)
	}
}

func TestConfirm_DeclineSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"code":"card_error","decline_code":"insufficient_funds","message":"Your card has insufficient funds."}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewStripeProvider(srv.URL, "pk_test_123", nil)
	_, err := p.Confirm(context.Background(), "pi_abc_secret_xyz", testCard())

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if provErr.Code != "insufficient_funds" {
		t.Errorf("expected decline code preferred, got %q", provErr.Code)
	}
}

func TestConfirm_NonSucceededStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"pi_abc","status":"requires_action"}`))
	}))
	t.Cleanup(srv.Close)

	p := NewStripeProvider(srv.URL, "pk_test_123", nil)
	_, err := p.Confirm(context.Background(), "pi_abc_secret_xyz", testCard())

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if provErr.Code != "requires_action" {
		t.Errorf("unexpected code %q", provErr.Code)
	}
}

func TestConfirm_MissingKey(t *testing.T) {
	p := NewStripeProvider("http://provider.invalid", "", nil)
	if _, err := p.Confirm(context.Background(), "pi_abc_secret_xyz", testCard()); err == nil {
		t.Fatal("expected error without a publishable key")
	}
}

func TestCard_Redacted(t *testing.T) {
	c := testCard()
	if got := c.Redacted(); got != "•••• 4242" {
		t.Errorf("unexpected redaction %q", got)
	}
	if got := (Card{Number: "12"}).Redacted(); got != "••••" {
		t.Errorf("short numbers must fully redact, got %q", got)
	}
}

func TestCard_Validate(t *testing.T) {
	if err := testCard().Validate(); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}

	bad := []Card{
		{Number: "1234", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
		{Number: "4242424242424242", ExpMonth: 13, ExpYear: 2030, CVC: "123"},
		{Number: "4242424242424242", ExpMonth: 12, ExpYear: 30, CVC: "123"},
		{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "12"},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestService_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(nil, nil)
	if _, err := svc.CreateIntent(context.Background(), 0, "usd"); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := svc.CreateIntent(context.Background(), -100, "usd"); err == nil {
		t.Error("expected error for negative amount")
	}
}
