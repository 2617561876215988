package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append(opts, WithTimeout(5*time.Second))
	c := New(srv.URL, opts...)
	c.retryWait = time.Millisecond
	return c
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), WithTokenSource(TokenSourceFunc(func() string { return "tok-123" })))

	if err := c.Get(context.Background(), "/products/", nil, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestClient_NoAuthHeaderWhenLoggedOut(t *testing.T) {
	var got string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), WithTokenSource(TokenSourceFunc(func() string { return "" })))

	if err := c.Get(context.Background(), "/products/", nil, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"email":["email is required"],"quantity":["must be positive"]}}`))
	}))

	err := c.Post(context.Background(), "/cart/", map[string]int{"quantity": -1}, nil)
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
	if !IsValidation(err) {
		t.Error("expected IsValidation to be true")
	}
	if msgs := apiErr.Fields["email"]; len(msgs) != 1 || msgs[0] != "email is required" {
		t.Errorf("unexpected field errors: %v", apiErr.Fields)
	}
}

func TestClient_DecodesDetailError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
	}))

	err := c.Get(context.Background(), "/orders/", nil, nil)
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	apiErr, _ := AsError(err)
	if apiErr.Detail != "Authentication credentials were not provided." {
		t.Errorf("unexpected detail: %q", apiErr.Detail)
	}
}

func TestClient_RetriesReadOnceOn5xx(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))

	var page Page[struct{}]
	if err := c.Get(context.Background(), "/products/", nil, &page); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClient_ReadRetryGivesUpAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.Get(context.Background(), "/products/", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", calls.Load())
	}
}

func TestClient_NeverRetriesWrites(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_ = c.Post(context.Background(), "/cart/", map[string]int{"product_id": 1}, nil)
	_ = c.Patch(context.Background(), "/cart/items/1/", map[string]int{"quantity": 2}, nil)
	_ = c.Delete(context.Background(), "/cart/items/1/")

	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts for 3 writes, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetry4xx(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	}))

	err := c.Get(context.Background(), "/products/nope/", nil, nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", calls.Load())
	}
}

func TestClient_TransportErrorWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))
	c.retryWait = time.Millisecond

	err := c.Post(context.Background(), "/cart/", nil, nil)
	if _, ok := AsTransportError(err); !ok {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestClient_QueryEncoding(t *testing.T) {
	var got url.Values
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))

	q := url.Values{}
	q.Set("search", "running shoes")
	q.Set("page", "2")
	if err := c.Get(context.Background(), "/products/", q, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Get("search") != "running shoes" || got.Get("page") != "2" {
		t.Errorf("unexpected query: %v", got)
	}
}

func TestPage_Navigation(t *testing.T) {
	next := "http://x/api/v1/products/?page=3"
	prev := "http://x/api/v1/products/?page=1"
	p := Page[int]{Count: 50, Next: &next, Previous: &prev}
	if !p.HasNext() || !p.HasPrevious() {
		t.Error("expected both directions available")
	}

	var last Page[int]
	if last.HasNext() || last.HasPrevious() {
		t.Error("expected no navigation on empty page")
	}
}

func TestError_IsHelpers(t *testing.T) {
	if IsAuthError(errors.New("plain")) {
		t.Error("plain error must not be an auth error")
	}
	if !IsAuthError(&Error{Status: http.StatusForbidden}) {
		t.Error("403 must be an auth error")
	}
	if !IsNotFound(&Error{Status: http.StatusNotFound}) {
		t.Error("404 must be not-found")
	}
}
