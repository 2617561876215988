package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront/internal/api"
	"storefront/internal/auth"
)

type fakeAuth struct{ loggedIn bool }

func (f fakeAuth) IsAuthenticated() bool { return f.loggedIn }

// countingTransport fails the test if any request goes out.
type countingTransport struct{ calls atomic.Int32 }

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("unexpected network call")
}

func TestUnauthenticated_NeverReachesNetwork(t *testing.T) {
	transport := &countingTransport{}
	client := api.New("http://shop.invalid/api/v1",
		api.WithHTTPClient(&http.Client{Transport: transport}))
	svc := NewService(client, fakeAuth{loggedIn: false})
	ctx := context.Background()

	if err := svc.Add(ctx, 1, nil, 1); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("Add: expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.UpdateQuantity(ctx, 1, 3); err != nil {
		t.Errorf("UpdateQuantity: expected nil, got %v", err)
	}
	if err := svc.Remove(ctx, 1); err != nil {
		t.Errorf("Remove: expected nil, got %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Errorf("Clear: expected nil, got %v", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		t.Errorf("Refresh: expected nil, got %v", err)
	}

	if n := transport.calls.Load(); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
	if svc.Snapshot() != nil {
		t.Error("expected nil snapshot before any refresh")
	}
}

// cartServer records every request and serves a canned cart on GET /cart/.
type cartServer struct {
	t  *testing.T
	mu sync.Mutex

	requests []string
	cart     Cart
}

func (s *cartServer) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *cartServer) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *cartServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		if r.Method == http.MethodGet && r.URL.Path == "/cart/" {
			if err := json.NewEncoder(w).Encode(s.cart); err != nil {
				s.t.Errorf("encode cart: %v", err)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func newCartService(t *testing.T, srv *cartServer) *Service {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	return NewService(api.New(ts.URL), fakeAuth{loggedIn: true})
}

func TestAdd_MutatesThenReloads(t *testing.T) {
	srv := &cartServer{t: t, cart: Cart{
		ID:          7,
		Items:       []Item{{ID: 42, Quantity: 2, Price: "19.99"}},
		TotalItems:  2,
		Subtotal:    "39.98",
		TotalAmount: "43.18",
	}}
	svc := newCartService(t, srv)

	if err := svc.Add(context.Background(), 10, nil, 2); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	want := []string{"POST /cart/", "GET /cart/"}
	if diff := cmp.Diff(want, srv.recorded()); diff != "" {
		t.Errorf("request sequence mismatch (-want +got):\n%s", diff)
	}

	// The snapshot is exactly what the server said, totals included.
	if diff := cmp.Diff(&srv.cart, svc.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_ClampsQuantityToOne(t *testing.T) {
	var body addRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)
	svc := NewService(api.New(ts.URL), fakeAuth{loggedIn: true})

	if err := svc.Add(context.Background(), 10, nil, 0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if body.Quantity != 1 {
		t.Errorf("expected quantity clamped to 1, got %d", body.Quantity)
	}
}

func TestUpdateQuantity_ZeroRoutesToRemove(t *testing.T) {
	srv := &cartServer{t: t}
	svc := newCartService(t, srv)

	if err := svc.UpdateQuantity(context.Background(), 42, 0); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	want := []string{"DELETE /cart/items/42/", "GET /cart/"}
	if diff := cmp.Diff(want, srv.recorded()); diff != "" {
		t.Errorf("expected a DELETE, never a PATCH (-want +got):\n%s", diff)
	}

	srv.reset()
	if err := svc.UpdateQuantity(context.Background(), 42, -3); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if diff := cmp.Diff(want, srv.recorded()); diff != "" {
		t.Errorf("negative quantity must also remove (-want +got):\n%s", diff)
	}
}

func TestUpdateQuantity_PositivePatches(t *testing.T) {
	srv := &cartServer{t: t}
	svc := newCartService(t, srv)

	if err := svc.UpdateQuantity(context.Background(), 42, 5); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	want := []string{"PATCH /cart/items/42/", "GET /cart/"}
	if diff := cmp.Diff(want, srv.recorded()); diff != "" {
		t.Errorf("request sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_UsesClearEndpoint(t *testing.T) {
	srv := &cartServer{t: t}
	svc := newCartService(t, srv)

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	want := []string{"DELETE /cart/clear/", "GET /cart/"}
	if diff := cmp.Diff(want, srv.recorded()); diff != "" {
		t.Errorf("request sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestMutation_FailureKeepsSnapshot(t *testing.T) {
	failing := false
	var snapshot Cart
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing && r.Method != http.MethodGet {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"not enough stock"}`))
			return
		}
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(snapshot)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)
	svc := NewService(api.New(ts.URL), fakeAuth{loggedIn: true})

	snapshot = Cart{ID: 1, Items: []Item{{ID: 5, Quantity: 1}}, TotalItems: 1}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	failing = true
	err := svc.Add(context.Background(), 9, nil, 1)
	if err == nil {
		t.Fatal("expected add to fail")
	}
	if diff := cmp.Diff(&snapshot, svc.Snapshot()); diff != "" {
		t.Errorf("failed mutation must not change the snapshot (-want +got):\n%s", diff)
	}
}

func TestCart_ItemLookup(t *testing.T) {
	c := &Cart{Items: []Item{{ID: 1}, {ID: 2}}}
	if _, ok := c.Item(2); !ok {
		t.Error("expected to find item 2")
	}
	if _, ok := c.Item(99); ok {
		t.Error("did not expect to find item 99")
	}

	var nilCart *Cart
	if !nilCart.IsEmpty() {
		t.Error("nil cart must be empty")
	}
	if _, ok := nilCart.Item(1); ok {
		t.Error("nil cart must have no items")
	}
}
