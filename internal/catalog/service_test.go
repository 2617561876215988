package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/query"
)

func TestListOptions_QueryEncoding(t *testing.T) {
	opts := ListOptions{
		Search:   "trail shoes",
		Category: 3,
		Brand:    7,
		MinPrice: "20",
		MaxPrice: "150.50",
		InStock:  true,
		Ordering: "-price",
		Page:     2,
		PageSize: 24,
	}
	v := opts.values()

	want := map[string]string{
		"search":    "trail shoes",
		"category":  "3",
		"brand":     "7",
		"min_price": "20",
		"max_price": "150.50",
		"in_stock":  "true",
		"ordering":  "-price",
		"page":      "2",
		"page_size": "24",
	}
	for key, expect := range want {
		if got := v.Get(key); got != expect {
			t.Errorf("%s = %q, want %q", key, got, expect)
		}
	}
}

func TestListOptions_ZeroValueIsEmpty(t *testing.T) {
	if enc := (ListOptions{}).values().Encode(); enc != "" {
		t.Errorf("expected empty query, got %q", enc)
	}
	// Page 1 is the server default and is omitted.
	if enc := (ListOptions{Page: 1}).values().Encode(); enc != "" {
		t.Errorf("expected page 1 omitted, got %q", enc)
	}
}

func catalogService(t *testing.T, handler http.Handler) (*Service, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewService(api.New(srv.URL), query.NewCache(time.Minute)), &calls
}

func TestProducts_DistinctFiltersAreDistinctFetches(t *testing.T) {
	svc, calls := catalogService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Page[Product]{Count: 0, Results: []Product{}})
	}))
	ctx := context.Background()

	if _, err := svc.Products(ctx, ListOptions{Search: "shoes"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Products(ctx, ListOptions{Search: "shoes"}); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("identical listing must be a cache hit, got %d fetches", n)
	}

	if _, err := svc.Products(ctx, ListOptions{Search: "shoes", Page: 2}); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("different page must refetch, got %d fetches", n)
	}
}

func TestProduct_FetchesBySlug(t *testing.T) {
	var path string
	svc, _ := catalogService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode(Product{ID: 1, Name: "Trail Runner", Slug: "trail-runner"})
	}))

	p, err := svc.Product(context.Background(), "trail-runner")
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	if path != "/products/trail-runner/" {
		t.Errorf("unexpected path %q", path)
	}
	if p.Name != "Trail Runner" {
		t.Errorf("unexpected product %+v", p)
	}
}

func TestCategoriesAndBrands_UnwrapPages(t *testing.T) {
	svc, _ := catalogService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories/":
			json.NewEncoder(w).Encode(api.Page[Category]{
				Count:   2,
				Results: []Category{{ID: 1, Name: "Shoes"}, {ID: 2, Name: "Apparel"}},
			})
		case "/brands/":
			json.NewEncoder(w).Encode(api.Page[Brand]{
				Count:   1,
				Results: []Brand{{ID: 1, Name: "Acme"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Name != "Shoes" {
		t.Errorf("unexpected categories %+v", cats)
	}

	brands, err := svc.Brands(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(brands) != 1 || brands[0].Name != "Acme" {
		t.Errorf("unexpected brands %+v", brands)
	}
}

func TestDefaultVariant(t *testing.T) {
	p := Product{Variants: []ProductVariant{
		{ID: 1, StockQuantity: 0, IsActive: true},
		{ID: 2, StockQuantity: 5, IsActive: true},
	}}
	v, ok := p.DefaultVariant()
	if !ok || v.ID != 2 {
		t.Errorf("expected first in-stock variant, got %+v %v", v, ok)
	}

	// All sold out: fall back to the first variant so the page still
	// renders a price.
	p.Variants[1].StockQuantity = 0
	v, ok = p.DefaultVariant()
	if !ok || v.ID != 1 {
		t.Errorf("expected fallback to first variant, got %+v %v", v, ok)
	}

	if _, ok := (Product{}).DefaultVariant(); ok {
		t.Error("no variants means no default")
	}
}
