package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"storefront/internal/api"
	"storefront/internal/query"
)

// ListOptions is the filter/sort/pagination state of a product listing.
// The zero value lists everything in the server's default order.
type ListOptions struct {
	Search   string
	Category int64
	Brand    int64
	MinPrice string
	MaxPrice string
	InStock  bool
	Ordering string // name, price, -price, created_at, -created_at, average_rating
	Page     int
	PageSize int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Category > 0 {
		v.Set("category", strconv.FormatInt(o.Category, 10))
	}
	if o.Brand > 0 {
		v.Set("brand", strconv.FormatInt(o.Brand, 10))
	}
	if o.MinPrice != "" {
		v.Set("min_price", o.MinPrice)
	}
	if o.MaxPrice != "" {
		v.Set("max_price", o.MaxPrice)
	}
	if o.InStock {
		v.Set("in_stock", "true")
	}
	if o.Ordering != "" {
		v.Set("ordering", o.Ordering)
	}
	if o.Page > 1 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return v
}

// Service fetches catalog data through the read cache.
type Service struct {
	client *api.Client
	cache  *query.Cache
}

// NewService creates a catalog service.
func NewService(client *api.Client, cache *query.Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Products lists products matching opts.
func (s *Service) Products(ctx context.Context, opts ListOptions) (api.Page[Product], error) {
	qv := opts.values()
	key := "products?" + qv.Encode()
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) (api.Page[Product], error) {
		var page api.Page[Product]
		if err := s.client.Get(ctx, "/products/", qv, &page); err != nil {
			return page, fmt.Errorf("failed to list products: %w", err)
		}
		return page, nil
	})
}

// Product fetches one product by slug.
func (s *Service) Product(ctx context.Context, slug string) (Product, error) {
	key := "products/" + slug
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) (Product, error) {
		var p Product
		if err := s.client.Get(ctx, "/products/"+url.PathEscape(slug)+"/", nil, &p); err != nil {
			return p, fmt.Errorf("failed to fetch product %s: %w", slug, err)
		}
		return p, nil
	})
}

// Categories lists top-level categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return query.Fetch(ctx, s.cache, "categories", func(ctx context.Context) ([]Category, error) {
		var page api.Page[Category]
		if err := s.client.Get(ctx, "/categories/", nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return page.Results, nil
	})
}

// Brands lists brands.
func (s *Service) Brands(ctx context.Context) ([]Brand, error) {
	return query.Fetch(ctx, s.cache, "brands", func(ctx context.Context) ([]Brand, error) {
		var page api.Page[Brand]
		if err := s.client.Get(ctx, "/brands/", nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list brands: %w", err)
		}
		return page.Results, nil
	})
}

// Featured lists the featured collection shown on the home page.
func (s *Service) Featured(ctx context.Context) ([]Product, error) {
	return s.collection(ctx, "featured")
}

// New lists the new-arrivals collection shown on the home page.
func (s *Service) New(ctx context.Context) ([]Product, error) {
	return s.collection(ctx, "new")
}

func (s *Service) collection(ctx context.Context, name string) ([]Product, error) {
	key := "products/" + name
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]Product, error) {
		var page api.Page[Product]
		if err := s.client.Get(ctx, "/products/"+name+"/", nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list %s products: %w", name, err)
		}
		return page.Results, nil
	})
}
