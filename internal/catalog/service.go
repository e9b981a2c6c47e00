package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
)

// catalogAPI is the slice of the upstream client the browse service needs.
type catalogAPI interface {
	ListProducts(ctx context.Context, params ListParams) (Page, error)
	GetProduct(ctx context.Context, slugOrID string) (Product, error)
	ListCategories(ctx context.Context, navbarOnly bool) ([]Category, error)
	ListFeatured(ctx context.Context) ([]Product, error)
}

// responseCache is the slice of the shared cache used for catalog reads.
type responseCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogCacheKey(parts ...string) string
}

// BrowseResult is one rendered listing: the filtered products plus the facet
// counts derived from the unfiltered baseline.
type BrowseResult struct {
	Products []Product `json:"products"`
	Facets   Facets    `json:"facets"`
	Total    int       `json:"total"`
}

// Service exposes catalog browsing to the HTTP layer. Listing reads degrade
// to empty results when the upstream catalog is unreachable so the storefront
// keeps rendering.
type Service interface {
	Browse(ctx context.Context, params ListParams, criteria Criteria) (BrowseResult, error)
	GetProduct(ctx context.Context, slugOrID string) (Product, error)
	Categories(ctx context.Context, navbarOnly bool) ([]Category, error)
	Featured(ctx context.Context) ([]Product, error)
	Facets(ctx context.Context, params ListParams) (Facets, error)
}

type service struct {
	api       catalogAPI
	cache     responseCache
	logg      *logger.Logger
	listTTL   time.Duration
	detailTTL time.Duration
}

// ServiceOptions carries the browse service dependencies. Cache is optional;
// without it every read goes upstream.
type ServiceOptions struct {
	API       catalogAPI
	Cache     responseCache
	Logger    *logger.Logger
	ListTTL   time.Duration
	DetailTTL time.Duration
}

// NewService wires the browse service.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.API == nil {
		return nil, errors.New("catalog api client is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.ListTTL <= 0 {
		opts.ListTTL = 30 * time.Second
	}
	if opts.DetailTTL <= 0 {
		opts.DetailTTL = time.Minute
	}
	return &service{
		api:       opts.API,
		cache:     opts.Cache,
		logg:      opts.Logger,
		listTTL:   opts.ListTTL,
		detailTTL: opts.DetailTTL,
	}, nil
}

func (s *service) Browse(ctx context.Context, params ListParams, criteria Criteria) (BrowseResult, error) {
	products := s.listProducts(ctx, params)
	categories := s.listCategories(ctx)

	filtered := Apply(products, criteria)
	return BrowseResult{
		Products: filtered,
		Facets:   BuildFacets(products, categories),
		Total:    len(filtered),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, slugOrID string) (Product, error) {
	if s.cache != nil {
		key := s.cache.CatalogCacheKey("product", slugOrID)
		var cached Product
		if s.readCache(ctx, key, &cached) {
			return cached, nil
		}
		product, err := s.api.GetProduct(ctx, slugOrID)
		if err != nil {
			return Product{}, err
		}
		s.writeCache(ctx, key, product, s.detailTTL)
		return product, nil
	}
	return s.api.GetProduct(ctx, slugOrID)
}

func (s *service) Categories(ctx context.Context, navbarOnly bool) ([]Category, error) {
	if navbarOnly {
		return s.fetchCategories(ctx, true), nil
	}
	return s.listCategories(ctx), nil
}

func (s *service) Featured(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		key := s.cache.CatalogCacheKey("featured")
		var cached []Product
		if s.readCache(ctx, key, &cached) {
			return cached, nil
		}
	}

	products, err := s.api.ListFeatured(ctx)
	if err != nil {
		s.logg.Warn(ctx, "featured products unavailable, serving empty list: "+err.Error())
		return []Product{}, nil
	}
	if products == nil {
		products = []Product{}
	}
	if s.cache != nil {
		s.writeCache(ctx, s.cache.CatalogCacheKey("featured"), products, s.listTTL)
	}
	return products, nil
}

func (s *service) Facets(ctx context.Context, params ListParams) (Facets, error) {
	products := s.listProducts(ctx, params)
	categories := s.listCategories(ctx)
	return BuildFacets(products, categories), nil
}

// listProducts fetches one listing page, serving from cache when possible and
// degrading to an empty slice when the upstream catalog fails.
func (s *service) listProducts(ctx context.Context, params ListParams) []Product {
	var key string
	if s.cache != nil {
		key = s.cache.CatalogCacheKey("products", params.queryKey())
		var cached []Product
		if s.readCache(ctx, key, &cached) {
			return cached
		}
	}

	page, err := s.api.ListProducts(ctx, params)
	if err != nil {
		s.logg.Warn(ctx, "product listing unavailable, serving empty list: "+err.Error())
		return []Product{}
	}
	products := page.Results
	if products == nil {
		products = []Product{}
	}
	if s.cache != nil {
		s.writeCache(ctx, key, products, s.listTTL)
	}
	return products
}

func (s *service) listCategories(ctx context.Context) []Category {
	return s.fetchCategories(ctx, false)
}

func (s *service) fetchCategories(ctx context.Context, navbarOnly bool) []Category {
	var key string
	if s.cache != nil {
		suffix := "all"
		if navbarOnly {
			suffix = "navbar"
		}
		key = s.cache.CatalogCacheKey("categories", suffix)
		var cached []Category
		if s.readCache(ctx, key, &cached) {
			return cached
		}
	}

	categories, err := s.api.ListCategories(ctx, navbarOnly)
	if err != nil {
		s.logg.Warn(ctx, "category listing unavailable, serving empty list: "+err.Error())
		return []Category{}
	}
	if categories == nil {
		categories = []Category{}
	}
	if s.cache != nil {
		s.writeCache(ctx, key, categories, s.listTTL)
	}
	return categories
}

func (s *service) readCache(ctx context.Context, key string, out any) bool {
	payload, err := s.cache.Get(ctx, key)
	if err != nil || payload == "" {
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logg.Warn(ctx, "discarding undecodable catalog cache entry: "+err.Error())
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), ttl); err != nil {
		s.logg.Warn(ctx, "failed to cache catalog response: "+err.Error())
	}
}
