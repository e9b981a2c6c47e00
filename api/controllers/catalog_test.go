package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
	"github.com/khaizansolutions/khaizan-storefront/pkg/types"
)

type stubCatalogService struct {
	result       catalog.BrowseResult
	product      catalog.Product
	categories   []catalog.Category
	featured     []catalog.Product
	facets       catalog.Facets
	err          error
	lastParams   catalog.ListParams
	lastCriteria catalog.Criteria
}

func (s *stubCatalogService) Browse(_ context.Context, params catalog.ListParams, criteria catalog.Criteria) (catalog.BrowseResult, error) {
	s.lastParams = params
	s.lastCriteria = criteria
	return s.result, s.err
}

func (s *stubCatalogService) GetProduct(_ context.Context, _ string) (catalog.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) Categories(_ context.Context, _ bool) ([]catalog.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) Featured(_ context.Context) ([]catalog.Product, error) {
	return s.featured, s.err
}

func (s *stubCatalogService) Facets(_ context.Context, params catalog.ListParams) (catalog.Facets, error) {
	s.lastParams = params
	return s.facets, s.err
}

func newCatalogRouter(svc catalog.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", ProductList(svc, nil))
	r.Get("/products/featured", FeaturedList(svc, nil))
	r.Get("/products/facets", ProductFacets(svc, nil))
	r.Get("/products/{slug}", ProductFetch(svc, nil))
	r.Get("/categories", CategoryList(svc, nil))
	return r
}

func TestProductListParsesFilters(t *testing.T) {
	svc := &stubCatalogService{result: catalog.BrowseResult{Products: []catalog.Product{}, Total: 0}}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/products?categories=Printers,Desk%20Accessories&product_type=new,rental&price_min=10&price_max=500&search=laser&page=2&page_size=50", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(svc.lastCriteria.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", svc.lastCriteria.Categories)
	}
	if len(svc.lastCriteria.ProductTypes) != 2 || svc.lastCriteria.ProductTypes[0] != enums.ProductTypeNew {
		t.Fatalf("unexpected types %v", svc.lastCriteria.ProductTypes)
	}
	if svc.lastCriteria.PriceMin.String() != "10" || svc.lastCriteria.PriceMax.String() != "500" {
		t.Fatalf("unexpected price range %s..%s", svc.lastCriteria.PriceMin, svc.lastCriteria.PriceMax)
	}
	if svc.lastCriteria.Search != "laser" {
		t.Fatalf("unexpected search %q", svc.lastCriteria.Search)
	}
	if svc.lastParams.Page != 2 || svc.lastParams.PageSize != 50 {
		t.Fatalf("unexpected pagination %+v", svc.lastParams)
	}
}

func TestProductListRejectsInvalidProductType(t *testing.T) {
	svc := &stubCatalogService{}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products?product_type=used", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProductListRejectsInvertedPriceRange(t *testing.T) {
	svc := &stubCatalogService{}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products?price_min=100&price_max=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProductListSortsByPriceOnRequest(t *testing.T) {
	svc := &stubCatalogService{result: catalog.BrowseResult{
		Products: []catalog.Product{
			{ID: "1", Price: "300"},
			{ID: "2", Price: "20"},
		},
		Total: 2,
	}}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products?sort=price_asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data catalog.BrowseResult `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data.Products) != 2 || body.Data.Products[0].ID.String() != "2" {
		t.Fatalf("expected ascending price order, got %+v", body.Data.Products)
	}
}

func TestProductFetchNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestCategoryListReturnsTaxonomy(t *testing.T) {
	svc := &stubCatalogService{categories: []catalog.Category{{ID: "1", Name: "Printers"}}}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/categories?navbar=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
