package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/khaizansolutions/khaizan-storefront/api/responses"
	"github.com/khaizansolutions/khaizan-storefront/api/validators"
	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
)

const (
	maxListingPage     = 10000
	maxListingPageSize = 100
)

// ProductList serves a filtered product listing. Pagination narrows the
// upstream snapshot; category, type, price, and search criteria are applied
// locally so an unreachable catalog degrades to an empty page instead of an
// error.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := listParamsFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Browse(r.Context(), params, criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch strings.ToLower(r.URL.Query().Get("sort")) {
		case "price_asc":
			result.Products = catalog.SortByPrice(result.Products, true)
		case "price_desc":
			result.Products = catalog.SortByPrice(result.Products, false)
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductFetch resolves a single product by slug or id.
func ProductFetch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// CategoryList serves the category taxonomy for navigation and the filter
// sidebar.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context(), validators.ParseQueryBool(r, "navbar"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

// FeaturedList serves the curated featured set for the landing page.
func FeaturedList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductFacets serves baseline facet counts for the filter sidebar.
func ProductFacets(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := listParamsFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		facets, err := svc.Facets(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, facets)
	}
}

func listParamsFromQuery(r *http.Request) (catalog.ListParams, error) {
	page, err := validators.ParseQueryInt(r, "page", 0, 0, maxListingPage)
	if err != nil {
		return catalog.ListParams{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", 0, 0, maxListingPageSize)
	if err != nil {
		return catalog.ListParams{}, err
	}

	return catalog.ListParams{
		Category:    strings.TrimSpace(r.URL.Query().Get("category")),
		Subcategory: strings.TrimSpace(r.URL.Query().Get("subcategory")),
		Page:        page,
		PageSize:    pageSize,
		Featured:    validators.ParseQueryBool(r, "featured"),
	}, nil
}

func criteriaFromQuery(r *http.Request) (catalog.Criteria, error) {
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return catalog.Criteria{}, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return catalog.Criteria{}, err
	}
	if !priceMax.IsZero() && priceMax.LessThan(priceMin) {
		return catalog.Criteria{}, pkgerrors.New(pkgerrors.CodeValidation, "price_max must not be below price_min")
	}

	var productTypes []enums.ProductType
	for _, raw := range validators.ParseQueryList(r, "product_type") {
		productType, err := enums.ParseProductType(raw)
		if err != nil {
			return catalog.Criteria{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_type")
		}
		productTypes = append(productTypes, productType)
	}

	return catalog.Criteria{
		Categories:   validators.ParseQueryList(r, "categories"),
		ProductTypes: productTypes,
		PriceMin:     priceMin,
		PriceMax:     priceMax,
		Search:       strings.TrimSpace(r.URL.Query().Get("search")),
	}, nil
}
