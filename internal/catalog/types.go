package catalog

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// FlexString absorbs catalog fields that arrive as either a JSON string or a
// JSON number; historical catalog payloads are inconsistent about both ids
// and prices.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		*f = FlexString(trimmed[1 : len(trimmed)-1])
		return nil
	}
	*f = FlexString(trimmed)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Decimal parses the value as a decimal amount. The boolean reports whether
// the parse succeeded; filters treat a failed parse as fail-open.
func (f FlexString) Decimal() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(string(f))
	if raw == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// Product is a read-only catalog record. The catalog API owns pricing,
// inventory, and categorization; this service never mutates these fields.
type Product struct {
	ID            FlexString        `json:"id"`
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand"`
	Price         FlexString        `json:"price"`
	OriginalPrice FlexString        `json:"original_price"`
	Discount      int               `json:"discount"`
	MainImage     string            `json:"main_image"`
	Image         string            `json:"image"`
	CategoryID    FlexString        `json:"category_id"`
	CategoryName  string            `json:"category_name"`
	Category      string            `json:"category"`
	ProductType   enums.ProductType `json:"product_type"`
	IsFeatured    bool              `json:"is_featured"`
	InStock       bool              `json:"in_stock"`
	StockCount    int               `json:"stock_count"`
	Rating        float64           `json:"rating"`
	Reviews       int               `json:"reviews"`
}

// DisplayCategory prefers the denormalized category name over the raw
// category field; snapshots disagree on which one is populated.
func (p Product) DisplayCategory() string {
	if p.CategoryName != "" {
		return p.CategoryName
	}
	return p.Category
}

// ImageURL prefers the primary image and falls back to the legacy field.
func (p Product) ImageURL() string {
	if p.MainImage != "" {
		return p.MainImage
	}
	return p.Image
}

// Category is a catalog taxonomy entry.
type Category struct {
	ID           FlexString `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	ProductCount int        `json:"product_count"`
}

// Page is the catalog's paginated list envelope.
type Page struct {
	Count    int       `json:"count"`
	Next     string    `json:"next"`
	Previous string    `json:"previous"`
	Results  []Product `json:"results"`
}

// ListParams narrows a catalog product listing.
type ListParams struct {
	Category    string
	Subcategory string
	ProductType enums.ProductType
	Search      string
	Page        int
	PageSize    int
	Featured    bool
}

func (p ListParams) queryKey() string {
	parts := []string{
		"cat=" + p.Category,
		"sub=" + p.Subcategory,
		"type=" + p.ProductType.String(),
		"q=" + p.Search,
		"page=" + strconv.Itoa(p.Page),
		"size=" + strconv.Itoa(p.PageSize),
		"featured=" + strconv.FormatBool(p.Featured),
	}
	return strings.Join(parts, "&")
}
