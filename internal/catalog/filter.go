package catalog

import (
	"sort"
	"strings"

	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// fallbackMaxPrice caps the default price range when a snapshot has no
// parseable prices at all.
var fallbackMaxPrice = decimal.NewFromInt(10000)

// Criteria is the transient set of user-selected filters. Zero values mean
// "no filtering" for every dimension.
type Criteria struct {
	Categories   []string
	ProductTypes []enums.ProductType
	PriceMin     decimal.Decimal
	PriceMax     decimal.Decimal
	Search       string
}

// IsZero reports whether no filtering dimension is active.
func (c Criteria) IsZero() bool {
	return len(c.Categories) == 0 &&
		len(c.ProductTypes) == 0 &&
		c.PriceMin.IsZero() &&
		c.PriceMax.IsZero() &&
		strings.TrimSpace(c.Search) == ""
}

// DefaultCriteria returns the identity criteria for a snapshot: no category,
// type, or search selection and the full `[0, MaxPrice]` range. Recompute it
// whenever the product list changes so the range tracks the snapshot.
func DefaultCriteria(products []Product) Criteria {
	return Criteria{
		PriceMin: decimal.Zero,
		PriceMax: MaxPrice(products),
	}
}

// MaxPrice returns the ceiling of the highest parseable price in the list,
// never lower than the fixed fallback bound.
func MaxPrice(products []Product) decimal.Decimal {
	max := fallbackMaxPrice
	for _, product := range products {
		price, ok := product.Price.Decimal()
		if !ok {
			continue
		}
		if price.GreaterThan(max) {
			max = price
		}
	}
	return max.Ceil()
}

// Apply filters the snapshot down to products satisfying every active
// criterion. It is pure: the input order is preserved and the inputs are
// never mutated.
func Apply(products []Product, criteria Criteria) []Product {
	categories := lowerSet(criteria.Categories)
	types := typeSet(criteria.ProductTypes)
	query := strings.ToLower(strings.TrimSpace(criteria.Search))

	out := make([]Product, 0, len(products))
	for _, product := range products {
		if !matchesCategory(product, categories) {
			continue
		}
		if !matchesType(product, types) {
			continue
		}
		if !matchesPrice(product, criteria.PriceMin, criteria.PriceMax) {
			continue
		}
		if !matchesSearch(product, query) {
			continue
		}
		out = append(out, product)
	}
	return out
}

// SortByPrice orders a filtered result by price. It is applied only on
// explicit request, never as part of filtering; products without a parseable
// price sink to the end in their original order.
func SortByPrice(products []Product, ascending bool) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool {
		left, okLeft := out[i].Price.Decimal()
		right, okRight := out[j].Price.Decimal()
		if !okLeft || !okRight {
			return okLeft && !okRight
		}
		if ascending {
			return left.LessThan(right)
		}
		return left.GreaterThan(right)
	})
	return out
}

// matchesCategory compares by category display name. Snapshots carry
// unreliable numeric foreign keys, so names are the stable join key.
func matchesCategory(product Product, selected map[string]struct{}) bool {
	if len(selected) == 0 {
		return true
	}
	_, ok := selected[strings.ToLower(product.DisplayCategory())]
	return ok
}

func matchesType(product Product, selected map[enums.ProductType]struct{}) bool {
	if len(selected) == 0 {
		return true
	}
	_, ok := selected[product.ProductType]
	return ok
}

// matchesPrice checks the inclusive range. Unparseable prices pass so that
// upstream data defects never hide inventory.
func matchesPrice(product Product, min, max decimal.Decimal) bool {
	if min.IsZero() && max.IsZero() {
		return true
	}
	price, ok := product.Price.Decimal()
	if !ok {
		return true
	}
	if price.LessThan(min) {
		return false
	}
	if !max.IsZero() && price.GreaterThan(max) {
		return false
	}
	return true
}

func matchesSearch(product Product, query string) bool {
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		product.Name,
		product.Brand,
		product.DisplayCategory(),
	}, " "))
	return strings.Contains(haystack, query)
}

func lowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func typeSet(values []enums.ProductType) map[enums.ProductType]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[enums.ProductType]struct{}, len(values))
	for _, value := range values {
		if value.IsValid() {
			set[value] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
