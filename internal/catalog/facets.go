package catalog

import (
	"strings"

	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// CategoryFacet annotates a filter checkbox with its baseline product count.
type CategoryFacet struct {
	ID    FlexString `json:"id"`
	Name  string     `json:"name"`
	Count int        `json:"count"`
}

// TypeFacet annotates a product-line toggle with its baseline count.
type TypeFacet struct {
	Value enums.ProductType `json:"value"`
	Label string            `json:"label"`
	Count int               `json:"count"`
}

// Facets carries everything the filter sidebar needs.
type Facets struct {
	Categories   []CategoryFacet `json:"categories"`
	ProductTypes []TypeFacet     `json:"product_types"`
	MaxPrice     decimal.Decimal `json:"max_price"`
}

var typeLabels = map[enums.ProductType]string{
	enums.ProductTypeNew:         "New",
	enums.ProductTypeRefurbished: "Refurbished",
	enums.ProductTypeRental:      "Rental",
}

// BuildFacets derives sidebar metadata from the UNFILTERED snapshot. Counts
// reflect the baseline universe: selecting a filter must not change the
// numbers shown next to the other options.
func BuildFacets(products []Product, categories []Category) Facets {
	countsByCategory := make(map[string]int, len(categories))
	for _, product := range products {
		name := strings.ToLower(product.DisplayCategory())
		if name == "" {
			continue
		}
		countsByCategory[name]++
	}

	categoryFacets := make([]CategoryFacet, 0, len(categories))
	for _, category := range categories {
		categoryFacets = append(categoryFacets, CategoryFacet{
			ID:    category.ID,
			Name:  category.Name,
			Count: countsByCategory[strings.ToLower(category.Name)],
		})
	}

	typeFacets := make([]TypeFacet, 0, len(typeLabels))
	for _, productType := range enums.ProductTypes() {
		count := 0
		for _, product := range products {
			if product.ProductType == productType {
				count++
			}
		}
		typeFacets = append(typeFacets, TypeFacet{
			Value: productType,
			Label: typeLabels[productType],
			Count: count,
		})
	}

	return Facets{
		Categories:   categoryFacets,
		ProductTypes: typeFacets,
		MaxPrice:     MaxPrice(products),
	}
}
