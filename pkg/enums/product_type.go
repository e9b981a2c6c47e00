package enums

import "fmt"

// ProductType represents the storefront's product lines.
type ProductType string

const (
	ProductTypeNew         ProductType = "new"
	ProductTypeRefurbished ProductType = "refurbished"
	ProductTypeRental      ProductType = "rental"
)

var validProductTypes = []ProductType{
	ProductTypeNew,
	ProductTypeRefurbished,
	ProductTypeRental,
}

// ProductTypes lists every known product line in display order.
func ProductTypes() []ProductType {
	out := make([]ProductType, len(validProductTypes))
	copy(out, validProductTypes)
	return out
}

// String implements fmt.Stringer.
func (t ProductType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ProductType.
func (t ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
