package enums

import "fmt"

// ProductStatus describes the derived stock level of a product.
type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "in_stock"
	ProductStatusLowStock   ProductStatus = "low_stock"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// LowStockThreshold is the quantity below which a product counts as low stock.
const LowStockThreshold = 10

var validProductStatuses = []ProductStatus{
	ProductStatusInStock,
	ProductStatusLowStock,
	ProductStatusOutOfStock,
}

// String returns the literal string for the status.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the status is known.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// DeriveProductStatus maps a quantity to its status. The status column is
// never set directly; every quantity write goes through this rule.
func DeriveProductStatus(quantity int) ProductStatus {
	switch {
	case quantity <= 0:
		return ProductStatusOutOfStock
	case quantity < LowStockThreshold:
		return ProductStatusLowStock
	default:
		return ProductStatusInStock
	}
}
