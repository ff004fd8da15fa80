package domain

import "time"

// ProductStatus controls public visibility of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// DefaultProductCategory is used when a product is created without a category.
const DefaultProductCategory = "General"

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product belongs to a Business through BusinessID.
type Product struct {
	ID          string
	BusinessID  string
	Name        string
	Price       float64
	Category    string
	Description string
	Image       *string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
