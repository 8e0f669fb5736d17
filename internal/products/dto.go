package products

import (
	"time"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
)

// CategoryRefDTO is the slim category shape embedded in product payloads.
type CategoryRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductDTO is the transport shape for a product.
type ProductDTO struct {
	ID          int64               `json:"id"`
	CategoryID  int64               `json:"category_id"`
	Category    *CategoryRefDTO     `json:"category,omitempty"`
	Name        string              `json:"name"`
	SKU         string              `json:"sku"`
	Description *string             `json:"description"`
	ImageURL    *string             `json:"image_url"`
	Price       int64               `json:"price"`
	Quantity    int                 `json:"quantity"`
	Status      enums.ProductStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
// Caller-supplied status is intentionally absent: status is always derived
// from quantity.
type CreateProductInput struct {
	CategoryID  int64
	Name        string
	SKU         string
	Description *string
	ImageURL    *string
	Price       int64
	Quantity    int
	UserID      *int64
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID  *int64
	Name        *string
	SKU         *string
	Description *string
	ImageURL    *string
	Price       *int64
	Quantity    *int
	UserID      *int64
}

// ListProductsInput captures product listing filters.
type ListProductsInput struct {
	Search     string
	CategoryID int64  // 0 = all
	Status     string // in_stock | low_stock | out_of_stock | all/empty
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

func fromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.PriceCents,
		Quantity:    p.Quantity,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		dto.Category = &CategoryRefDTO{ID: p.Category.ID, Name: p.Category.Name}
	}
	return dto
}
