package categories

import (
	"time"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
)

// CategoryDTO is the transport shape for a category, including its product count.
type CategoryDTO struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	Status        enums.CategoryStatus `json:"status"`
	ProductsCount int64                `json:"products_count"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ActiveCategoryDTO is the slim shape served to dropdown pickers.
type ActiveCategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Status      *enums.CategoryStatus
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Status      *enums.CategoryStatus
}

// ListCategoriesInput captures list filters.
type ListCategoriesInput struct {
	Search  string
	Status  string // active | inactive | all (empty = all)
	Page    int
	PerPage int
}

func fromModel(c *models.Category, productsCount int64) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Status:        c.Status,
		ProductsCount: productsCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
