package products

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/pagination"
)

var allowedSortColumns = map[string]bool{
	"name":       true,
	"sku":        true,
	"price":      true,
	"quantity":   true,
	"status":     true,
	"created_at": true,
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveGuarded persists the product only while the row still holds
// expectedQuantity. Returns false when a concurrent adjustment changed the
// quantity first.
func (r *Repository) SaveGuarded(ctx context.Context, product *models.Product, expectedQuantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity = ?", product.ID, expectedQuantity).
		Select("category_id", "name", "sku", "description", "image_url", "price", "quantity", "status").
		Updates(product)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindByID loads a product with its slim category association.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List returns a page of products honoring search, filters, and the sort
// allow-list.
func (r *Repository) List(ctx context.Context, input ListProductsInput, page pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if search := strings.TrimSpace(input.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?",
			needle, needle, needle,
		)
	}
	if input.CategoryID > 0 {
		query = query.Where("category_id = ?", input.CategoryID)
	}
	if input.Status != "" && input.Status != "all" {
		query = query.Where("status = ?", input.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := input.SortBy
	if !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(input.SortOrder, "asc") {
		direction = "ASC"
	}

	var rows []models.Product
	err := query.
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order(fmt.Sprintf("%s %s", sortBy, direction)).
		Limit(page.PerPage).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
