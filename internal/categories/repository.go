package categories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	"stocktally/pkg/pagination"
)

const productsCountSelect = "categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS products_count"

// categoryRow carries a category plus its product count from list queries.
type categoryRow struct {
	models.Category
	ProductsCount int64 `gorm:"column:products_count"`
}

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Save persists all fields of an existing category row.
func (r *Repository) Save(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a category by its identifier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName loads a category by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CountProducts reports how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// List returns a page of categories with product counts, ordered by name.
func (r *Repository) List(ctx context.Context, input ListCategoriesInput, page pagination.Params) ([]categoryRow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})

	if input.Status != "" && input.Status != "all" {
		query = query.Where("status = ?", input.Status)
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []categoryRow
	err := query.
		Select(productsCountSelect).
		Order("name ASC").
		Limit(page.PerPage).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListActive returns id/name pairs of active categories, ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]ActiveCategoryDTO, error) {
	var rows []ActiveCategoryDTO
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("status = ?", enums.CategoryStatusActive).
		Order("name ASC").
		Select("id", "name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
