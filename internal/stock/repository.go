package stock

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	"stocktally/pkg/pagination"
)

const dateFormat = "2006-01-02"

// Repository exposes ledger persistence plus the guarded product-quantity
// update used by adjustments.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stock repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProduct loads the product row without associations.
func (r *Repository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// AdjustProductQuantity applies the new quantity and derived status only when
// the row still holds the expected previous quantity. Returns false when a
// concurrent writer got there first.
func (r *Repository) AdjustProductQuantity(ctx context.Context, productID int64, previousQuantity, newQuantity int, status enums.ProductStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity = ?", productID, previousQuantity).
		Updates(map[string]any{
			"quantity": newQuantity,
			"status":   status,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CreateMovement appends one immutable ledger row.
func (r *Repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ListMovements returns a page of ledger rows, newest first, with the slim
// product and user associations preloaded.
func (r *Repository) ListMovements(ctx context.Context, input ListMovementsInput, page pagination.Params) ([]models.StockMovement, int64, error) {
	query := r.movementQuery(ctx, input)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockMovement
	err := query.
		Preload("Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "sku")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.PerPage).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SumQuantity totals moved units of one movement type inside the window.
func (r *Repository) SumQuantity(ctx context.Context, movementType enums.MovementType, from, to time.Time) (int64, error) {
	var total *int64
	err := r.windowQuery(ctx, from, to).
		Where("type = ?", movementType).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// CountMovements counts ledger rows of one movement type inside the window.
func (r *Repository) CountMovements(ctx context.Context, movementType enums.MovementType, from, to time.Time) (int64, error) {
	var count int64
	err := r.windowQuery(ctx, from, to).
		Where("type = ?", movementType).
		Count(&count).Error
	return count, err
}

// DailyBreakdown groups moved quantities by calendar day inside the window.
func (r *Repository) DailyBreakdown(ctx context.Context, from, to time.Time) ([]DailyStatDTO, error) {
	var rows []DailyStatDTO
	err := r.windowQuery(ctx, from, to).
		Select(
			"CAST(DATE(created_at) AS TEXT) AS date",
			"SUM(CASE WHEN type = 'in' THEN quantity ELSE 0 END) AS stock_in",
			"SUM(CASE WHEN type = 'out' THEN quantity ELSE 0 END) AS stock_out",
		).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) movementQuery(ctx context.Context, input ListMovementsInput) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})

	if input.ProductID > 0 {
		query = query.Where("product_id = ?", input.ProductID)
	}
	if input.Type == string(enums.MovementTypeIn) || input.Type == string(enums.MovementTypeOut) {
		query = query.Where("type = ?", input.Type)
	}
	if input.FromDate != nil {
		query = query.Where("DATE(created_at) >= ?", input.FromDate.Format(dateFormat))
	}
	if input.ToDate != nil {
		query = query.Where("DATE(created_at) <= ?", input.ToDate.Format(dateFormat))
	}
	return query
}

func (r *Repository) windowQuery(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("DATE(created_at) >= ?", from.Format(dateFormat)).
		Where("DATE(created_at) <= ?", to.Format(dateFormat))
}
