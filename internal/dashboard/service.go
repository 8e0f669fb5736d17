package dashboard

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	pkgerrors "stocktally/pkg/errors"
)

const (
	lowStockProductsLimit  = 10
	categoryBreakdownLimit = 5
)

// LowStockProductDTO is one entry in the dashboard's restock list.
type LowStockProductDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// CategorySliceDTO is one slice of the category breakdown chart.
type CategorySliceDTO struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// StatsDTO is the dashboard summary payload. Field names follow the frontend
// chart contract, hence the camelCase keys.
type StatsDTO struct {
	TotalProducts     int64                `json:"totalProducts"`
	TotalValue        int64                `json:"totalValue"`
	LowStockCount     int64                `json:"lowStockCount"`
	OutOfStockCount   int64                `json:"outOfStockCount"`
	CategoriesCount   int64                `json:"categoriesCount"`
	LowStockProducts  []LowStockProductDTO `json:"lowStockProducts"`
	CategoryBreakdown []CategorySliceDTO   `json:"categoryBreakdown"`
}

// Service aggregates inventory health figures for the dashboard.
type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs a dashboard service instance.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{
		LowStockProducts:  []LowStockProductDTO{},
		CategoryBreakdown: []CategorySliceDTO{},
	}

	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Count(&stats.TotalProducts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	var totalValue *int64
	err = s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("SUM(price * quantity)").
		Scan(&totalValue).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum inventory value")
	}
	if totalValue != nil {
		stats.TotalValue = *totalValue
	}

	err = s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("quantity > 0 AND quantity < ?", enums.LowStockThreshold).
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	err = s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("quantity <= 0").
		Count(&stats.OutOfStockCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count out of stock")
	}

	err = s.db.WithContext(ctx).
		Model(&models.Category{}).
		Count(&stats.CategoriesCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}

	lowStock, err := s.lowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockProducts = lowStock

	breakdown, err := s.categoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	stats.CategoryBreakdown = breakdown

	return stats, nil
}

func (s *service) lowStockProducts(ctx context.Context) ([]LowStockProductDTO, error) {
	rows := []LowStockProductDTO{}
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.id", "products.name", "products.sku", "categories.name AS category", "products.quantity").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.quantity > 0 AND products.quantity < ?", enums.LowStockThreshold).
		Order("products.quantity ASC").
		Limit(lowStockProductsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load low stock products")
	}
	return rows, nil
}

func (s *service) categoryBreakdown(ctx context.Context) ([]CategorySliceDTO, error) {
	rows := []CategorySliceDTO{}
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.name", "COUNT(products.id) AS value").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("value DESC").
		Limit(categoryBreakdownLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category breakdown")
	}
	return rows, nil
}
