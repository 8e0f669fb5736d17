package models

import (
	"time"

	"stocktally/pkg/enums"
)

// Product is the mutable inventory record. Status is derived from quantity
// through enums.DeriveProductStatus and is never written independently.
type Product struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID  int64               `gorm:"column:category_id;not null;index"`
	Name        string              `gorm:"column:name;not null"`
	SKU         string              `gorm:"column:sku;uniqueIndex;not null"`
	Description *string             `gorm:"column:description"`
	ImageURL    *string             `gorm:"column:image_url"`
	PriceCents  int64               `gorm:"column:price;not null"`
	Quantity    int                 `gorm:"column:quantity;not null;default:0"`
	Status      enums.ProductStatus `gorm:"column:status;not null"`
	Category    *Category           `gorm:"foreignKey:CategoryID"`
	Movements   []StockMovement     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
