package models

import (
	"time"

	"stocktally/pkg/enums"
)

// Category groups products. The name is the business key.
type Category struct {
	ID          int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string               `gorm:"column:name;uniqueIndex;not null"`
	Description *string              `gorm:"column:description"`
	Status      enums.CategoryStatus `gorm:"column:status;not null;default:active"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
