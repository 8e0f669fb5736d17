package models

import (
	"time"

	"stocktally/pkg/enums"
)

// StockMovement is an immutable ledger row recording one quantity change.
// Rows are only ever inserted; new_quantity == previous_quantity +/- quantity
// depending on type.
type StockMovement struct {
	ID               int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID        int64              `gorm:"column:product_id;not null;index"`
	UserID           *int64             `gorm:"column:user_id"`
	Type             enums.MovementType `gorm:"column:type;not null"`
	Quantity         int                `gorm:"column:quantity;not null"`
	PreviousQuantity int                `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                `gorm:"column:new_quantity;not null"`
	Notes            *string            `gorm:"column:notes"`
	Product          *Product           `gorm:"foreignKey:ProductID"`
	User             *User              `gorm:"foreignKey:UserID"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime;index"`
}
