package stock

import (
	"time"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
)

// AdjustInput is the validated payload for a stock-in/stock-out adjustment.
type AdjustInput struct {
	ProductID int64
	Type      enums.MovementType
	Quantity  int
	Notes     *string
	UserID    *int64
}

// AdjustmentDTO summarizes the applied adjustment for the response body.
// The moved amount serializes under a direction-specific key: added_quantity
// for stock-in, removed_quantity for stock-out.
type AdjustmentDTO struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	SKU              string              `json:"sku"`
	Type             enums.MovementType  `json:"type"`
	PreviousQuantity int                 `json:"previous_quantity"`
	AddedQuantity    *int                `json:"added_quantity,omitempty"`
	RemovedQuantity  *int                `json:"removed_quantity,omitempty"`
	NewQuantity      int                 `json:"new_quantity"`
	Status           enums.ProductStatus `json:"status"`
}

// MovementProductDTO is the slim product shape embedded in movement listings.
type MovementProductDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// MovementUserDTO is the slim user shape embedded in movement listings.
type MovementUserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovementDTO is one immutable ledger row.
type MovementDTO struct {
	ID               int64               `json:"id"`
	ProductID        int64               `json:"product_id"`
	Product          *MovementProductDTO `json:"product,omitempty"`
	UserID           *int64              `json:"user_id"`
	User             *MovementUserDTO    `json:"user,omitempty"`
	Type             enums.MovementType  `json:"type"`
	Quantity         int                 `json:"quantity"`
	PreviousQuantity int                 `json:"previous_quantity"`
	NewQuantity      int                 `json:"new_quantity"`
	Notes            *string             `json:"notes"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ListMovementsInput captures movement listing filters.
type ListMovementsInput struct {
	ProductID int64  // 0 = all products
	Type      string // in | out | "" = all
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	PerPage   int
}

// StatisticsInput bounds the reporting window. Zero values default to the
// trailing 30 days.
type StatisticsInput struct {
	FromDate time.Time
	ToDate   time.Time
}

// PeriodDTO echoes the resolved reporting window.
type PeriodDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TotalsDTO aggregates moved quantities over the window.
type TotalsDTO struct {
	StockIn   int64 `json:"stock_in"`
	StockOut  int64 `json:"stock_out"`
	NetChange int64 `json:"net_change"`
}

// CountsDTO aggregates transaction counts over the window.
type CountsDTO struct {
	StockInTransactions  int64 `json:"stock_in_transactions"`
	StockOutTransactions int64 `json:"stock_out_transactions"`
}

// DailyStatDTO is one chart point of the per-day breakdown.
type DailyStatDTO struct {
	Date     string `json:"date"`
	StockIn  int64  `json:"stock_in"`
	StockOut int64  `json:"stock_out"`
}

// StatisticsDTO is the full reporting payload.
type StatisticsDTO struct {
	Period         PeriodDTO      `json:"period"`
	Totals         TotalsDTO      `json:"totals"`
	Counts         CountsDTO      `json:"counts"`
	DailyBreakdown []DailyStatDTO `json:"daily_breakdown"`
}

func movementFromModel(m *models.StockMovement) MovementDTO {
	dto := MovementDTO{
		ID:               m.ID,
		ProductID:        m.ProductID,
		UserID:           m.UserID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
	if m.Product != nil {
		dto.Product = &MovementProductDTO{ID: m.Product.ID, Name: m.Product.Name, SKU: m.Product.SKU}
	}
	if m.User != nil {
		dto.User = &MovementUserDTO{ID: m.User.ID, Name: m.User.Name}
	}
	return dto
}
