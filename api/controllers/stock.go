package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stocktally/api/responses"
	"stocktally/api/validators"
	stocksvc "stocktally/internal/stock"
	"stocktally/pkg/enums"
	"stocktally/pkg/logger"
	"stocktally/pkg/pagination"
)

type stockAdjustRequest struct {
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ProductStockIn receives stock against a product.
func ProductStockIn(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return stockAdjust(svc, logg, enums.MovementTypeIn)
}

// ProductStockOut removes stock from a product.
func ProductStockOut(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return stockAdjust(svc, logg, enums.MovementTypeOut)
}

func stockAdjust(svc stocksvc.Service, logg *logger.Logger, movementType enums.MovementType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockAdjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Adjust(r.Context(), stocksvc.AdjustInput{
			ProductID: productID,
			Type:      movementType,
			Quantity:  payload.Quantity,
			Notes:     payload.Notes,
			UserID:    actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductStockMovements lists the ledger for one product.
func ProductStockMovements(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listStockMovements(svc, logg, productID, w, r)
	}
}

// StockMovementList lists the ledger across all products.
func StockMovementList(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseQueryInt64(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listStockMovements(svc, logg, productID, w, r)
	}
}

func listStockMovements(svc stocksvc.Service, logg *logger.Logger, productID int64, w http.ResponseWriter, r *http.Request) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPageNumber)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", 0, 1, pagination.MaxPerPage)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	fromDate, err := optionalQueryDate(r, "from_date")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	toDate, err := optionalQueryDate(r, "to_date")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	rows, meta, err := svc.ListMovements(r.Context(), stocksvc.ListMovementsInput{
		ProductID: productID,
		Type:      r.URL.Query().Get("type"),
		FromDate:  fromDate,
		ToDate:    toDate,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WritePage(w, rows, meta)
}

// StockStatistics serves windowed movement totals and the daily breakdown.
func StockStatistics(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input stocksvc.StatisticsInput

		fromDate, ok, err := validators.ParseQueryDate(r, "from_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if ok {
			input.FromDate = fromDate
		}

		toDate, ok, err := validators.ParseQueryDate(r, "to_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if ok {
			input.ToDate = toDate
		}

		stats, err := svc.Statistics(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

func optionalQueryDate(r *http.Request, key string) (*time.Time, error) {
	value, ok, err := validators.ParseQueryDate(r, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &value, nil
}
