package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"stocktally/api/middleware"
	"stocktally/api/responses"
	"stocktally/api/validators"
	productsvc "stocktally/internal/products"
	"stocktally/pkg/logger"
	"stocktally/pkg/pagination"
)

type createProductRequest struct {
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	SKU         string  `json:"sku" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Price       int64   `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	// Status is accepted for older clients but never forwarded; the stored
	// status is always derived from quantity.
	Status *string `json:"status,omitempty"`
}

type updateProductRequest struct {
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	SKU         *string `json:"sku,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	// Status is accepted for older clients but never forwarded; the stored
	// status is always derived from quantity.
	Status *string `json:"status,omitempty"`
}

// ProductList serves a paginated product listing with filters and sorting.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPageNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryInt64(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), productsvc.ListProductsInput{
			Search:     r.URL.Query().Get("search"),
			CategoryID: categoryID,
			Status:     r.URL.Query().Get("status"),
			SortBy:     r.URL.Query().Get("sort_by"),
			SortOrder:  r.URL.Query().Get("sort_order"),
			Page:       page,
			PerPage:    perPage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, rows, meta)
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			CategoryID:  payload.CategoryID,
			Name:        strings.TrimSpace(payload.Name),
			SKU:         strings.TrimSpace(payload.SKU),
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			Price:       payload.Price,
			Quantity:    payload.Quantity,
			UserID:      actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, productsvc.UpdateProductInput{
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			SKU:         payload.SKU,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			Price:       payload.Price,
			Quantity:    payload.Quantity,
			UserID:      actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// actorID returns the authenticated user's ID for ledger attribution, or nil
// when the request carries no user context.
func actorID(r *http.Request) *int64 {
	userID := middleware.UserIDFromContext(r.Context())
	if userID <= 0 {
		return nil
	}
	return &userID
}
