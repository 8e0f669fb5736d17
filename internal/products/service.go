package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stocktally/internal/stock"
	"stocktally/pkg/db"
	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	pkgerrors "stocktally/pkg/errors"
	"stocktally/pkg/pagination"
	"stocktally/pkg/types"
)

const (
	initialStockNote  = "Initial stock"
	productUpdateNote = "Product update"

	// updateMaxAttempts bounds the compare-and-swap retry loop when an
	// update races a concurrent stock adjustment.
	updateMaxAttempts = 3
)

var errQuantityConflict = errors.New("product quantity changed concurrently")

// Service exposes product management operations.
type Service interface {
	List(ctx context.Context, input ListProductsInput) ([]ProductDTO, types.PageMeta, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id int64) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type categoryLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

type service struct {
	repo       *Repository
	stockRepo  *stock.Repository
	categories categoryLoader
	dbClient   *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, stockRepo *stock.Repository, categories categoryLoader, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:       repo,
		stockRepo:  stockRepo,
		categories: categories,
		dbClient:   dbClient,
	}, nil
}

func (s *service) List(ctx context.Context, input ListProductsInput) ([]ProductDTO, types.PageMeta, error) {
	page := pagination.Normalize(pagination.Params{Page: input.Page, PerPage: input.PerPage}, pagination.DefaultPerPage)

	rows, total, err := s.repo.List(ctx, input, page)
	if err != nil {
		return nil, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, pagination.Meta(page, total), nil
}

// Create persists the product and, when the starting quantity is positive,
// the opening ledger row in the same transaction.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Name:        name,
		SKU:         sku,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		PriceCents:  input.Price,
		Quantity:    input.Quantity,
		Status:      enums.DeriveProductStatus(input.Quantity),
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"sku": "has already been taken"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}

		if product.Quantity > 0 {
			notes := initialStockNote
			movement := &models.StockMovement{
				ProductID:        product.ID,
				UserID:           input.UserID,
				Type:             enums.MovementTypeIn,
				Quantity:         product.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      product.Quantity,
				Notes:            &notes,
			}
			if err := s.stockRepo.WithTx(tx).CreateMovement(ctx, movement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record initial stock")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return fromModel(product), nil
}

// Update applies partial changes. A quantity change records a ledger row with
// its direction derived from the delta, in the same transaction as the save.
// The product write is guarded by a compare-and-swap on the quantity read at
// the start, so a stock adjustment landing in between is never overwritten.
func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	for attempt := 0; attempt < updateMaxAttempts; attempt++ {
		dto, err := s.tryUpdate(ctx, id, input)
		if err != nil {
			if errors.Is(err, errQuantityConflict) {
				continue
			}
			return nil, err
		}
		return dto, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock level changed concurrently, please retry")
}

func (s *service) tryUpdate(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	expected := product.Quantity

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
		}
		product.SKU = sku
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.PriceCents = *input.Price
	}

	var movement *models.StockMovement
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
		}
		previous := product.Quantity
		next := *input.Quantity
		if next != previous {
			movementType := enums.MovementTypeIn
			delta := next - previous
			if delta < 0 {
				movementType = enums.MovementTypeOut
				delta = -delta
			}
			notes := productUpdateNote
			movement = &models.StockMovement{
				ProductID:        product.ID,
				UserID:           input.UserID,
				Type:             movementType,
				Quantity:         delta,
				PreviousQuantity: previous,
				NewQuantity:      next,
				Notes:            &notes,
			}
			product.Quantity = next
		}
	}
	product.Status = enums.DeriveProductStatus(product.Quantity)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).SaveGuarded(ctx, product, expected)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"sku": "has already been taken"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		if !saved {
			return errQuantityConflict
		}
		if movement != nil {
			if err := s.stockRepo.WithTx(tx).CreateMovement(ctx, movement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, product.ID)
}

// Delete removes the product together with its ledger rows.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.StockMovement{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock movements")
		}
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
	return err
}

func (s *service) ensureCategoryExists(ctx context.Context, categoryID int64) error {
	if categoryID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"category_id": "is required"})
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"category_id": "does not exist"})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}
