package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stocktally/pkg/db"
	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	pkgerrors "stocktally/pkg/errors"
	"stocktally/pkg/pagination"
	"stocktally/pkg/types"
)

const (
	// adjustMaxAttempts bounds the compare-and-swap retry loop when
	// concurrent writers race on the same product row.
	adjustMaxAttempts = 3

	defaultMovementsPerPage = 20
	defaultStatisticsDays   = 30
)

var errQuantityConflict = errors.New("product quantity changed concurrently")

// Service exposes stock adjustment and reporting operations.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*AdjustmentDTO, error)
	ListMovements(ctx context.Context, input ListMovementsInput) ([]MovementDTO, types.PageMeta, error)
	Statistics(ctx context.Context, input StatisticsInput) (*StatisticsDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a stock service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Adjust applies one stock movement to a product. The product row and the
// ledger row commit in the same transaction; the quantity write is guarded by
// a compare-and-swap on the previously read quantity so racing adjustments
// serialize instead of losing updates.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*AdjustmentDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be in or out")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *AdjustmentDTO
	for attempt := 0; attempt < adjustMaxAttempts; attempt++ {
		applied, err := s.tryAdjust(ctx, input)
		if err != nil {
			if errors.Is(err, errQuantityConflict) {
				continue
			}
			return nil, err
		}
		result = applied
		break
	}
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock level changed concurrently, please retry")
	}
	return result, nil
}

func (s *service) tryAdjust(ctx context.Context, input AdjustInput) (*AdjustmentDTO, error) {
	var dto *AdjustmentDTO

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		previous := product.Quantity
		var next int
		switch input.Type {
		case enums.MovementTypeOut:
			if input.Quantity > previous {
				return pkgerrors.New(
					pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", previous, input.Quantity),
				).WithDetails(map[string]any{"available": previous, "requested": input.Quantity})
			}
			next = previous - input.Quantity
		default:
			next = previous + input.Quantity
		}

		status := enums.DeriveProductStatus(next)

		swapped, err := repo.AdjustProductQuantity(ctx, product.ID, previous, next, status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product quantity")
		}
		if !swapped {
			return errQuantityConflict
		}

		movement := &models.StockMovement{
			ProductID:        product.ID,
			UserID:           input.UserID,
			Type:             input.Type,
			Quantity:         input.Quantity,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Notes:            input.Notes,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}

		moved := input.Quantity
		dto = &AdjustmentDTO{
			ID:               product.ID,
			Name:             product.Name,
			SKU:              product.SKU,
			Type:             input.Type,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Status:           status,
		}
		if input.Type == enums.MovementTypeOut {
			dto.RemovedQuantity = &moved
		} else {
			dto.AddedQuantity = &moved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) ListMovements(ctx context.Context, input ListMovementsInput) ([]MovementDTO, types.PageMeta, error) {
	if input.Type != "" && input.Type != string(enums.MovementTypeIn) && input.Type != string(enums.MovementTypeOut) {
		return nil, types.PageMeta{}, pkgerrors.New(pkgerrors.CodeValidation, "type must be in or out")
	}

	page := pagination.Normalize(pagination.Params{Page: input.Page, PerPage: input.PerPage}, defaultMovementsPerPage)

	rows, total, err := s.repo.ListMovements(ctx, input, page)
	if err != nil {
		return nil, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}

	out := make([]MovementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, movementFromModel(&rows[i]))
	}
	return out, pagination.Meta(page, total), nil
}

// Statistics aggregates moved quantities, transaction counts, and a per-day
// breakdown over the window, defaulting to the trailing 30 days.
func (s *service) Statistics(ctx context.Context, input StatisticsInput) (*StatisticsDTO, error) {
	to := input.ToDate
	if to.IsZero() {
		to = time.Now().UTC()
	}
	from := input.FromDate
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultStatisticsDays)
	}
	if from.After(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from_date must not be after to_date")
	}

	inTotal, err := s.repo.SumQuantity(ctx, enums.MovementTypeIn, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock in")
	}
	outTotal, err := s.repo.SumQuantity(ctx, enums.MovementTypeOut, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock out")
	}
	inCount, err := s.repo.CountMovements(ctx, enums.MovementTypeIn, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock in")
	}
	outCount, err := s.repo.CountMovements(ctx, enums.MovementTypeOut, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock out")
	}
	daily, err := s.repo.DailyBreakdown(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily breakdown")
	}
	if daily == nil {
		daily = []DailyStatDTO{}
	}

	return &StatisticsDTO{
		Period: PeriodDTO{
			From: from.Format(dateFormat),
			To:   to.Format(dateFormat),
		},
		Totals: TotalsDTO{
			StockIn:   inTotal,
			StockOut:  outTotal,
			NetChange: inTotal - outTotal,
		},
		Counts: CountsDTO{
			StockInTransactions:  inCount,
			StockOutTransactions: outCount,
		},
		DailyBreakdown: daily,
	}, nil
}
