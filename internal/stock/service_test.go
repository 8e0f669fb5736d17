package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stocktally/pkg/db"
	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	pkgerrors "stocktally/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.StockMovement{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.FromGorm(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, conn
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, quantity int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Cat-" + uuid.NewString(), Status: enums.CategoryStatusActive}
	if err := conn.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		CategoryID: category.ID,
		Name:       "Test Product",
		SKU:        "SKU-" + uuid.NewString(),
		PriceCents: 1250,
		Quantity:   quantity,
		Status:     enums.DeriveProductStatus(quantity),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestAdjustStockIn(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 5)

	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.MovementTypeIn,
		Quantity:  10,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if result.PreviousQuantity != 5 || result.NewQuantity != 15 {
		t.Fatalf("unexpected quantities %+v", result)
	}
	if result.AddedQuantity == nil || *result.AddedQuantity != 10 {
		t.Fatalf("expected added_quantity 10, got %+v", result.AddedQuantity)
	}
	if result.RemovedQuantity != nil {
		t.Fatalf("stock-in must not carry removed_quantity, got %+v", result.RemovedQuantity)
	}
	if result.Status != enums.ProductStatusInStock {
		t.Fatalf("expected in_stock, got %s", result.Status)
	}

	var stored models.Product
	if err := conn.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 15 || stored.Status != enums.ProductStatusInStock {
		t.Fatalf("product row not updated: %+v", stored)
	}

	var movements []models.StockMovement
	if err := conn.Where("product_id = ?", product.ID).Find(&movements).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(movements))
	}
	m := movements[0]
	if m.Type != enums.MovementTypeIn || m.Quantity != 10 || m.PreviousQuantity != 5 || m.NewQuantity != 15 {
		t.Fatalf("unexpected ledger row %+v", m)
	}
}

func TestAdjustStockOutDerivesStatus(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 12)

	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.MovementTypeOut,
		Quantity:  4,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if result.NewQuantity != 8 || result.Status != enums.ProductStatusLowStock {
		t.Fatalf("expected low_stock at 8, got %+v", result)
	}
	if result.RemovedQuantity == nil || *result.RemovedQuantity != 4 {
		t.Fatalf("expected removed_quantity 4, got %+v", result.RemovedQuantity)
	}
	if result.AddedQuantity != nil {
		t.Fatalf("stock-out must not carry added_quantity, got %+v", result.AddedQuantity)
	}

	result, err = svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.MovementTypeOut,
		Quantity:  8,
	})
	if err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}
	if result.NewQuantity != 0 || result.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("expected out_of_stock at 0, got %+v", result)
	}
}

func TestAdjustInsufficientStock(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 3)

	_, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.MovementTypeOut,
		Quantity:  5,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if typed.Message() != "Insufficient stock. Available: 3, Requested: 5" {
		t.Fatalf("unexpected message %q", typed.Message())
	}

	// nothing may have been written
	var stored models.Product
	if err := conn.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("quantity mutated to %d", stored.Quantity)
	}
	var count int64
	if err := conn.Model(&models.StockMovement{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no ledger rows, got %d", count)
	}
}

func TestAdjustValidation(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 3)

	_, err := svc.Adjust(ctx, AdjustInput{ProductID: product.ID, Type: enums.MovementTypeIn, Quantity: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	_, err = svc.Adjust(ctx, AdjustInput{ProductID: product.ID, Type: "sideways", Quantity: 1})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}

	_, err = svc.Adjust(ctx, AdjustInput{ProductID: 9999, Type: enums.MovementTypeIn, Quantity: 1})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustGuardedUpdateDetectsStaleRead(t *testing.T) {
	t.Parallel()

	_, repo, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 10)

	// a writer with a stale previous quantity must not win
	swapped, err := repo.AdjustProductQuantity(ctx, product.ID, 7, 12, enums.ProductStatusInStock)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if swapped {
		t.Fatal("stale update should not have matched any row")
	}

	swapped, err = repo.AdjustProductQuantity(ctx, product.ID, 10, 12, enums.ProductStatusInStock)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if !swapped {
		t.Fatal("expected matching update to succeed")
	}
}

func TestListMovementsFilters(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	productA := mustCreateTestProduct(t, conn, 50)
	productB := mustCreateTestProduct(t, conn, 50)

	for _, adj := range []AdjustInput{
		{ProductID: productA.ID, Type: enums.MovementTypeIn, Quantity: 5},
		{ProductID: productA.ID, Type: enums.MovementTypeOut, Quantity: 2},
		{ProductID: productB.ID, Type: enums.MovementTypeIn, Quantity: 7},
	} {
		if _, err := svc.Adjust(ctx, adj); err != nil {
			t.Fatalf("seed adjust: %v", err)
		}
	}

	rows, meta, err := svc.ListMovements(ctx, ListMovementsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 movements, got %d (total %d)", len(rows), meta.Total)
	}
	// newest first
	if rows[0].ProductID != productB.ID {
		t.Fatalf("expected newest movement first, got %+v", rows[0])
	}
	if rows[0].Product == nil || rows[0].Product.SKU != productB.SKU {
		t.Fatalf("expected slim product preloaded, got %+v", rows[0].Product)
	}

	rows, _, err = svc.ListMovements(ctx, ListMovementsInput{Type: "out"})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(rows) != 1 || rows[0].Type != enums.MovementTypeOut {
		t.Fatalf("unexpected type filter result %+v", rows)
	}

	rows, _, err = svc.ListMovements(ctx, ListMovementsInput{ProductID: productA.ID})
	if err != nil {
		t.Fatalf("list by product: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 movements for product A, got %d", len(rows))
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	rows, _, err = svc.ListMovements(ctx, ListMovementsInput{FromDate: &tomorrow})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no movements starting tomorrow, got %d", len(rows))
	}
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateTestProduct(t, conn, 100)

	for _, adj := range []AdjustInput{
		{ProductID: product.ID, Type: enums.MovementTypeIn, Quantity: 20},
		{ProductID: product.ID, Type: enums.MovementTypeIn, Quantity: 5},
		{ProductID: product.ID, Type: enums.MovementTypeOut, Quantity: 8},
	} {
		if _, err := svc.Adjust(ctx, adj); err != nil {
			t.Fatalf("seed adjust: %v", err)
		}
	}

	stats, err := svc.Statistics(ctx, StatisticsInput{})
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Totals.StockIn != 25 || stats.Totals.StockOut != 8 || stats.Totals.NetChange != 17 {
		t.Fatalf("unexpected totals %+v", stats.Totals)
	}
	if stats.Counts.StockInTransactions != 2 || stats.Counts.StockOutTransactions != 1 {
		t.Fatalf("unexpected counts %+v", stats.Counts)
	}
	if len(stats.DailyBreakdown) != 1 {
		t.Fatalf("expected one day in breakdown, got %d", len(stats.DailyBreakdown))
	}
	day := stats.DailyBreakdown[0]
	if day.StockIn != 25 || day.StockOut != 8 {
		t.Fatalf("unexpected daily stats %+v", day)
	}
	if day.Date == "" {
		t.Fatal("expected a date on the breakdown row")
	}

	_, err = svc.Statistics(ctx, StatisticsInput{
		FromDate: time.Now(),
		ToDate:   time.Now().AddDate(0, 0, -2),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inverted window, got %v", err)
	}
}
