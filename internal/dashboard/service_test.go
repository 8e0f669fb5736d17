package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:dashboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.StockMovement{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateCategory(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Status: enums.CategoryStatusActive}
	if err := conn.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, categoryID int64, name string, price int64, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: categoryID,
		Name:       name,
		SKU:        "SKU-" + uuid.NewString(),
		PriceCents: price,
		Quantity:   quantity,
		Status:     enums.DeriveProductStatus(quantity),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestStats(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	electronics := mustCreateCategory(t, conn, "Electronics")
	office := mustCreateCategory(t, conn, "Office")
	mustCreateCategory(t, conn, "Empty Shelf")

	mustCreateProduct(t, conn, electronics.ID, "Monitor", 20000, 12)
	mustCreateProduct(t, conn, electronics.ID, "Cable", 500, 3)
	mustCreateProduct(t, conn, office.ID, "Stapler", 1200, 0)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalProducts != 3 {
		t.Fatalf("expected 3 products, got %d", stats.TotalProducts)
	}
	// 20000*12 + 500*3 + 1200*0
	if stats.TotalValue != 241500 {
		t.Fatalf("expected total value 241500, got %d", stats.TotalValue)
	}
	if stats.LowStockCount != 1 || stats.OutOfStockCount != 1 {
		t.Fatalf("unexpected stock counts %+v", stats)
	}
	if stats.CategoriesCount != 3 {
		t.Fatalf("expected 3 categories, got %d", stats.CategoriesCount)
	}

	if len(stats.LowStockProducts) != 1 {
		t.Fatalf("expected one low stock product, got %d", len(stats.LowStockProducts))
	}
	low := stats.LowStockProducts[0]
	if low.Name != "Cable" || low.Category != "Electronics" || low.Quantity != 3 {
		t.Fatalf("unexpected low stock entry %+v", low)
	}

	if len(stats.CategoryBreakdown) != 3 {
		t.Fatalf("expected 3 breakdown slices, got %d", len(stats.CategoryBreakdown))
	}
	top := stats.CategoryBreakdown[0]
	if top.Name != "Electronics" || top.Value != 2 {
		t.Fatalf("unexpected top slice %+v", top)
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 0 || stats.TotalValue != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.LowStockProducts == nil || stats.CategoryBreakdown == nil {
		t.Fatal("expected empty slices, not nil")
	}
}
