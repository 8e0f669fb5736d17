package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stocktally/pkg/db/models"
	"stocktally/pkg/enums"
	pkgerrors "stocktally/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:categories_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}, &models.StockMovement{}, &models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func strPtr(v string) *string { return &v }

func TestCreateAndGetCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCategoryInput{
		Name:        "Electronics",
		Description: strPtr("Gadgets and devices"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != enums.CategoryStatusActive {
		t.Fatalf("expected default active status, got %s", created.Status)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Electronics" || got.ProductsCount != 0 {
		t.Fatalf("unexpected category %+v", got)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCategoryInput{Name: "Tools"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, CreateCategoryInput{Name: "Tools"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListCategoriesSearchAndCount(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	electronics, err := svc.Create(ctx, CreateCategoryInput{Name: "Electronics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive := enums.CategoryStatusInactive
	if _, err := svc.Create(ctx, CreateCategoryInput{Name: "Furniture", Status: &inactive}); err != nil {
		t.Fatalf("create: %v", err)
	}

	product := &models.Product{
		CategoryID: electronics.ID,
		Name:       "Widget",
		SKU:        "SKU-1",
		PriceCents: 1000,
		Quantity:   5,
		Status:     enums.DeriveProductStatus(5),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rows, meta, err := svc.List(ctx, ListCategoriesInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 categories, got %d (total %d)", len(rows), meta.Total)
	}
	// ordered by name: Electronics first
	if rows[0].Name != "Electronics" || rows[0].ProductsCount != 1 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}

	rows, _, err = svc.List(ctx, ListCategoriesInput{Search: "elect"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Electronics" {
		t.Fatalf("unexpected search result %+v", rows)
	}

	rows, _, err = svc.List(ctx, ListCategoriesInput{Status: "inactive"})
	if err != nil {
		t.Fatalf("list status: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Furniture" {
		t.Fatalf("unexpected status filter result %+v", rows)
	}
}

func TestListActiveCategories(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCategoryInput{Name: "Beta"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateCategoryInput{Name: "Alpha"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive := enums.CategoryStatusInactive
	if _, err := svc.Create(ctx, CreateCategoryInput{Name: "Hidden", Status: &inactive}); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active categories, got %d", len(active))
	}
	if active[0].Name != "Alpha" || active[1].Name != "Beta" {
		t.Fatalf("expected name ordering, got %+v", active)
	}
}

func TestUpdateCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCategoryInput{Name: "Office"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := enums.CategoryStatusInactive
	updated, err := svc.Update(ctx, created.ID, UpdateCategoryInput{
		Name:   strPtr("Office Supplies"),
		Status: &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Office Supplies" || updated.Status != enums.CategoryStatusInactive {
		t.Fatalf("unexpected update result %+v", updated)
	}

	_, err = svc.Update(ctx, 9999, UpdateCategoryInput{Name: strPtr("Missing")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteCategoryGuard(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	used, err := svc.Create(ctx, CreateCategoryInput{Name: "Used"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	empty, err := svc.Create(ctx, CreateCategoryInput{Name: "Empty"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	product := &models.Product{
		CategoryID: used.ID,
		Name:       "Widget",
		SKU:        "SKU-2",
		PriceCents: 500,
		Quantity:   1,
		Status:     enums.DeriveProductStatus(1),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	err = svc.Delete(ctx, used.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCategoryInUse {
		t.Fatalf("expected category-in-use error, got %v", err)
	}

	if err := svc.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}

	_, err = svc.Get(ctx, empty.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
