package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected postgres duplicate key to match")
	}
	if !IsUniqueViolation(pgErr, "idx_products_sku") {
		t.Fatal("expected constraint name to match")
	}
	if IsUniqueViolation(pgErr, "idx_users_email") {
		t.Fatal("different constraint must not match")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: products.sku")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique failure to match")
	}

	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil must not match")
	}
}
