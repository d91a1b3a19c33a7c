package dberr

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := New(KindTableExists, "CreateTable").WithTable("users")

	if !errors.Is(err, ErrTableExists) {
		t.Fatalf("expected errors.Is to match ErrTableExists")
	}
	if errors.Is(err, ErrTableNotFound) {
		t.Fatalf("TableExists must not match TableNotFound")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrTableExists) {
		t.Fatalf("expected match through fmt wrapping")
	}
	if KindOf(wrapped) != KindTableExists {
		t.Fatalf("KindOf = %v, want %v", KindOf(wrapped), KindTableExists)
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("plain error should have unknown kind")
	}
}

func TestEnvironmentUnwrapsCause(t *testing.T) {
	err := Environment("CreateDatabase", os.ErrPermission).WithDatabase("shop")

	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected cause to be reachable")
	}
	if !errors.Is(err, ErrEnvironmentFailure) {
		t.Fatalf("expected environment kind")
	}
	if err.Kind.Category() != CategorySystem {
		t.Fatalf("environment failure should be a system error")
	}
}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := New(KindIndexExists, "CreateIndex").
		WithTable("orders").
		WithColumns([]string{"id", "sku"})

	msg := err.Error()
	for _, want := range []string{"INDEX_EXISTS", "CreateIndex", "table orders", "columns (id, sku)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		kind Kind
		want Category
	}{
		{KindDuplicateKey, CategoryData},
		{KindTableNotFound, CategoryUser},
		{KindDatabaseInUse, CategoryUser},
		{KindEnvironmentFailure, CategorySystem},
	}
	for _, tt := range tests {
		if got := tt.kind.Category(); got != tt.want {
			t.Errorf("%v.Category() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
