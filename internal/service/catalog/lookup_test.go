package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/catalog-orders/internal/storage/memory"
)

func seedProduct(t *testing.T, products domain.ProductRepository) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        "Packing tape",
		Price:       decimal.RequireFromString("2.49"),
		ItemsPerBox: 36,
		CompanyID:   uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestLookupResolve_Ok(t *testing.T) {
	products := memory.NewProductRepository()
	product := seedProduct(t, products)

	lookup := catalog.NewLookup(products)
	item, err := lookup.Resolve(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.ProductID != product.ID {
		t.Fatalf("expected product id %s, got %s", product.ID, item.ProductID)
	}
	if !item.UnitPrice.Equal(product.Price) {
		t.Fatalf("expected unit price %s, got %s", product.Price, item.UnitPrice)
	}
	if item.Name != product.Name {
		t.Fatalf("expected name %q, got %q", product.Name, item.Name)
	}
}

func TestLookupResolve_InvalidID(t *testing.T) {
	lookup := catalog.NewLookup(memory.NewProductRepository())

	_, err := lookup.Resolve(context.Background(), "not-a-uuid")
	if !errors.Is(err, domain.ErrInvalidProductID) {
		t.Fatalf("expected ErrInvalidProductID, got %v", err)
	}
	if !strings.Contains(err.Error(), "not-a-uuid") {
		t.Fatalf("error should name the offending reference: %v", err)
	}
}

func TestLookupResolve_NotFound(t *testing.T) {
	lookup := catalog.NewLookup(memory.NewProductRepository())
	missing := uuid.NewString()

	_, err := lookup.Resolve(context.Background(), missing)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("error should name the offending reference: %v", err)
	}
}
