package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/storage/memory"
)

func newOrder(userID string, createdAt time.Time) domain.Order {
	price := decimal.RequireFromString("9.99")
	return domain.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: domain.OrderStatusPending,
		Total:  price.Mul(decimal.NewFromInt(2)),
		Items: []domain.OrderItem{
			{ProductID: uuid.NewString(), Quantity: 2, UnitPrice: price},
		},
		ShippingAddress: "Dock 4",
		PaymentMethod:   domain.PaymentMethodCard,
		CreatedAt:       createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository(nil)
	order := newOrder("user-1", time.Now().UTC())

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID || stored.UserID != order.UserID {
		t.Fatalf("stored order mismatch: %+v", stored)
	}
}

func TestOrderRepository_CreateRequiresOwner(t *testing.T) {
	repo := memory.NewOrderRepository(nil)
	order := newOrder("", time.Now().UTC())

	if err := repo.Create(context.Background(), order); !errors.Is(err, domain.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewOrderRepository(nil)
	order := newOrder("user-1", time.Now().UTC())

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(context.Background(), order); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := memory.NewOrderRepository(nil)

	if _, err := repo.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByUserPagination(t *testing.T) {
	repo := memory.NewOrderRepository(nil)
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		order := newOrder("user-1", base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(context.Background(), order); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	// Чужой заказ не должен попасть в выдачу.
	other := newOrder("user-2", base)
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := repo.ListByUser(context.Background(), "user-1", 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 orders on page, got %d", len(page))
	}
	for _, order := range page {
		if order.UserID != "user-1" {
			t.Fatalf("foreign order leaked into listing: %+v", order)
		}
	}
	// Сортировка по убыванию времени создания: offset 2 пропускает два самых новых.
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Fatalf("expected createdAt descending, got %v then %v", page[0].CreatedAt, page[1].CreatedAt)
	}

	total, err := repo.CountByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected 5 orders total, got %d", total)
	}
}

func TestOrderRepository_ListOffsetBeyondEnd(t *testing.T) {
	repo := memory.NewOrderRepository(nil)
	order := newOrder("user-1", time.Now().UTC())
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := repo.ListByUser(context.Background(), "user-1", 10, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("expected empty page, got %d orders", len(page))
	}
}

// Зафиксированная в позиции цена не меняется после изменения цены каталога,
// а денормализованная ProductPrice отражает актуальную.
func TestOrderRepository_EnrichmentKeepsCapturedPrice(t *testing.T) {
	products := memory.NewProductRepository()
	repo := memory.NewOrderRepository(products)

	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        "Stretch film",
		Price:       decimal.RequireFromString("9.99"),
		ItemsPerBox: 6,
		CompanyID:   uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	order := newOrder("user-1", time.Now().UTC())
	order.Items[0].ProductID = product.ID
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	product.Price = decimal.RequireFromString("12.50")
	if err := products.Update(context.Background(), product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("captured unit price changed: %s", stored.Items[0].UnitPrice)
	}
	if !stored.Items[0].ProductPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected current catalog price 12.50, got %s", stored.Items[0].ProductPrice)
	}
	if stored.Items[0].ProductName != "Stretch film" {
		t.Fatalf("expected product name enrichment, got %q", stored.Items[0].ProductName)
	}
}
