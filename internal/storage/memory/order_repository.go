package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	items    map[string]domain.Order
	products domain.ProductRepository
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
// products нужен для обогащения позиций актуальными данными каталога; допускается nil.
func NewOrderRepository(products domain.ProductRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:    make(map[string]domain.Order),
		products: products,
	}
}

// Create сохраняет новый заказ, если владелец задан и ID ещё не занят.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	if order.UserID == "" {
		return domain.ErrUserRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	// Сохраняем копию позиций, чтобы избежать мутаций извне.
	order.Items = append([]domain.OrderItem(nil), order.Items...)
	r.items[order.ID] = order
	return nil
}

// GetByID возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) GetByID(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	order, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return r.enrich(ctx, order), nil
}

// ListByUser возвращает окно заказов пользователя, новые раньше старых.
func (r *orderRepositoryInMemory) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if order.UserID != userID {
			continue
		}
		result = append(result, order)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return []domain.Order{}, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	enriched := make([]domain.Order, 0, len(result))
	for _, order := range result {
		enriched = append(enriched, r.enrich(ctx, order))
	}

	return enriched, nil
}

// CountByUser возвращает общее число заказов пользователя.
func (r *orderRepositoryInMemory) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, order := range r.items {
		if order.UserID == userID {
			count++
		}
	}
	return count, nil
}

// enrich дополняет позиции текущими именем и ценой из каталога.
// Зафиксированная UnitPrice при этом не трогается.
func (r *orderRepositoryInMemory) enrich(ctx context.Context, order domain.Order) domain.Order {
	items := append([]domain.OrderItem(nil), order.Items...)
	if r.products != nil {
		for i := range items {
			product, err := r.products.GetByID(ctx, items[i].ProductID)
			if err != nil {
				continue
			}
			items[i].ProductName = product.Name
			items[i].ProductPrice = product.Price
		}
	}
	order.Items = items
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
