package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// MockLookup — конфигурируемая заглушка CatalogLookup для тестов.
type MockLookup struct {
	mu sync.Mutex

	// Items задаёт известные каталогу товары по идентификатору.
	Items map[string]domain.CatalogItem
	// ResolveErr, если задана, возвращается для любого запроса.
	ResolveErr error
	// Delay имитирует задержку обращения к каталогу.
	Delay time.Duration

	ResolveCalls int
}

// NewMockLookup возвращает mock с пустым каталогом.
func NewMockLookup() *MockLookup {
	return &MockLookup{Items: make(map[string]domain.CatalogItem)}
}

// Put добавляет или обновляет товар в каталоге заглушки.
func (m *MockLookup) Put(item domain.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ProductID] = item
}

// Resolve возвращает настроенный товар, ошибку или ErrProductNotFound.
func (m *MockLookup) Resolve(ctx context.Context, productID string) (domain.CatalogItem, error) {
	m.mu.Lock()
	m.ResolveCalls++
	err := m.ResolveErr
	item, ok := m.Items[productID]
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return domain.CatalogItem{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return domain.CatalogItem{}, err
	}
	if !ok {
		return domain.CatalogItem{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return item, nil
}

var _ domain.CatalogLookup = (*MockLookup)(nil)
