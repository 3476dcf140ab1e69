package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory каталог товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{items: make(map[string]domain.Product)}
}

func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) GetByID(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepositoryInMemory) ListByCompany(_ context.Context, companyID string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0)
	for _, product := range r.items {
		if product.CompanyID == companyID {
			result = append(result, product)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
