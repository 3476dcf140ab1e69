package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// companyRepositoryInMemory — in-memory реализация CompanyRepository.
type companyRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Company
}

// NewCompanyRepository возвращает in-memory хранилище компаний.
func NewCompanyRepository() domain.CompanyRepository {
	return &companyRepositoryInMemory{items: make(map[string]domain.Company)}
}

func (r *companyRepositoryInMemory) Create(_ context.Context, company domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[company.ID] = company
	return nil
}

func (r *companyRepositoryInMemory) GetByID(_ context.Context, id string) (domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, ok := r.items[id]
	if !ok {
		return domain.Company{}, domain.ErrCompanyNotFound
	}
	return company, nil
}

func (r *companyRepositoryInMemory) List(_ context.Context) ([]domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Company, 0, len(r.items))
	for _, company := range r.items {
		result = append(result, company)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *companyRepositoryInMemory) Update(_ context.Context, company domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[company.ID]; !ok {
		return domain.ErrCompanyNotFound
	}
	r.items[company.ID] = company
	return nil
}

func (r *companyRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.CompanyRepository = (*companyRepositoryInMemory)(nil)
