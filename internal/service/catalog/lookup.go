package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// repositoryLookup разрешает ссылки на товары через репозиторий каталога.
type repositoryLookup struct {
	products domain.ProductRepository
}

// NewLookup создаёт CatalogLookup поверх хранилища товаров.
func NewLookup(products domain.ProductRepository) domain.CatalogLookup {
	return &repositoryLookup{products: products}
}

// Resolve возвращает существование и авторитетную цену товара.
// Некорректный идентификатор отклоняется до обращения к хранилищу.
func (l *repositoryLookup) Resolve(ctx context.Context, productID string) (domain.CatalogItem, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("%w: %s", domain.ErrInvalidProductID, productID)
	}

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.CatalogItem{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return domain.CatalogItem{}, fmt.Errorf("resolve product %s: %w", productID, err)
	}

	return domain.CatalogItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
	}, nil
}

var _ domain.CatalogLookup = (*repositoryLookup)(nil)
