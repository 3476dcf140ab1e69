package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
// Заказ после создания неизменяем: операций обновления и удаления нет.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrUserRequired, если владелец не задан,
	// и ErrOrderAlreadyExists при занятом идентификаторе.
	Create(ctx context.Context, order Order) error
	// GetByID возвращает заказ по идентификатору или ErrOrderNotFound.
	// Позиции обогащаются актуальными именем и ценой товара из каталога.
	GetByID(ctx context.Context, id string) (Order, error)
	// ListByUser возвращает страницу заказов пользователя, отсортированных по
	// времени создания по убыванию. offset и limit задают окно выборки.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Order, error)
	// CountByUser возвращает общее число заказов пользователя для расчёта страниц.
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ProductRepository описывает хранилище товаров каталога.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	// GetByID возвращает товар или ErrProductNotFound.
	GetByID(ctx context.Context, id string) (Product, error)
	ListByCompany(ctx context.Context, companyID string) ([]Product, error)
	// Update перезаписывает поля товара; ErrProductNotFound, если товара нет.
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id string) error
}

// CompanyRepository описывает хранилище компаний.
type CompanyRepository interface {
	Create(ctx context.Context, company Company) error
	// GetByID возвращает компанию или ErrCompanyNotFound.
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, company Company) error
	Delete(ctx context.Context, id string) error
}
