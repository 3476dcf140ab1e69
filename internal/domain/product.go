package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product — позиция каталога. Для ядра заказов интересны только существование и цена;
// остальные поля обслуживают CRUD каталога.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ItemsPerBox int32
	CompanyID   string
	CreatedAt   time.Time
}

// ValidateInvariants проверяет поля товара перед сохранением.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if p.ItemsPerBox < 1 {
		errs = append(errs, ErrItemsPerBoxInvalid)
	}
	if p.CompanyID == "" {
		errs = append(errs, ErrCompanyRequired)
	}

	return errs
}
