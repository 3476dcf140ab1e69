package order

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// SubmitItem — позиция заказа в том виде, в каком её прислал клиент.
type SubmitItem struct {
	ProductID string
	Quantity  int32
}

// SubmitRequest — нормализованный запрос на оформление заказа.
// Цена клиентом не передаётся: доверенные цены берутся из каталога.
// Total — NullDecimal: не переданная клиентом сумма отличима от нулевой.
type SubmitRequest struct {
	Items           []SubmitItem
	Total           decimal.NullDecimal
	ShippingAddress string
	PaymentMethod   string
}

// Validate выполняет чисто структурную проверку запроса без обращения к каталогу
// и хранилищу. Возвращаются все найденные нарушения, а не только первое.
func Validate(req SubmitRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if len(req.Items) == 0 {
		errs = append(errs, domain.FieldError{
			Field:   "items",
			Message: "At least one item required",
		})
	}
	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == "" {
			errs = append(errs, domain.FieldError{
				Field:   field + ".product",
				Message: "Product ID is required",
			})
		} else if _, err := uuid.Parse(item.ProductID); err != nil {
			errs = append(errs, domain.FieldError{
				Field:   field + ".product",
				Message: "Invalid product ID format",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, domain.FieldError{
				Field:   field + ".quantity",
				Message: "Quantity must be at least 1",
			})
		}
	}

	if !req.Total.Valid {
		errs = append(errs, domain.FieldError{
			Field:   "total",
			Message: "Total is required",
		})
	} else if req.Total.Decimal.IsNegative() {
		errs = append(errs, domain.FieldError{
			Field:   "total",
			Message: "Total must be a positive number",
		})
	}

	if req.ShippingAddress == "" {
		errs = append(errs, domain.FieldError{
			Field:   "shippingAddress",
			Message: "Shipping address is required",
		})
	} else if utf8.RuneCountInString(req.ShippingAddress) > domain.MaxShippingAddressLen {
		errs = append(errs, domain.FieldError{
			Field:   "shippingAddress",
			Message: "Address too long",
		})
	}

	if !domain.KnownPaymentMethod(req.PaymentMethod) {
		errs = append(errs, domain.FieldError{
			Field:   "paymentMethod",
			Message: "Invalid payment method",
		})
	}

	return errs
}
