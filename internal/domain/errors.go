package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Ошибка отсутствующего владельца заказа.
	ErrUserRequired = errors.New("user is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total must be non-negative")
	// Ошибка при некорректном количестве товара (< 1).
	ErrItemQtyInvalid = errors.New("item quantity must be at least 1")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка пустого или слишком длинного адреса доставки.
	ErrShippingAddressInvalid = errors.New("shipping address is empty or too long")
	// Ошибка неизвестного способа оплаты.
	ErrPaymentMethodUnknown = errors.New("unknown payment method")
	// Ошибка расхождения суммы заказа с суммой позиций.
	ErrTotalOutOfSync = errors.New("order total does not match items sum")

	// ErrInvalidOrderID возвращается до обращения к хранилищу, если идентификатор заказа не разбирается.
	ErrInvalidOrderID = errors.New("invalid order id format")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAccessDenied — заказ существует, но принадлежит другому пользователю.
	// Никогда не сворачивается в ErrOrderNotFound: клиенту важно различать эти случаи.
	ErrAccessDenied = errors.New("access denied")
	// ErrOrderAlreadyExists — повторная вставка заказа с занятым идентификатором.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrInvalidProductID — ссылка на товар не является корректным идентификатором.
	ErrInvalidProductID = errors.New("invalid product id")
	// ErrProductNotFound — товар с корректным идентификатором отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")

	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка некорректной фасовки товара (< 1 единицы в коробке).
	ErrItemsPerBoxInvalid = errors.New("items per box must be at least 1")
	// Ошибка отсутствующей ссылки на компанию-владельца товара.
	ErrCompanyRequired = errors.New("company is required")
	// ErrCompanyNotFound — компания не найдена.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidToken — токен не сопоставлен ни с одним пользователем.
	ErrInvalidToken = errors.New("invalid token")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// FieldError описывает одно нарушение правила валидации для конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors собирает все нарушения валидации запроса, а не только первое.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// AsValidationErrors извлекает список полевых ошибок из цепочки.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// TotalMismatchError сигнализирует о расхождении суммы, заявленной клиентом,
// с суммой, пересчитанной по ценам каталога. Обе величины сохраняются для диагностики.
type TotalMismatchError struct {
	Calculated decimal.Decimal
	Declared   decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total amount mismatch: calculated %s, declared %s", e.Calculated, e.Declared)
}

// AsTotalMismatch извлекает TotalMismatchError из цепочки.
func AsTotalMismatch(err error) (*TotalMismatchError, bool) {
	var tm *TotalMismatchError
	if errors.As(err, &tm) {
		return tm, true
	}
	return nil, false
}

// IsCatalogResolution проверяет, является ли ошибка отказом разрешения позиции каталога.
func IsCatalogResolution(err error) bool {
	return errors.Is(err, ErrInvalidProductID) || errors.Is(err, ErrProductNotFound)
}
