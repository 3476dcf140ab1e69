package domain

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает состояние заказа. В рамках сервиса заказ создаётся
// в статусе pending и дальше не изменяется.
type OrderStatus string

const (
	// OrderStatusPending — заказ принят и сохранён; дальнейший жизненный цикл вне этого сервиса.
	OrderStatusPending OrderStatus = "pending"
)

// PaymentMethod — способ оплаты из закрытого перечисления.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// KnownPaymentMethod проверяет, входит ли значение в перечисление способов оплаты.
func KnownPaymentMethod(v string) bool {
	switch PaymentMethod(v) {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodPaypal:
		return true
	default:
		return false
	}
}

// MaxShippingAddressLen ограничивает длину адреса доставки в символах, не байтах.
const MaxShippingAddressLen = 500

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ProductID — идентификатор товара в каталоге.
	ProductID string
	// Quantity — количество единиц товара.
	Quantity int32
	// UnitPrice — цена за единицу, зафиксированная из каталога в момент оформления.
	// После создания заказа не меняется, даже если цена в каталоге изменилась.
	UnitPrice decimal.Decimal

	// ProductName и ProductPrice — денормализованные поля каталога для отображения.
	// Заполняются при чтении; доверенной остаётся только UnitPrice.
	ProductName  string
	ProductPrice decimal.Decimal
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID     string
	UserID string
	Items  []OrderItem
	// Total всегда вычисляется на сервере как сумма quantity × unit_price.
	Total           decimal.Decimal
	ShippingAddress string
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	CreatedAt       time.Time
}

// ItemsTotal возвращает сумму позиций: Σ quantity × unit_price.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.Total.IsNegative() {
		errs = append(errs, ErrTotalNegative)
	}
	if o.ShippingAddress == "" || utf8.RuneCountInString(o.ShippingAddress) > MaxShippingAddressLen {
		errs = append(errs, ErrShippingAddressInvalid)
	}
	if !KnownPaymentMethod(string(o.PaymentMethod)) {
		errs = append(errs, ErrPaymentMethodUnknown)
	}

	for _, item := range o.Items {
		if item.Quantity < 1 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	if !o.ItemsTotal().Equal(o.Total) {
		errs = append(errs, ErrTotalOutOfSync)
	}

	return errs
}
