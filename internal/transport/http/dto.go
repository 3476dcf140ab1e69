package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// submitOrderRequest — тело POST /api/orders. Total декодируется в NullDecimal,
// чтобы отсутствие поля было отличимо от нуля.
type submitOrderRequest struct {
	Items           []submitOrderItem   `json:"items"`
	Total           decimal.NullDecimal `json:"total"`
	ShippingAddress string            `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
}

type submitOrderItem struct {
	Product  string `json:"product"`
	Quantity int32  `json:"quantity"`
}

// orderView — представление заказа в ответах API.
type orderView struct {
	ID              string          `json:"id"`
	User            string          `json:"user"`
	Items           []orderItemView `json:"items"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type orderItemView struct {
	Product  productRefView  `json:"product"`
	Quantity int32           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// productRefView — денормализованные поля каталога у позиции заказа.
// Name и Price отражают текущее состояние каталога; зафиксированная
// цена позиции остаётся во внешнем поле price.
type productRefView struct {
	ID    string          `json:"id"`
	Name  string          `json:"name,omitempty"`
	Price decimal.Decimal `json:"price"`
}

func toOrderView(order domain.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			Product: productRefView{
				ID:    item.ProductID,
				Name:  item.ProductName,
				Price: item.ProductPrice,
			},
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	return orderView{
		ID:              order.ID,
		User:            order.UserID,
		Items:           items,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
	}
}

func toOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	return views
}

// paginationView — блок pagination в ответе списка заказов.
type paginationView struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// companyPayload — тело создания и обновления компании.
type companyPayload struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	Description  string `json:"description"`
}

type companyView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Website      string    `json:"website,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toCompanyView(company domain.Company) companyView {
	return companyView{
		ID:           company.ID,
		Name:         company.Name,
		ContactEmail: company.ContactEmail,
		ContactPhone: company.ContactPhone,
		Address:      company.Address,
		Website:      company.Website,
		Description:  company.Description,
		CreatedAt:    company.CreatedAt,
		UpdatedAt:    company.UpdatedAt,
	}
}

// productPayload — тело создания и обновления товара.
type productPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ItemsPerBox int32           `json:"itemsPerBox"`
	Company     string          `json:"company"`
}

type productView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ItemsPerBox int32           `json:"itemsPerBox"`
	Company     string          `json:"company"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toProductView(product domain.Product) productView {
	return productView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ItemsPerBox: product.ItemsPerBox,
		Company:     product.CompanyID,
		CreatedAt:   product.CreatedAt,
	}
}
