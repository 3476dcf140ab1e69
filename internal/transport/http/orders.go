package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/service/order"
)

// OrderHandler обслуживает маршруты /api/orders.
type OrderHandler struct {
	service *order.Service
	logger  *log.Entry
}

// NewOrderHandler создаёт обработчик заказов.
func NewOrderHandler(service *order.Service, logger *log.Entry) *OrderHandler {
	if logger == nil {
		logger = log.WithField("component", "http-orders")
	}
	return &OrderHandler{service: service, logger: logger}
}

// Submit обрабатывает POST /api/orders.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]order.SubmitItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.SubmitItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	created, err := h.service.Submit(r.Context(), userIDFrom(r.Context()), order.SubmitRequest{
		Items:           items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"order":   toOrderView(created),
	})
}

// List обрабатывает GET /api/orders?page=&limit=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	orders, pagination, err := h.service.List(r.Context(), userIDFrom(r.Context()), page, limit)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    toOrderViews(orders),
		"pagination": paginationView{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: pagination.Total,
			Pages: pagination.Pages,
		},
	})
}

// Get обрабатывает GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    toOrderView(found),
	})
}

// queryInt возвращает числовой query-параметр; 0 означает "не задан или некорректен",
// сервис подставит значение по умолчанию.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
