package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// RouterConfig собирает зависимости маршрутизатора API.
type RouterConfig struct {
	Orders    *OrderHandler
	Companies *CompanyHandler
	Products  *ProductHandler
	Verifier  domain.TokenVerifier
	Logger    *log.Entry
}

// NewRouter строит mux со всеми маршрутами API. Все маршруты требуют
// аутентификации Bearer-токеном.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "http-router")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders", cfg.Orders.Submit)
	mux.HandleFunc("GET /api/orders", cfg.Orders.List)
	mux.HandleFunc("GET /api/orders/{id}", cfg.Orders.Get)

	if cfg.Companies != nil {
		mux.HandleFunc("POST /api/companies", cfg.Companies.Create)
		mux.HandleFunc("GET /api/companies", cfg.Companies.List)
		mux.HandleFunc("PUT /api/companies/{id}", cfg.Companies.Update)
		mux.HandleFunc("DELETE /api/companies/{id}", cfg.Companies.Delete)
	}
	if cfg.Products != nil {
		mux.HandleFunc("POST /api/products", cfg.Products.Create)
		mux.HandleFunc("GET /api/companies/{id}/products", cfg.Products.ListByCompany)
		mux.HandleFunc("PUT /api/products/{id}", cfg.Products.Update)
		mux.HandleFunc("DELETE /api/products/{id}", cfg.Products.Delete)
	}

	return logRequests(logger, requireAuth(cfg.Verifier, mux))
}
