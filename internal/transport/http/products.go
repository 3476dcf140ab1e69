package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// ProductHandler обслуживает CRUD товаров каталога.
type ProductHandler struct {
	products  domain.ProductRepository
	companies domain.CompanyRepository
	logger    *log.Entry
}

// NewProductHandler создаёт обработчик товаров.
func NewProductHandler(products domain.ProductRepository, companies domain.CompanyRepository, logger *log.Entry) *ProductHandler {
	if logger == nil {
		logger = log.WithField("component", "http-products")
	}
	return &ProductHandler{products: products, companies: companies, logger: logger}
}

// Create обрабатывает POST /api/products. Компания должна существовать.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		ItemsPerBox: payload.ItemsPerBox,
		CompanyID:   payload.Company,
		CreatedAt:   time.Now().UTC(),
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errors.Join(errs...).Error())
		return
	}

	if _, err := h.companies.GetByID(r.Context(), product.CompanyID); err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			writeError(w, http.StatusBadRequest, "Company not found")
			return
		}
		h.logger.WithError(err).Error("failed to resolve company for product")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		h.logger.WithError(err).Error("failed to create product")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"data":    toProductView(product),
	})
}

// ListByCompany обрабатывает GET /api/companies/{id}/products.
func (h *ProductHandler) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("id")
	if _, err := uuid.Parse(companyID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	products, err := h.products.ListByCompany(r.Context(), companyID)
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    views,
	})
}

// Update обрабатывает PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	existing.Name = payload.Name
	existing.Description = payload.Description
	existing.Price = payload.Price
	existing.ItemsPerBox = payload.ItemsPerBox
	if payload.Company != "" {
		existing.CompanyID = payload.Company
	}
	if errs := existing.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errors.Join(errs...).Error())
		return
	}

	if err := h.products.Update(r.Context(), existing); err != nil {
		h.respondLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    toProductView(existing),
	})
}

// Delete обрабатывает DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.respondLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
	})
}

func (h *ProductHandler) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.logger.WithError(err).Error("product request failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
