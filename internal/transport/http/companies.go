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

// CompanyHandler обслуживает CRUD компаний каталога.
type CompanyHandler struct {
	companies domain.CompanyRepository
	logger    *log.Entry
}

// NewCompanyHandler создаёт обработчик компаний.
func NewCompanyHandler(companies domain.CompanyRepository, logger *log.Entry) *CompanyHandler {
	if logger == nil {
		logger = log.WithField("component", "http-companies")
	}
	return &CompanyHandler{companies: companies, logger: logger}
}

// Create обрабатывает POST /api/companies.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "Company name is required")
		return
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:           uuid.NewString(),
		Name:         payload.Name,
		ContactEmail: payload.ContactEmail,
		ContactPhone: payload.ContactPhone,
		Address:      payload.Address,
		Website:      payload.Website,
		Description:  payload.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.companies.Create(r.Context(), company); err != nil {
		h.logger.WithError(err).Error("failed to create company")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"data":    toCompanyView(company),
	})
}

// List обрабатывает GET /api/companies.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list companies")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]companyView, 0, len(companies))
	for _, company := range companies {
		views = append(views, toCompanyView(company))
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    views,
	})
}

// Update обрабатывает PUT /api/companies/{id}.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "Company name is required")
		return
	}

	existing, err := h.companies.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	existing.Name = payload.Name
	existing.ContactEmail = payload.ContactEmail
	existing.ContactPhone = payload.ContactPhone
	existing.Address = payload.Address
	existing.Website = payload.Website
	existing.Description = payload.Description
	existing.UpdatedAt = time.Now().UTC()

	if err := h.companies.Update(r.Context(), existing); err != nil {
		h.respondLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"data":    toCompanyView(existing),
	})
}

// Delete обрабатывает DELETE /api/companies/{id}.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	if err := h.companies.Delete(r.Context(), id); err != nil {
		h.respondLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
	})
}

func (h *CompanyHandler) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrCompanyNotFound) {
		writeError(w, http.StatusNotFound, "Company not found")
		return
	}
	h.logger.WithError(err).Error("company request failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
