package http

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// respondDomainError переводит ошибку доменного слоя в HTTP-ответ.
// Исходы различимы: валидация и расхождение суммы дают разные тела 400,
// отказ доступа не сворачивается в 404.
func respondDomainError(w http.ResponseWriter, logger *log.Entry, err error) {
	if ve, ok := domain.AsValidationErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, envelope{
			"success": false,
			"errors":  ve,
		})
		return
	}

	if tm, ok := domain.AsTotalMismatch(err); ok {
		writeJSON(w, http.StatusBadRequest, envelope{
			"success": false,
			"error":   "Total amount mismatch",
			"details": fmt.Sprintf("%s vs %s", tm.Calculated.StringFixed(2), tm.Declared.StringFixed(2)),
		})
		return
	}

	switch {
	// В конвейере оформления отказ разрешения позиции — ошибка запроса клиента.
	case domain.IsCatalogResolution(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidOrderID):
		writeError(w, http.StatusBadRequest, "Invalid order ID")
	case errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrUserRequired), errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		logger.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
