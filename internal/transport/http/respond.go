// Package http реализует JSON API сервиса заказов поверх net/http.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Денежные значения сериализуются как JSON-числа, не строки.
	decimal.MarshalJSONWithoutQuotes = true
}

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode http response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{
		"success": false,
		"error":   message,
	})
}
