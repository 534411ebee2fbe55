package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tollgate/models"
)

const (
	demoMessage     = "Mode demo - Google Sheets belum dikonfigurasi"
	fallbackMessage = "Menggunakan data demo - Gagal menghubungi Google Sheets"
	maxBodyBytes    = 32 << 20
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatus maps a domain error onto an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrIngestionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
