package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/washdesk/backend/internal/logger"
	"github.com/washdesk/backend/internal/models"
	"go.uber.org/zap"
)

// writeJSON writes v as a JSON response body
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encode response", zap.Error(err))
	}
}

// writeError maps a service error to its HTTP status code
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidSchedule),
		errors.Is(err, models.ErrInvalidPackage),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrMissingEmployeeID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrAssignmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrAlreadyResponded),
		errors.Is(err, models.ErrOrderNotPayable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
