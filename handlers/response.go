package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/you/parkcast/models"
)

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// writeServiceError maps engine errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: map[string]interface{}{"reason": err.Error()},
		})
	case errors.Is(err, models.ErrZoneNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "Zone not found",
			Details: map[string]interface{}{"reason": err.Error()},
		})
	case errors.Is(err, models.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "Event not found",
			Details: map[string]interface{}{"reason": err.Error()},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: message,
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
	}
}
