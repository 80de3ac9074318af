package utils

import (
	"encoding/json"
	"net/http"

	"fleetpanda-backend/internal/apperrors"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends a plain error response (auth/infra failures)
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// RespondAppError sends a structured error with its kind tag so clients
// can react to the taxonomy instead of parsing messages
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		RespondJSON(w, apperrors.HTTPStatus(appErr.Kind), map[string]interface{}{
			"success": false,
			"error":   appErr,
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"kind":    "INTERNAL",
			"message": "internal server error",
		},
	})
}

// RespondData wraps a payload in the standard success envelope
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
