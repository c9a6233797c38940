package utils

import (
	"encoding/json"
	"net/http"

	"github.com/username/momoledger/src/logger"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// SendJSONError writes the standard error envelope used across the API.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, map[string]any{
		"status":     "error",
		"message":    message,
		"error_code": statusCode,
	})
}
