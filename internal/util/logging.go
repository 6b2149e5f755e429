package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	HandleErrorWithFields(w, message, statusCode, nil)
}

// HandleErrorWithFields : same envelope as HandleError, extra fields are merged at the top level
func HandleErrorWithFields(w http.ResponseWriter, message string, statusCode int, fields map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":   http.StatusText(statusCode),
		"message": message,
		"code":    statusCode,
	}
	for key, value := range fields {
		errorResponse[key] = value
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("[util] failed to encode error response: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[util] failed to encode response: %v", err)
	}
}
