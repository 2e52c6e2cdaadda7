package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"petpal_server/services"
)

// writeJSON encodes a JSON response body
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps service errors onto HTTP statuses: missing
// documents to 404, guarded-write conflicts to 409, everything else to a
// retryable 500 with the given message.
func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrConflict):
		http.Error(w, "Already processed", http.StatusConflict)
	default:
		log.Printf("%s: %v", message, err)
		http.Error(w, message, http.StatusInternalServerError)
	}
}
