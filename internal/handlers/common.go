// Package handlers provides HTTP handlers for the payout vault.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "payout_vault/internal/errors"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

// respondError writes an error as JSON, mapping application errors to status
// codes. Internal causes are logged, never sent to the client.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	message := "internal error"
	if appErr, ok := err.(*apperrors.AppError); ok && status < 500 {
		message = appErr.Message
	}
	if status >= 500 {
		log.Printf("Request failed: %v", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

// clientIP extracts the client IP for audit logging.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}
