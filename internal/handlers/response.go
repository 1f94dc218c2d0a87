package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/validators"
)

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// ValidationErrorResponse lists every failing field of a request body
// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	// Error message
	// default: validation failed
	Error string `json:"error"`

	// Failing fields and their messages
	Fields map[string]string `json:"fields"`
}

// AuthResponse carries a session token and the authenticated user
// swagger:model AuthResponse
type AuthResponse struct {
	// JWT token
	// default: JWT_TOKEN
	Token string `json:"token"`

	// Authenticated user
	User *models.User `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeBody decodes and validates the request body into dst. On failure it
// writes the 400 response itself and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := validators.DecodeJSONBody(r, dst)
	if err == nil {
		return true
	}

	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  verr.Error(),
			Fields: verr.Fields,
		})
		return false
	}

	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// requestBaseURL rebuilds the external base URL of the request for links
// sent back to the client.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
