package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// PasswordForgetter defines the interface that the forgot-password service
// must implement.
type PasswordForgetter interface {
	ForgotPassword(ctx context.Context, baseURL, email string) (string, error)
}

// ForgotPasswordRequest represents the JSON body for requesting a reset token
// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse carries the reset URL for the account
// swagger:model ForgotPasswordResponse
type ForgotPasswordResponse struct {
	// Status
	// default: success
	Status string `json:"status"`

	// One-time reset URL, valid for 10 minutes
	ResetURL string `json:"resetURL"`
}

// NewForgotPasswordHandler returns an HTTP handler that issues a one-time
// password reset token.
// @Summary Request a password reset
// @Description Issue a one-time reset token for the account
// @Tags auth
// @Accept json
// @Produce json
// @Param forgotPasswordRequest body handlers.ForgotPasswordRequest true "Forgot Password Request"
// @Success 200 {object} handlers.ForgotPasswordResponse "Reset URL issued"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "No user with that email"
// @Router /auth/forgotPassword [post]
func NewForgotPasswordHandler(svc PasswordForgetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resetURL, err := svc.ForgotPassword(r.Context(), requestBaseURL(r), req.Email)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "There is no user with that email address")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, ForgotPasswordResponse{Status: "success", ResetURL: resetURL})
	}
}
