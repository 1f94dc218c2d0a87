package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// PasswordResetter defines the interface that the reset-password service
// must implement.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, plainToken, newPlaintext string) (string, *models.User, error)
}

// ResetPasswordRequest represents the JSON body for consuming a reset token
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// New password
	// required: true
	// default: newsecret123
	Password string `json:"password" validate:"required,min=8"`

	// Password confirmation, must match password
	// required: true
	// default: newsecret123
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// NewResetPasswordHandler returns an HTTP handler that consumes a reset
// token and sets a new password.
// @Summary Reset password with a token
// @Description Consume a one-time reset token and set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Plaintext reset token"
// @Param resetPasswordRequest body handlers.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} handlers.AuthResponse "Password changed, fresh JWT returned"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body or token"
// @Router /auth/resetPassword/{token} [patch]
func NewResetPasswordHandler(svc PasswordResetter, cookieExpiresDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, user, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrResetTokenInvalidOrExpired):
				writeError(w, http.StatusBadRequest, "Token is invalid or has expired")
			case errors.Is(err, services.ErrSamePassword):
				writeError(w, http.StatusBadRequest, "New password must differ from the current password")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		setSessionCookie(w, token, cookieExpiresDays)
		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
	}
}
