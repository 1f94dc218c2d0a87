package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/middlewares"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// PasswordUpdater defines the interface that the update-password service
// must implement.
type PasswordUpdater interface {
	UpdateMyPassword(ctx context.Context, userID, currentPlaintext, newPlaintext string) (string, *models.User, error)
}

// UpdateMyPasswordRequest represents the JSON body for an authenticated
// password change
// swagger:model UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	// Current password
	// required: true
	// default: secret123
	CurrentPassword string `json:"currentPassword" validate:"required"`

	// New password
	// required: true
	// default: newsecret123
	Password string `json:"password" validate:"required,min=8"`

	// Password confirmation, must match password
	// required: true
	// default: newsecret123
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// NewUpdateMyPasswordHandler returns an HTTP handler for an authenticated
// password change.
// @Summary Change own password
// @Description Verify the current password and set a new one
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateMyPasswordRequest body handlers.UpdateMyPasswordRequest true "Update Password Request"
// @Success 200 {object} handlers.AuthResponse "Password changed, fresh JWT returned"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Current password is wrong"
// @Router /auth/updateMyPassword [patch]
func NewUpdateMyPasswordHandler(svc PasswordUpdater, cookieExpiresDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		var req UpdateMyPasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, user, err := svc.UpdateMyPassword(r.Context(), claims.UserID, req.CurrentPassword, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrWrongCurrentPassword):
				writeError(w, http.StatusUnauthorized, "Your current password is wrong")
			case errors.Is(err, services.ErrSamePassword):
				writeError(w, http.StatusBadRequest, "New password must differ from the current password")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found")
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
