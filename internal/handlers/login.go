package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, plaintext string) (string, *models.User, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email" validate:"required,email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} handlers.AuthResponse "JWT token returned"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Incorrect email or password"
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer, cookieExpiresDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "Incorrect email or password")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		setSessionCookie(w, token, cookieExpiresDays)
		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
	}
}
