package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// SignerUpper defines the interface that the sign-up service must implement.
type SignerUpper interface {
	SignUp(ctx context.Context, name, email, plaintext string) (string, *models.User, error)
}

// SignUpRequest represents the JSON body for user registration
// swagger:model SignUpRequest
type SignUpRequest struct {
	// Display name
	// required: true
	// default: John Doe
	Name string `json:"name" validate:"required"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email" validate:"required,email"`

	// Password, minimum 8 characters with upper and lower case letters,
	// a number, and a symbol
	// required: true
	// default: Secret123!
	Password string `json:"password" validate:"required,min=8,strongpassword"`

	// Password confirmation, must match password
	// required: true
	// default: Secret123!
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// NewSignUpHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Create a user account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param signUpRequest body handlers.SignUpRequest true "Sign Up Request"
// @Success 201 {object} handlers.AuthResponse "User created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 409 {object} handlers.ErrorResponse "Email already registered"
// @Router /auth/signUp [post]
func NewSignUpHandler(svc SignerUpper, cookieExpiresDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, user, err := svc.SignUp(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrUserAlreadyExists) {
				writeError(w, http.StatusConflict, "Email already registered")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		setSessionCookie(w, token, cookieExpiresDays)
		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
	}
}
