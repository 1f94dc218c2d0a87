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

// ProfileService defines the self-serve profile operations.
type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdateMe(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error)
	DeleteMe(ctx context.Context, userID string) error
}

// UserResponse wraps a single user record
// swagger:model UserResponse
type UserResponse struct {
	// User record
	User *models.User `json:"user"`
}

// UpdateMeRequest represents the JSON body for a self-serve profile update
// swagger:model UpdateMeRequest
type UpdateMeRequest struct {
	// Display name
	Name string `json:"name" validate:"omitempty"`

	// Email
	Email string `json:"email" validate:"omitempty,email"`

	// Photo file name
	Photo string `json:"photo" validate:"omitempty"`

	// Present only to reject misuse; use /auth/updateMyPassword instead
	Password string `json:"password" validate:"omitempty"`

	// Present only to reject misuse; use /auth/updateMyPassword instead
	PasswordConfirm string `json:"passwordConfirm" validate:"omitempty"`
}

// NewGetMeHandler returns an HTTP handler for reading the own profile.
// @Summary Get own profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserResponse "Own user record"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Router /user/getMe [get]
func NewGetMeHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		user, err := svc.GetMe(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// NewUpdateMeHandler returns an HTTP handler for a self-serve profile update.
// Password fields are rejected here.
// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateMeRequest body handlers.UpdateMeRequest true "Profile Update"
// @Success 200 {object} handlers.UserResponse "Updated user record"
// @Failure 400 {object} handlers.ErrorResponse "Password fields present"
// @Router /user/updateMe [patch]
func NewUpdateMeHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		var req UpdateMeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := svc.UpdateMe(r.Context(), claims.UserID, services.ProfileUpdate{
			Name:            req.Name,
			Email:           req.Email,
			Photo:           req.Photo,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordUpdateNotAllowed):
				writeError(w, http.StatusBadRequest, "This route is not for password updates. Please use /auth/updateMyPassword.")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// NewDeleteMeHandler returns an HTTP handler that soft-deletes the own
// account.
// @Summary Deactivate own account
// @Tags user
// @Security BearerAuth
// @Success 204 "Account deactivated"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Router /user/deleteMe [delete]
func NewDeleteMeHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		if err := svc.DeleteMe(r.Context(), claims.UserID); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
