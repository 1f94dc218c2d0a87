package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// UserManager defines the administrative user operations.
type UserManager interface {
	List(ctx context.Context, opts query.Options) ([]models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, name, email, plaintext string, role models.Role) (*models.User, error)
	Update(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

// UsersResponse wraps a list of user records
// swagger:model UsersResponse
type UsersResponse struct {
	// Number of results
	Results int `json:"results"`

	// User records
	Users []models.User `json:"users"`
}

// CreateUserRequest represents the JSON body for creating a user record
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// Display name
	// required: true
	Name string `json:"name" validate:"required"`

	// Email
	// required: true
	Email string `json:"email" validate:"required,email"`

	// Password
	// required: true
	Password string `json:"password" validate:"required,min=8"`

	// Password confirmation, must match password
	// required: true
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`

	// Role, defaults to user
	Role models.Role `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
}

// NewListUsersHandler returns an HTTP handler listing users with filter,
// sort, field, and limit parameters.
// @Summary List users
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of results"
// @Param sort query string false "Comma-separated sort keys, - prefix for descending"
// @Param fields query string false "Comma-separated projection fields"
// @Success 200 {object} handlers.UsersResponse "Users"
// @Failure 403 {object} handlers.ErrorResponse "Not permitted"
// @Router /users [get]
func NewListUsersHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context(), query.Parse(r.URL.Query()))
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, UsersResponse{Results: len(users), Users: users})
	}
}

// NewGetUserHandler returns an HTTP handler reading a single user by id.
// @Summary Get a user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} handlers.UserResponse "User"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id} [get]
func NewGetUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
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

// NewCreateUserHandler returns an HTTP handler creating a user record
// through the same credential pipeline as sign-up.
// @Summary Create a user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createUserRequest body handlers.CreateUserRequest true "Create User Request"
// @Success 201 {object} handlers.UserResponse "User created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 409 {object} handlers.ErrorResponse "Email already registered"
// @Router /user [post]
func NewCreateUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := svc.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			if errors.Is(err, services.ErrUserAlreadyExists) {
				writeError(w, http.StatusConflict, "Email already registered")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, UserResponse{User: user})
	}
}

// NewUpdateUserHandler returns an HTTP handler updating a user's profile
// fields by id. Password fields are rejected here too.
// @Summary Update a user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Param updateMeRequest body handlers.UpdateMeRequest true "Profile Update"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id} [patch]
func NewUpdateUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateMeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := svc.Update(r.Context(), chi.URLParam(r, "id"), services.ProfileUpdate{
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

// NewDeleteUserHandler returns an HTTP handler that hard-deletes a user
// record.
// @Summary Delete a user
// @Tags user
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 204 "User deleted"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id} [delete]
func NewDeleteUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
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
