package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
	"github.com/TechsCEO/huma-tour/internal/services"
	"github.com/TechsCEO/huma-tour/internal/validators"
)

// TourManager defines the tour CRUD operations.
type TourManager interface {
	List(ctx context.Context, opts query.Options) ([]models.Tour, error)
	Get(ctx context.Context, tourID string) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	Update(ctx context.Context, tourID string, fields bson.M) (*models.Tour, error)
	Delete(ctx context.Context, tourID string) error
}

// ToursResponse wraps a list of tours
// swagger:model ToursResponse
type ToursResponse struct {
	// Number of results
	Results int `json:"results"`

	// Tours
	Tours []models.Tour `json:"tours"`
}

// TourResponse wraps a single tour
// swagger:model TourResponse
type TourResponse struct {
	// Tour
	Tour *models.Tour `json:"tour"`
}

// CreateTourRequest represents the JSON body for creating a tour
// swagger:model CreateTourRequest
type CreateTourRequest struct {
	// Tour name
	// required: true
	Name string `json:"name" validate:"required,min=10,max=40"`

	// Duration in days
	// required: true
	Duration int `json:"duration" validate:"required,gte=1"`

	// Maximum group size
	// required: true
	MaxGroupSize int `json:"maxGroupSize" validate:"required,gte=1"`

	// Difficulty
	// required: true
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium difficult"`

	// Price
	// required: true
	Price float64 `json:"price" validate:"required,gte=0"`

	// Summary
	// required: true
	Summary string `json:"summary" validate:"required"`
}

// NewListToursHandler returns an HTTP handler listing tours with filter,
// sort, field, and limit parameters.
// @Summary List tours
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of results"
// @Param sort query string false "Comma-separated sort keys, - prefix for descending"
// @Param fields query string false "Comma-separated projection fields"
// @Success 200 {object} handlers.ToursResponse "Tours"
// @Router /tours [get]
func NewListToursHandler(svc TourManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tours, err := svc.List(r.Context(), query.Parse(r.URL.Query()))
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, ToursResponse{Results: len(tours), Tours: tours})
	}
}

// NewGetTourHandler returns an HTTP handler reading a single tour by id.
// @Summary Get a tour
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour id"
// @Success 200 {object} handlers.TourResponse "Tour"
// @Failure 404 {object} handlers.ErrorResponse "Tour not found"
// @Router /tour/{id} [get]
func NewGetTourHandler(svc TourManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tour, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, services.ErrTourNotFound) {
				writeError(w, http.StatusNotFound, "Tour not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TourResponse{Tour: tour})
	}
}

// NewCreateTourHandler returns an HTTP handler creating a tour.
// @Summary Create a tour
// @Tags tour
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createTourRequest body handlers.CreateTourRequest true "Create Tour Request"
// @Success 201 {object} handlers.TourResponse "Tour created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Router /tour [post]
func NewCreateTourHandler(svc TourManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tour models.Tour
		if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validateTour(w, &tour) {
			return
		}

		created, err := svc.Create(r.Context(), &tour)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, TourResponse{Tour: created})
	}
}

// NewUpdateTourHandler returns an HTTP handler that patches tour fields.
// @Summary Update a tour
// @Tags tour
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour id"
// @Param fields body object true "Fields to set"
// @Success 200 {object} handlers.TourResponse "Updated tour"
// @Failure 404 {object} handlers.ErrorResponse "Tour not found"
// @Router /tour/{id} [patch]
func NewUpdateTourHandler(svc TourManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields bson.M
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		delete(fields, "_id")
		delete(fields, "id")

		tour, err := svc.Update(r.Context(), chi.URLParam(r, "id"), fields)
		if err != nil {
			if errors.Is(err, services.ErrTourNotFound) {
				writeError(w, http.StatusNotFound, "Tour not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TourResponse{Tour: tour})
	}
}

// NewDeleteTourHandler returns an HTTP handler deleting a tour.
// @Summary Delete a tour
// @Tags tour
// @Security BearerAuth
// @Param id path string true "Tour id"
// @Success 204 "Tour deleted"
// @Failure 404 {object} handlers.ErrorResponse "Tour not found"
// @Router /tour/{id} [delete]
func NewDeleteTourHandler(svc TourManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, services.ErrTourNotFound) {
				writeError(w, http.StatusNotFound, "Tour not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// validateTour checks the decoded tour against the creation rules. On
// failure it writes the 400 response itself and reports false.
func validateTour(w http.ResponseWriter, tour *models.Tour) bool {
	req := CreateTourRequest{
		Name:         tour.Name,
		Duration:     tour.Duration,
		MaxGroupSize: tour.MaxGroupSize,
		Difficulty:   tour.Difficulty,
		Price:        tour.Price,
		Summary:      tour.Summary,
	}
	err := validators.Struct(&req)
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
