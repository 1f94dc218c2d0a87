package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
)

// GeoProvider defines the geospatial tour queries.
type GeoProvider interface {
	Within(ctx context.Context, distance float64, latlng, unit string) ([]models.Tour, error)
	Distances(ctx context.Context, latlng, unit string) ([]models.TourDistance, error)
}

// TourDistancesResponse wraps the distances-from-point rows
// swagger:model TourDistancesResponse
type TourDistancesResponse struct {
	// One row per tour, nearest first
	Distances []models.TourDistance `json:"distances"`
}

// NewToursWithinHandler returns an HTTP handler listing tours whose start
// location lies within a distance of a center point.
// @Summary Tours within a radius
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Param distance path number true "Radius"
// @Param latlng path string true "Center as lat,lng"
// @Param unit path string true "mi or km"
// @Success 200 {object} handlers.ToursResponse "Tours"
// @Failure 400 {object} handlers.ErrorResponse "Bad center or distance"
// @Router /tours-within/{distance}/center/{latlng}/unit/{unit} [get]
func NewToursWithinHandler(svc GeoProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "distance must be a number")
			return
		}

		tours, err := svc.Within(r.Context(), distance, chi.URLParam(r, "latlng"), chi.URLParam(r, "unit"))
		if err != nil {
			if errors.Is(err, query.ErrInvalidLatLng) {
				writeError(w, http.StatusBadRequest, "Please provide latitude and longitude in the format lat,lng")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, ToursResponse{Results: len(tours), Tours: tours})
	}
}

// NewTourDistancesHandler returns an HTTP handler computing every tour's
// distance from a point.
// @Summary Distances to all tours
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Param latlng path string true "Point as lat,lng"
// @Param unit path string true "mi or km"
// @Success 200 {object} handlers.TourDistancesResponse "Distances"
// @Failure 400 {object} handlers.ErrorResponse "Bad point"
// @Router /distances/{latlng}/unit/{unit} [get]
func NewTourDistancesHandler(svc GeoProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distances, err := svc.Distances(r.Context(), chi.URLParam(r, "latlng"), chi.URLParam(r, "unit"))
		if err != nil {
			if errors.Is(err, query.ErrInvalidLatLng) {
				writeError(w, http.StatusBadRequest, "Please provide latitude and longitude in the format lat,lng")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TourDistancesResponse{Distances: distances})
	}
}
