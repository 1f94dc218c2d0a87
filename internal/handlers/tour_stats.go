package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
)

// StatsProvider defines the tour aggregation operations.
type StatsProvider interface {
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error)
}

// TourStatsResponse wraps the grouped tour statistics
// swagger:model TourStatsResponse
type TourStatsResponse struct {
	// One row per difficulty
	Stats []models.TourStats `json:"stats"`
}

// MonthlyPlanResponse wraps the monthly plan rows for a year
// swagger:model MonthlyPlanResponse
type MonthlyPlanResponse struct {
	// One row per month with tour starts
	Plan []models.MonthlyPlanEntry `json:"plan"`
}

// NewTourStatsHandler returns an HTTP handler for the grouped tour
// statistics of well-rated tours.
// @Summary Tour statistics
// @Description Per-difficulty aggregates over tours rated 4.5 and up
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.TourStatsResponse "Statistics"
// @Router /tour-stats [get]
func NewTourStatsHandler(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TourStatsResponse{Stats: stats})
	}
}

// NewMonthlyPlanHandler returns an HTTP handler for the per-month tour
// start counts of a calendar year.
// @Summary Monthly plan
// @Description Tour starts per month for the given year, busiest first
// @Tags tour
// @Produce json
// @Security BearerAuth
// @Param year path int true "Calendar year"
// @Success 200 {object} handlers.MonthlyPlanResponse "Plan"
// @Failure 400 {object} handlers.ErrorResponse "Bad year"
// @Router /monthly-plan/{year} [get]
func NewMonthlyPlanHandler(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be a number")
			return
		}

		plan, err := svc.MonthlyPlan(r.Context(), year)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, MonthlyPlanResponse{Plan: plan})
	}
}
