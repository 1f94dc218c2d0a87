package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/middlewares"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// ReviewManager defines the review operations.
type ReviewManager interface {
	ListByTour(ctx context.Context, tourID string) ([]models.Review, error)
	Create(ctx context.Context, tourID, userID, text string, rating float64) (*models.Review, error)
	Delete(ctx context.Context, reviewID string) error
}

// ReviewsResponse wraps the reviews of a tour
// swagger:model ReviewsResponse
type ReviewsResponse struct {
	// Number of results
	Results int `json:"results"`

	// Reviews
	Reviews []models.Review `json:"reviews"`
}

// ReviewResponse wraps a single review
// swagger:model ReviewResponse
type ReviewResponse struct {
	// Review
	Review *models.Review `json:"review"`
}

// CreateReviewRequest represents the JSON body for leaving a review
// swagger:model CreateReviewRequest
type CreateReviewRequest struct {
	// Review text
	// required: true
	Review string `json:"review" validate:"required"`

	// Rating from 1 to 5
	// required: true
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// NewListReviewsHandler returns an HTTP handler listing a tour's reviews.
// @Summary List reviews of a tour
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour id"
// @Success 200 {object} handlers.ReviewsResponse "Reviews"
// @Failure 404 {object} handlers.ErrorResponse "Tour not found"
// @Router /tour/{id}/reviews [get]
func NewListReviewsHandler(svc ReviewManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := svc.ListByTour(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, services.ErrTourNotFound) {
				writeError(w, http.StatusNotFound, "Tour not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, ReviewsResponse{Results: len(reviews), Reviews: reviews})
	}
}

// NewCreateReviewHandler returns an HTTP handler for leaving a review on a
// tour. A user may review each tour at most once.
// @Summary Review a tour
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour id"
// @Param createReviewRequest body handlers.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} handlers.ReviewResponse "Review created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 409 {object} handlers.ErrorResponse "Already reviewed"
// @Router /tour/{id}/review [post]
func NewCreateReviewHandler(svc ReviewManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		var req CreateReviewRequest
		if !decodeBody(w, r, &req) {
			return
		}

		review, err := svc.Create(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Review, req.Rating)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyReviewed):
				writeError(w, http.StatusConflict, "You have already reviewed this tour")
			case errors.Is(err, services.ErrTourNotFound):
				writeError(w, http.StatusNotFound, "Tour not found")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, ReviewResponse{Review: review})
	}
}

// NewDeleteReviewHandler returns an HTTP handler deleting a review.
// @Summary Delete a review
// @Tags review
// @Security BearerAuth
// @Param id path string true "Review id"
// @Success 204 "Review deleted"
// @Failure 404 {object} handlers.ErrorResponse "Review not found"
// @Router /review/{id} [delete]
func NewDeleteReviewHandler(svc ReviewManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, services.ErrReviewNotFound) {
				writeError(w, http.StatusNotFound, "Review not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
