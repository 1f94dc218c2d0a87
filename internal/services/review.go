package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
)

var (
	// ErrReviewNotFound is returned when a review lookup misses.
	ErrReviewNotFound = errors.New("review not found")
	// ErrAlreadyReviewed is returned when a user reviews the same tour twice.
	ErrAlreadyReviewed = errors.New("you have already reviewed this tour")
)

// ReviewReader defines read operations for reviews.
type ReviewReader interface {
	ListByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error)
	CountByTourAndUser(ctx context.Context, tourID, userID primitive.ObjectID) (int64, error)
}

// ReviewWriter defines write operations for reviews.
type ReviewWriter interface {
	Save(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// ReviewService handles tour reviews.
type ReviewService struct {
	reader ReviewReader
	writer ReviewWriter
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(reader ReviewReader, writer ReviewWriter) *ReviewService {
	return &ReviewService{reader: reader, writer: writer}
}

// ListByTour returns all reviews left on a tour.
func (svc *ReviewService) ListByTour(ctx context.Context, tourID string) ([]models.Review, error) {
	id, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, ErrTourNotFound
	}
	return svc.reader.ListByTour(ctx, id)
}

// Create adds a review by the authenticated user on a tour. A user may
// review each tour at most once.
func (svc *ReviewService) Create(ctx context.Context, tourID, userID, text string, rating float64) (*models.Review, error) {
	tid, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, ErrTourNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	n, err := svc.reader.CountByTourAndUser(ctx, tid, uid)
	if err != nil {
		logger.Log.Errorw("failed to check existing review", "tour_id", tourID, "user_id", userID, "err", err)
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		Review: text,
		Rating: rating,
		Tour:   tid,
		User:   uid,
	}
	if _, err := svc.writer.Save(ctx, review); err != nil {
		logger.Log.Errorw("failed to save review", "tour_id", tourID, "user_id", userID, "err", err)
		return nil, err
	}
	return review, nil
}

// Delete removes a review.
func (svc *ReviewService) Delete(ctx context.Context, reviewID string) error {
	id, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}

	n, err := svc.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete review", "review_id", reviewID, "err", err)
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
