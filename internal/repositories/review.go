package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
)

const reviewsCollection = "reviews"

// ReviewReadRepository provides read access to the reviews collection.
type ReviewReadRepository struct {
	coll *mongo.Collection
}

// NewReviewReadRepository creates a new ReviewReadRepository.
func NewReviewReadRepository(db *mongo.Database) *ReviewReadRepository {
	return &ReviewReadRepository{coll: db.Collection(reviewsCollection)}
}

// ListByTour returns all reviews for the given tour.
func (r *ReviewReadRepository) ListByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"tour": tourID})

	logger.Log.Infow("reviews.find", "tour", tourID.Hex(), "error", err)

	if err != nil {
		return nil, err
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByTourAndUser reports how many reviews the user already left on the
// tour. The collection carries a unique tour+user index; this read lets the
// service fail with a domain error before hitting it.
func (r *ReviewReadRepository) CountByTourAndUser(ctx context.Context, tourID, userID primitive.ObjectID) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"tour": tourID, "user": userID})

	logger.Log.Infow("reviews.count", "tour", tourID.Hex(), "user", userID.Hex(), "error", err)

	return n, err
}

// ReviewWriteRepository provides write access to the reviews collection.
type ReviewWriteRepository struct {
	coll *mongo.Collection
}

// NewReviewWriteRepository creates a new ReviewWriteRepository.
func NewReviewWriteRepository(db *mongo.Database) *ReviewWriteRepository {
	return &ReviewWriteRepository{coll: db.Collection(reviewsCollection)}
}

// Save inserts a new review and returns its id.
func (r *ReviewWriteRepository) Save(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	review.CreatedAt = time.Now()

	res, err := r.coll.InsertOne(ctx, review)

	logger.Log.Infow("reviews.insertOne", "tour", review.Tour.Hex(), "user", review.User.Hex(), "error", err)

	if err != nil {
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	review.ID = id
	return id, nil
}

// Delete removes the review and returns how many records were deleted.
func (r *ReviewWriteRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})

	logger.Log.Infow("reviews.deleteOne", "id", id.Hex(), "error", err)

	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
