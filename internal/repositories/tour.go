package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
)

const toursCollection = "tours"

// TourReadRepository provides read and aggregation access to the tours
// collection.
type TourReadRepository struct {
	coll *mongo.Collection
}

// NewTourReadRepository creates a new TourReadRepository.
func NewTourReadRepository(db *mongo.Database) *TourReadRepository {
	return &TourReadRepository{coll: db.Collection(toursCollection)}
}

// List returns tours matching the parsed list options.
func (r *TourReadRepository) List(ctx context.Context, opts query.Options) ([]models.Tour, error) {
	findOpts := options.Find().SetLimit(opts.Limit)
	if opts.Sort != nil {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}

	cursor, err := r.coll.Find(ctx, opts.Filter, findOpts)

	logger.Log.Infow("tours.find", "filter", opts.Filter, "limit", opts.Limit, "error", err)

	if err != nil {
		return nil, err
	}

	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// GetByID returns the tour with the given id, or nil when no such tour exists.
func (r *TourReadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	var tour models.Tour
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tour)

	logger.Log.Infow("tours.findOne", "id", id.Hex(), "error", err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// Within returns tours whose start location lies inside the sphere centered
// at lat,lng with the given angular radius.
func (r *TourReadRepository) Within(ctx context.Context, lat, lng, radius float64) ([]models.Tour, error) {
	filter := query.WithinFilter(lat, lng, radius)

	cursor, err := r.coll.Find(ctx, filter)

	logger.Log.Infow("tours.within", "lat", lat, "lng", lng, "radius", radius, "error", err)

	if err != nil {
		return nil, err
	}

	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// Distances returns tours annotated with their distance from the given point,
// nearest first, scaled by the unit multiplier.
func (r *TourReadRepository) Distances(ctx context.Context, lat, lng, multiplier float64) ([]models.TourDistance, error) {
	cursor, err := r.coll.Aggregate(ctx, query.DistancesPipeline(lat, lng, multiplier))

	logger.Log.Infow("tours.distances", "lat", lat, "lng", lng, "multiplier", multiplier, "error", err)

	if err != nil {
		return nil, err
	}

	distances := []models.TourDistance{}
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, err
	}
	return distances, nil
}

// Stats runs the grouped tour statistics aggregation.
func (r *TourReadRepository) Stats(ctx context.Context) ([]models.TourStats, error) {
	cursor, err := r.coll.Aggregate(ctx, query.StatsPipeline())

	logger.Log.Infow("tours.stats", "error", err)

	if err != nil {
		return nil, err
	}

	stats := []models.TourStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyPlan runs the per-month tour start aggregation for a calendar year.
func (r *TourReadRepository) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error) {
	cursor, err := r.coll.Aggregate(ctx, query.MonthlyPlanPipeline(year))

	logger.Log.Infow("tours.monthlyPlan", "year", year, "error", err)

	if err != nil {
		return nil, err
	}

	plan := []models.MonthlyPlanEntry{}
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// TourWriteRepository provides write access to the tours collection.
type TourWriteRepository struct {
	coll *mongo.Collection
}

// NewTourWriteRepository creates a new TourWriteRepository.
func NewTourWriteRepository(db *mongo.Database) *TourWriteRepository {
	return &TourWriteRepository{coll: db.Collection(toursCollection)}
}

// Save inserts a new tour and returns its id.
func (r *TourWriteRepository) Save(ctx context.Context, tour *models.Tour) (primitive.ObjectID, error) {
	tour.CreatedAt = time.Now()

	res, err := r.coll.InsertOne(ctx, tour)

	logger.Log.Infow("tours.insertOne", "name", tour.Name, "error", err)

	if err != nil {
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	tour.ID = id
	return id, nil
}

// Update sets the given fields and returns the updated tour, or nil when no
// such tour exists.
func (r *TourWriteRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tour, error) {
	var tour models.Tour
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tour)

	logger.Log.Infow("tours.updateOne", "id", id.Hex(), "error", err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// Delete removes the tour and returns how many records were deleted.
func (r *TourWriteRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})

	logger.Log.Infow("tours.deleteOne", "id", id.Hex(), "error", err)

	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
