package services

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
)

// ErrTourNotFound is returned when a tour lookup misses.
var ErrTourNotFound = errors.New("tour not found")

// TourReader defines read and aggregation operations for tours.
type TourReader interface {
	List(ctx context.Context, opts query.Options) ([]models.Tour, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	Within(ctx context.Context, lat, lng, radius float64) ([]models.Tour, error)
	Distances(ctx context.Context, lat, lng, multiplier float64) ([]models.TourDistance, error)
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error)
}

// TourWriter defines write operations for tours.
type TourWriter interface {
	Save(ctx context.Context, tour *models.Tour) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// StatsCache caches the tour statistics aggregation.
type StatsCache interface {
	GetStats(ctx context.Context) ([]models.TourStats, error)
	SetStats(ctx context.Context, stats []models.TourStats) error
}

// TourService handles tour listing, geospatial queries, and statistics.
type TourService struct {
	reader TourReader
	writer TourWriter
	cache  StatsCache
}

// NewTourService creates a new TourService instance. The cache may be nil,
// in which case every stats request hits the aggregation.
func NewTourService(reader TourReader, writer TourWriter, cache StatsCache) *TourService {
	return &TourService{reader: reader, writer: writer, cache: cache}
}

// List returns tours matching the parsed list options.
func (svc *TourService) List(ctx context.Context, opts query.Options) ([]models.Tour, error) {
	return svc.reader.List(ctx, opts)
}

// Get returns a single tour by id.
func (svc *TourService) Get(ctx context.Context, tourID string) (*models.Tour, error) {
	id, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, ErrTourNotFound
	}

	tour, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get tour", "tour_id", tourID, "err", err)
		return nil, err
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

// Create inserts a new tour, deriving its slug from the name.
func (svc *TourService) Create(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	tour.Slug = slug.Make(tour.Name)

	if _, err := svc.writer.Save(ctx, tour); err != nil {
		logger.Log.Errorw("failed to save tour", "name", tour.Name, "err", err)
		return nil, err
	}
	return tour, nil
}

// Update sets the given fields on a tour and returns the updated record.
func (svc *TourService) Update(ctx context.Context, tourID string, fields bson.M) (*models.Tour, error) {
	id, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, ErrTourNotFound
	}

	if name, ok := fields["name"].(string); ok && name != "" {
		fields["slug"] = slug.Make(name)
	}

	tour, err := svc.writer.Update(ctx, id, fields)
	if err != nil {
		logger.Log.Errorw("failed to update tour", "tour_id", tourID, "err", err)
		return nil, err
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

// Delete removes a tour.
func (svc *TourService) Delete(ctx context.Context, tourID string) error {
	id, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return ErrTourNotFound
	}

	n, err := svc.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete tour", "tour_id", tourID, "err", err)
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// Stats returns the grouped tour statistics, cache-aside: a warm cache entry
// is served directly, otherwise the aggregation runs and its result is cached
// best-effort.
func (svc *TourService) Stats(ctx context.Context) ([]models.TourStats, error) {
	if svc.cache != nil {
		if stats, err := svc.cache.GetStats(ctx); err == nil {
			return stats, nil
		}
	}

	stats, err := svc.reader.Stats(ctx)
	if err != nil {
		logger.Log.Errorw("failed to aggregate tour stats", "err", err)
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.SetStats(ctx, stats); err != nil {
			logger.Log.Warnw("failed to cache tour stats", "err", err)
		}
	}

	return stats, nil
}

// MonthlyPlan returns per-month tour start counts for a calendar year.
func (svc *TourService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error) {
	return svc.reader.MonthlyPlan(ctx, year)
}

// Within returns tours whose start location lies within the given distance
// of the lat,lng center. The distance converts to an angular radius using
// the Earth radius for the requested unit.
func (svc *TourService) Within(ctx context.Context, distance float64, latlng, unit string) ([]models.Tour, error) {
	lat, lng, err := query.ParseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	return svc.reader.Within(ctx, lat, lng, query.Radius(distance, unit))
}

// Distances returns every tour's distance from the given point, nearest
// first. There is no radius cutoff.
func (svc *TourService) Distances(ctx context.Context, latlng, unit string) ([]models.TourDistance, error) {
	lat, lng, err := query.ParseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	return svc.reader.Distances(ctx, lat, lng, query.DistanceMultiplier(unit))
}
