package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
)

const tourStatsKey = "tour_stats"

// ErrStatsCacheMiss is returned when no cached stats rows are present.
var ErrStatsCacheMiss = errors.New("tour stats not found in cache")

// TourStatsCacheRepository caches the tour statistics aggregation in Redis.
// The aggregation scans the whole collection, so its result is kept warm
// between requests.
type TourStatsCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewTourStatsCacheRepository creates a new repository instance with the
// given TTL.
func NewTourStatsCacheRepository(client *redis.Client, expiration time.Duration) *TourStatsCacheRepository {
	return &TourStatsCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// GetStats fetches cached stats rows. Returns ErrStatsCacheMiss when absent.
func (r *TourStatsCacheRepository) GetStats(ctx context.Context) ([]models.TourStats, error) {
	val, err := r.client.Get(ctx, tourStatsKey).Result()

	logger.Log.Infow("cache.get", "key", tourStatsKey, "error", err)

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStatsCacheMiss
		}
		return nil, err
	}

	var stats []models.TourStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SetStats caches stats rows with the configured expiration.
func (r *TourStatsCacheRepository) SetStats(ctx context.Context, stats []models.TourStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, tourStatsKey, data, r.exp).Err()

	logger.Log.Infow("cache.set", "key", tourStatsKey, "rows", len(stats), "error", err)

	return err
}
