package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chatbottax/your-nemt-app/internal/distance"
)

// CacheStore handles caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// EstimateCacheTTL keeps distance-service results around long enough to
	// dedupe lookups within a burst of assignments without serving stale
	// traffic data for hours.
	EstimateCacheTTL = 10 * time.Minute

	// SummaryCacheTTL keeps dashboard totals fresh to within half a minute.
	SummaryCacheTTL = 30 * time.Second
)

// Key prefixes
const (
	estimateCachePrefix = "cache:dm:"
	summaryCachePrefix  = "cache:dashboard:"
)

// cachedEstimate is the on-wire form of a distance estimate.
type cachedEstimate struct {
	DurationSeconds float64 `json:"duration_s"`
	DistanceMeters  float64 `json:"distance_m"`
}

func estimateKey(originLat, originLng, destLat, destLng float64) string {
	return fmt.Sprintf("%s%.6f,%.6f:%.6f,%.6f", estimateCachePrefix, originLat, originLng, destLat, destLng)
}

// GetEstimate retrieves a cached distance estimate. Returns nil on a miss.
func (s *CacheStore) GetEstimate(ctx context.Context, originLat, originLng, destLat, destLng float64) (*distance.Estimate, error) {
	key := estimateKey(originLat, originLng, destLat, destLng)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached cachedEstimate
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &distance.Estimate{
		DurationSeconds: cached.DurationSeconds,
		DistanceMeters:  cached.DistanceMeters,
	}, nil
}

// SetEstimate stores a distance estimate in cache.
func (s *CacheStore) SetEstimate(ctx context.Context, originLat, originLng, destLat, destLng float64, est distance.Estimate) error {
	key := estimateKey(originLat, originLng, destLat, destLng)
	data, err := json.Marshal(cachedEstimate{
		DurationSeconds: est.DurationSeconds,
		DistanceMeters:  est.DistanceMeters,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, EstimateCacheTTL).Err()
}

// GetSummary retrieves a cached dashboard summary payload. Returns nil on a miss.
func (s *CacheStore) GetSummary(ctx context.Context, rng string) ([]byte, error) {
	data, err := s.client.Get(ctx, summaryCachePrefix+rng).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetSummary stores a dashboard summary payload.
func (s *CacheStore) SetSummary(ctx context.Context, rng string, payload []byte) error {
	return s.client.Set(ctx, summaryCachePrefix+rng, payload, SummaryCacheTTL).Err()
}

// InvalidateSummaries drops all cached dashboard summaries. Called after a
// route write so totals never lag a full TTL behind an edit.
func (s *CacheStore) InvalidateSummaries(ctx context.Context) error {
	return s.client.Del(ctx, summaryCachePrefix+"day", summaryCachePrefix+"week").Err()
}
