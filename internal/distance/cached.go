package distance

import "context"

// EstimateCache is implemented by the Redis cache store. A nil cache is valid
// and turns CachedClient into a pass-through.
type EstimateCache interface {
	GetEstimate(ctx context.Context, originLat, originLng, destLat, destLng float64) (*Estimate, error)
	SetEstimate(ctx context.Context, originLat, originLng, destLat, destLng float64, est Estimate) error
}

// CachedClient wraps a Client with a read-through cache. Only successful
// lookups are cached, so a cache hit is indistinguishable from a fresh
// success and errors still propagate for the caller's fallback policy.
type CachedClient struct {
	next  Client
	cache EstimateCache
}

// NewCachedClient wraps next with the given cache.
func NewCachedClient(next Client, cache EstimateCache) *CachedClient {
	return &CachedClient{next: next, cache: cache}
}

// Estimate returns the cached estimate when present, otherwise queries the
// underlying client and caches the result. Cache failures are ignored; the
// cache is an optimization, not a dependency.
func (c *CachedClient) Estimate(ctx context.Context, origin, dest Point) (Estimate, error) {
	if c.cache != nil {
		if cached, err := c.cache.GetEstimate(ctx, origin.Lat, origin.Lng, dest.Lat, dest.Lng); err == nil && cached != nil {
			return *cached, nil
		}
	}

	est, err := c.next.Estimate(ctx, origin, dest)
	if err != nil {
		return Estimate{}, err
	}

	if c.cache != nil {
		_ = c.cache.SetEstimate(ctx, origin.Lat, origin.Lng, dest.Lat, dest.Lng, est)
	}

	return est, nil
}

// Ensure CachedClient implements Client.
var _ Client = (*CachedClient)(nil)
