package redis

import (
	"context"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/distance"
)

// LockStoreInterface defines the interface for distributed trip locking.
type LockStoreInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ distance.EstimateCache = (*CacheStore)(nil)
)
