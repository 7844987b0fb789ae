package cache

import (
	"context"
	"time"

	"github.com/solokill756/tourbooking/model"
)

// CacheRepository defines the interface for read caching of hot entities.
// All methods are best-effort; a cache failure never fails a request.
type CacheRepository interface {
	// Tour operations
	GetTour(ctx context.Context, tourID int64) (*model.Tour, error)
	SetTour(ctx context.Context, tourID int64, tour *model.Tour, ttl time.Duration) error

	// Tour list operations
	GetTourList(ctx context.Context) ([]model.Tour, error)
	SetTourList(ctx context.Context, tours []model.Tour, ttl time.Duration) error

	// Scope invalidation, driven by the invalidation worker
	InvalidateTours(ctx context.Context) error
	InvalidateBookings(ctx context.Context) error
	InvalidateUsers(ctx context.Context) error

	// Health check
	Ping(ctx context.Context) error
}
