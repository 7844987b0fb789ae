package notifier

import (
	"context"
	"time"
)

// Scope identifies a group of downstream caches to refresh.
type Scope string

const (
	ScopeBookings Scope = "bookings"
	ScopeTours    Scope = "tours"
	ScopeUsers    Scope = "users"
)

// InvalidationEvent is the message published on the invalidation topic.
type InvalidationEvent struct {
	Scope     Scope     `json:"scope"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier signals downstream caches to refresh after a mutation. Delivery is
// best-effort: callers log the returned error and move on, a failed
// notification never fails the mutation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, scope Scope) error
	Close() error
}
