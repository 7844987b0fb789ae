package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solokill756/tourbooking/model"
)

type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(redisURL, password string, db int) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheRepository{client: client}, nil
}

// Cache key generators
func (r *RedisCacheRepository) tourKey(tourID int64) string {
	return fmt.Sprintf("tours:%d", tourID)
}

func (r *RedisCacheRepository) tourListKey() string {
	return "tours:list"
}

// GetTour retrieves a tour from cache; nil without error on a miss
func (r *RedisCacheRepository) GetTour(ctx context.Context, tourID int64) (*model.Tour, error) {
	data, err := r.client.Get(ctx, r.tourKey(tourID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var tour model.Tour
	if err := json.Unmarshal([]byte(data), &tour); err != nil {
		return nil, err
	}

	return &tour, nil
}

// SetTour stores a tour in cache
func (r *RedisCacheRepository) SetTour(ctx context.Context, tourID int64, tour *model.Tour, ttl time.Duration) error {
	data, err := json.Marshal(tour)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.tourKey(tourID), data, ttl).Err()
}

// GetTourList retrieves the cached tour catalog; nil without error on a miss
func (r *RedisCacheRepository) GetTourList(ctx context.Context) ([]model.Tour, error) {
	data, err := r.client.Get(ctx, r.tourListKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var tours []model.Tour
	if err := json.Unmarshal([]byte(data), &tours); err != nil {
		return nil, err
	}

	return tours, nil
}

// SetTourList stores the tour catalog in cache
func (r *RedisCacheRepository) SetTourList(ctx context.Context, tours []model.Tour, ttl time.Duration) error {
	data, err := json.Marshal(tours)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.tourListKey(), data, ttl).Err()
}

// invalidatePattern deletes every key matching the pattern
func (r *RedisCacheRepository) invalidatePattern(ctx context.Context, pattern string) error {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}

	return nil
}

// InvalidateTours drops all tour cache entries
func (r *RedisCacheRepository) InvalidateTours(ctx context.Context) error {
	return r.invalidatePattern(ctx, "tours:*")
}

// InvalidateBookings drops all booking cache entries
func (r *RedisCacheRepository) InvalidateBookings(ctx context.Context) error {
	return r.invalidatePattern(ctx, "bookings:*")
}

// InvalidateUsers drops all user cache entries
func (r *RedisCacheRepository) InvalidateUsers(ctx context.Context) error {
	return r.invalidatePattern(ctx, "users:*")
}

// Ping checks if Redis is healthy
func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
