package service

import (
	"context"
	"errors"
	"time"

	"github.com/solokill756/tourbooking/cache"
	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/repository"
	"go.uber.org/zap"
)

// Catalog reads are cached for a short window; the invalidation worker drops
// the keys when a mutation publishes a tours-scope event.
const tourCacheTTL = 5 * time.Minute

// TourService serves the tour catalog with Redis read-through caching.
type TourService struct {
	tours  repository.TourRepository
	cache  cache.CacheRepository
	logger *zap.Logger
}

func NewTourService(tours repository.TourRepository, c cache.CacheRepository, logger *zap.Logger) *TourService {
	return &TourService{
		tours:  tours,
		cache:  c,
		logger: logger,
	}
}

// GetTour returns a single tour, from cache when possible.
func (s *TourService) GetTour(ctx context.Context, tourID int64) (*model.Tour, error) {
	tour, err := s.cache.GetTour(ctx, tourID)
	if err != nil {
		s.logger.Warn("tour cache read failed", zap.Int64("tour_id", tourID), zap.Error(err))
	}
	if tour != nil {
		return tour, nil
	}

	tour, err = s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "tour not found")
		}
		s.logger.Error("store operation failed",
			zap.String("action", "get_tour"),
			zap.Int64("entity_id", tourID),
			zap.Time("at", time.Now()),
			zap.Error(err))
		return nil, Internal(err)
	}

	if err := s.cache.SetTour(ctx, tourID, tour, tourCacheTTL); err != nil {
		s.logger.Warn("tour cache write failed", zap.Int64("tour_id", tourID), zap.Error(err))
	}

	return tour, nil
}

// ListTours returns the tour catalog, from cache when possible.
func (s *TourService) ListTours(ctx context.Context) ([]model.Tour, error) {
	tours, err := s.cache.GetTourList(ctx)
	if err != nil {
		s.logger.Warn("tour list cache read failed", zap.Error(err))
	}
	if tours != nil {
		return tours, nil
	}

	tours, err = s.tours.ListTours(ctx)
	if err != nil {
		s.logger.Error("store operation failed",
			zap.String("action", "list_tours"),
			zap.Time("at", time.Now()),
			zap.Error(err))
		return nil, Internal(err)
	}

	if err := s.cache.SetTourList(ctx, tours, tourCacheTTL); err != nil {
		s.logger.Warn("tour list cache write failed", zap.Error(err))
	}

	return tours, nil
}
