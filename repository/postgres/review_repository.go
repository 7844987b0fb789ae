package postgres

import (
	"context"
	"fmt"

	"github.com/solokill756/tourbooking/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// GetReview retrieves the review for a (user, tour) pair
func (r *PostgresReviewRepository) GetReview(ctx context.Context, userID, tourID int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tour_id = ?", userID, tourID).
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}

	return &review, nil
}

// UpsertReview creates or replaces the single review per (user, tour).
// Overwrite on conflict is deliberate: resubmitting a review updates it.
func (r *PostgresReviewRepository) UpsertReview(ctx context.Context, req model.UpsertReviewRequest) (*model.Review, error) {
	review := &model.Review{
		UserID:  req.UserID,
		TourID:  req.TourID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tour_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	// Re-read so the caller sees the stored row, including the original
	// created_at on overwrite.
	return r.GetReview(ctx, req.UserID, req.TourID)
}

// ListTourReviews retrieves all reviews for a tour, newest first
func (r *PostgresReviewRepository) ListTourReviews(ctx context.Context, tourID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}
