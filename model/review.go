package model

import (
	"time"
)

// Rating bounds enforced by the review service before anything reaches
// storage.
const (
	MinRating = 1
	MaxRating = 5
)

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Review represents the database model for reviews. The composite unique
// index on (user_id, tour_id) enforces at most one review per user per tour;
// writes go through an ON CONFLICT upsert so a second submission overwrites
// the first instead of failing.
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_reviews_user_tour"`
	TourID    int64     `gorm:"not null;uniqueIndex:idx_reviews_user_tour"`
	Rating    int       `gorm:"not null"`
	Comment   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time
}

// TableName sets the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// UpsertReviewRequest represents the data needed to create or replace a review
type UpsertReviewRequest struct {
	UserID  int64
	TourID  int64
	Rating  int
	Comment *string
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// SubmitReviewRequest represents the API request to review a tour
type SubmitReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	TourID    int64     `json:"tour_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TourReviewsResponse represents the list of reviews for a tour
type TourReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
}

// EligibleBookingResponse is the payload backing the review form: the booking,
// a snapshot of its tour, and the caller's existing review if one exists.
type EligibleBookingResponse struct {
	Booking        BookingResponse `json:"booking"`
	Tour           TourResponse    `json:"tour"`
	ExistingReview *ReviewResponse `json:"existing_review,omitempty"`
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

// ToReviewResponse converts a Review entity to an API response
func (r *Review) ToReviewResponse() ReviewResponse {
	return ReviewResponse{
		ReviewID:  r.ID,
		UserID:    r.UserID,
		TourID:    r.TourID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
