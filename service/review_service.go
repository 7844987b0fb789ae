package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/notifier"
	"github.com/solokill756/tourbooking/repository"
	"go.uber.org/zap"
)

// ReviewService decides who may review a tour and owns the single review row
// per (user, tour). Eligibility requires a confirmed, fully paid booking
// whose trip-completion date has passed.
type ReviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
	payments repository.PaymentRepository
	tours    repository.TourRepository
	notifier notifier.Notifier
	logger   *zap.Logger

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository, payments repository.PaymentRepository, tours repository.TourRepository, n notifier.Notifier, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		payments: payments,
		tours:    tours,
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// GetEligibleBooking returns the booking enriched with its tour snapshot and
// the caller's existing review, for the review form. An ineligible booking
// fails with a single generic message; the reason is not disclosed.
func (s *ReviewService) GetEligibleBooking(ctx context.Context, bookingID int64, session model.Session) (*model.EligibleBookingResponse, error) {
	booking, err := s.bookings.GetUserBooking(ctx, bookingID, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("get_eligible_booking", bookingID, err)
		return nil, Internal(err)
	}

	tour, err := s.tours.GetTourByID(ctx, booking.TourID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "tour not found")
		}
		s.logStoreError("get_eligible_booking", bookingID, err)
		return nil, Internal(err)
	}

	payment, err := s.payments.GetPaymentByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logStoreError("get_eligible_booking", bookingID, err)
		return nil, Internal(err)
	}

	if !IsEligibleForReview(booking, payment, tour, s.now()) {
		return nil, NewError(KindInvalidState, "booking is not eligible for review")
	}

	response := &model.EligibleBookingResponse{
		Booking: booking.ToBookingResponse(),
		Tour:    tour.ToTourResponse(),
	}

	existing, err := s.reviews.GetReview(ctx, session.UserID, booking.TourID)
	if err == nil {
		review := existing.ToReviewResponse()
		response.ExistingReview = &review
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logStoreError("get_eligible_booking", bookingID, err)
		return nil, Internal(err)
	}

	return response, nil
}

// UpsertReview creates or overwrites the caller's review for a tour. The
// caller must hold at least one review-eligible booking for the tour; the
// composite unique index keeps the row count at one per (user, tour) even
// under concurrent submissions, with overwrite as the conflict behavior.
func (s *ReviewService) UpsertReview(ctx context.Context, session model.Session, tourID int64, req model.SubmitReviewRequest) (*model.Review, error) {
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return nil, NewError(KindValidation,
			fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
	}

	eligible, err := s.hasEligibleBooking(ctx, session.UserID, tourID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, NewError(KindInvalidState, "booking is not eligible for review")
	}

	review, err := s.reviews.UpsertReview(ctx, model.UpsertReviewRequest{
		UserID:  session.UserID,
		TourID:  tourID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		s.logStoreError("upsert_review", tourID, err)
		return nil, Internal(err)
	}

	s.logger.Info("review upserted",
		zap.Int64("tour_id", tourID),
		zap.Int64("user_id", session.UserID),
		zap.Int("rating", req.Rating))
	s.notify(ctx, notifier.ScopeTours)

	return review, nil
}

// ListTourReviews returns all reviews for a tour.
func (s *ReviewService) ListTourReviews(ctx context.Context, tourID int64) ([]model.Review, error) {
	reviews, err := s.reviews.ListTourReviews(ctx, tourID)
	if err != nil {
		s.logStoreError("list_tour_reviews", tourID, err)
		return nil, Internal(err)
	}

	return reviews, nil
}

// hasEligibleBooking reports whether any of the user's bookings for the tour
// passes the eligibility predicate.
func (s *ReviewService) hasEligibleBooking(ctx context.Context, userID, tourID int64) (bool, error) {
	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, NewError(KindNotFound, "tour not found")
		}
		s.logStoreError("upsert_review", tourID, err)
		return false, Internal(err)
	}

	bookings, _, err := s.bookings.ListUserBookings(ctx, model.BookingFilter{
		UserID: userID,
		TourID: tourID,
		Status: model.BookingStatusConfirmed,
		Limit:  50,
	})
	if err != nil {
		s.logStoreError("upsert_review", tourID, err)
		return false, Internal(err)
	}

	now := s.now()
	for i := range bookings {
		payment, err := s.payments.GetPaymentByBookingID(ctx, bookings[i].ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			s.logStoreError("upsert_review", tourID, err)
			return false, Internal(err)
		}
		if IsEligibleForReview(&bookings[i], payment, tour, now) {
			return true, nil
		}
	}

	return false, nil
}

func (s *ReviewService) notify(ctx context.Context, scopes ...notifier.Scope) {
	notifyScopes(ctx, s.notifier, s.logger, scopes...)
}

func (s *ReviewService) logStoreError(action string, entityID int64, err error) {
	s.logger.Error("store operation failed",
		zap.String("action", action),
		zap.Int64("entity_id", entityID),
		zap.Time("at", time.Now()),
		zap.Error(err))
}
