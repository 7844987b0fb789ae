package repository

import (
	"context"
	"errors"
	"time"

	"github.com/solokill756/tourbooking/model"
	"gorm.io/gorm"
)

// Sentinel errors returned by all implementations. Services translate these
// into their own error kinds; handlers never see them directly.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("record already exists")
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	GetBookingByID(ctx context.Context, bookingID int64) (*model.Booking, error)

	// GetUserBooking resolves a booking through the owner's own rows, so a
	// caller can never probe ids belonging to other users.
	GetUserBooking(ctx context.Context, bookingID, userID int64) (*model.Booking, error)

	ListUserBookings(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error)

	// TransitionStatus loads the booking under a row lock, applies the
	// caller's transition rules, and persists the new status in the same
	// transaction. apply may mutate the booking's Status; any error it
	// returns aborts the transaction and is passed through unchanged.
	TransitionStatus(ctx context.Context, bookingID int64, apply func(b *model.Booking) error) (*model.Booking, error)

	DeleteBooking(ctx context.Context, bookingID int64) error

	// Health check
	GetDB() *gorm.DB
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	GetPaymentByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error)

	// CreatePayment inserts a pending payment. The unique constraint on
	// booking_id makes a concurrent duplicate surface as ErrDuplicate.
	CreatePayment(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error)

	// CompletePayment marks the payment completed with its transaction id
	// and settlement time. Completed payments are never updated again.
	CompletePayment(ctx context.Context, paymentID int64, transactionID string, paidAt time.Time) error
}

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	GetReview(ctx context.Context, userID, tourID int64) (*model.Review, error)

	// UpsertReview creates or replaces the single review row per
	// (user, tour) via an ON CONFLICT DO UPDATE write.
	UpsertReview(ctx context.Context, req model.UpsertReviewRequest) (*model.Review, error)

	ListTourReviews(ctx context.Context, tourID int64) ([]model.Review, error)
}

// TourRepository defines the interface for tour catalog reads
type TourRepository interface {
	GetTourByID(ctx context.Context, tourID int64) (*model.Tour, error)
	ListTours(ctx context.Context) ([]model.Tour, error)
}
