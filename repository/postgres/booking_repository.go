package postgres

import (
	"context"
	"fmt"

	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// CreateBooking creates a new booking record
func (r *PostgresBookingRepository) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	booking := &model.Booking{
		UserID:      req.UserID,
		TourID:      req.TourID,
		Status:      req.Status,
		NumGuests:   req.NumGuests,
		TotalPrice:  req.TotalPrice,
		BookingDate: req.BookingDate,
	}

	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", translate(err))
	}

	return booking, nil
}

// GetBookingByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetBookingByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).Where("id = ?", bookingID).First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}

	return &booking, nil
}

// GetUserBooking retrieves a booking scoped to its owner. A booking that
// exists but belongs to someone else is indistinguishable from a missing one.
func (r *PostgresBookingRepository) GetUserBooking(ctx context.Context, bookingID, userID int64) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}

	return &booking, nil
}

// ListUserBookings retrieves bookings for a specific user with filtering
func (r *PostgresBookingRepository) ListUserBookings(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error) {
	var bookings []model.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Booking{}).Where("user_id = ?", filter.UserID)

	if filter.TourID != 0 {
		query = query.Where("tour_id = ?", filter.TourID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, int(total), nil
}

// TransitionStatus applies a status transition under SELECT ... FOR UPDATE so
// concurrent cancel/admin-override calls on the same booking serialize instead
// of losing updates.
func (r *PostgresBookingRepository) TransitionStatus(ctx context.Context, bookingID int64, apply func(b *model.Booking) error) (*model.Booking, error) {
	var booking model.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			First(&booking).Error; err != nil {
			return translate(err)
		}

		if err := apply(&booking); err != nil {
			return err
		}

		return tx.Model(&model.Booking{}).
			Where("id = ?", bookingID).
			Update("status", booking.Status).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// DeleteBooking removes the booking row entirely
func (r *PostgresBookingRepository) DeleteBooking(ctx context.Context, bookingID int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", bookingID).Delete(&model.Booking{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetDB returns the database instance for health checks
func (r *PostgresBookingRepository) GetDB() *gorm.DB {
	return r.db
}
