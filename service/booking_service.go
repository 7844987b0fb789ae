package service

import (
	"context"
	"errors"
	"time"

	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/notifier"
	"github.com/solokill756/tourbooking/repository"
	"go.uber.org/zap"
)

// BookingService owns the booking lifecycle: creation and the
// pending/confirmed/cancelled status machine, plus the ownership rules
// guarding every transition.
//
// Ownership policy: a caller touching a booking they do not own gets
// "booking not found", never "unauthorized". The same answer for missing and
// foreign bookings means ids cannot be probed.
type BookingService struct {
	bookings repository.BookingRepository
	tours    repository.TourRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewBookingService(bookings repository.BookingRepository, tours repository.TourRepository, n notifier.Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		tours:    tours,
		notifier: n,
		logger:   logger,
	}
}

// Create books a tour for the caller. The booking starts out pending and is
// priced from the tour at booking time.
func (s *BookingService) Create(ctx context.Context, session model.Session, req model.SubmitBookingRequest) (*model.Booking, error) {
	tour, err := s.tours.GetTourByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "tour not found")
		}
		s.logStoreError("create_booking", req.TourID, err)
		return nil, Internal(err)
	}

	if req.NumGuests > tour.MaxGuests {
		return nil, NewError(KindValidation, "number of guests exceeds tour capacity")
	}

	bookingDate := time.Now()
	if req.BookingDate != "" {
		bookingDate, err = time.Parse("2006-01-02", req.BookingDate)
		if err != nil {
			return nil, NewError(KindValidation, "booking date must be in YYYY-MM-DD format")
		}
	}

	booking, err := s.bookings.CreateBooking(ctx, model.CreateBookingRequest{
		UserID:      session.UserID,
		TourID:      req.TourID,
		Status:      model.BookingStatusPending,
		NumGuests:   req.NumGuests,
		TotalPrice:  tour.Price * float64(req.NumGuests),
		BookingDate: bookingDate,
	})
	if err != nil {
		s.logStoreError("create_booking", req.TourID, err)
		return nil, Internal(err)
	}

	s.notify(ctx, notifier.ScopeBookings)

	return booking, nil
}

// Get returns a single booking. Admins may read any booking; everyone else
// only their own.
func (s *BookingService) Get(ctx context.Context, bookingID int64, session model.Session) (*model.Booking, error) {
	var booking *model.Booking
	var err error

	if session.IsAdmin() {
		booking, err = s.bookings.GetBookingByID(ctx, bookingID)
	} else {
		booking, err = s.bookings.GetUserBooking(ctx, bookingID, session.UserID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("get_booking", bookingID, err)
		return nil, Internal(err)
	}

	return booking, nil
}

// ListUserBookings returns the caller's bookings, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, session model.Session) ([]model.Booking, int, error) {
	bookings, total, err := s.bookings.ListUserBookings(ctx, model.BookingFilter{
		UserID: session.UserID,
		Limit:  50,
	})
	if err != nil {
		s.logStoreError("list_bookings", session.UserID, err)
		return nil, 0, Internal(err)
	}

	return bookings, total, nil
}

// Cancel moves a pending or confirmed booking to cancelled. The read, the
// legality check and the write run in one transaction under a row lock, so a
// concurrent cancel or admin override cannot interleave.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, session model.Session) (*model.Booking, error) {
	booking, err := s.bookings.TransitionStatus(ctx, bookingID, func(b *model.Booking) error {
		if !session.IsAdmin() && b.UserID != session.UserID {
			return NewError(KindNotFound, "booking not found")
		}
		if b.Status == model.BookingStatusCancelled {
			return NewError(KindInvalidState, "booking is already cancelled")
		}
		b.Status = model.BookingStatusCancelled
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("cancel_booking", bookingID, err)
		return nil, Internal(err)
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", session.UserID))
	s.notify(ctx, notifier.ScopeBookings, notifier.ScopeTours)

	return booking, nil
}

// UpdateStatus lets an admin set any status directly, bypassing the
// cancel-only restriction. The caller must already have passed the admin
// middleware; the check here is the last line of defense.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, session model.Session, newStatus model.BookingStatus) (*model.Booking, error) {
	if !session.IsAdmin() {
		return nil, NewError(KindUnauthorized, "admin role required")
	}
	if !newStatus.Valid() {
		return nil, NewError(KindValidation, "invalid booking status")
	}

	booking, err := s.bookings.TransitionStatus(ctx, bookingID, func(b *model.Booking) error {
		b.Status = newStatus
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("update_booking_status", bookingID, err)
		return nil, Internal(err)
	}

	s.logger.Info("booking status overridden",
		zap.Int64("booking_id", bookingID),
		zap.String("status", string(newStatus)),
		zap.Int64("admin_id", session.UserID))
	s.notify(ctx, notifier.ScopeBookings, notifier.ScopeTours)

	return booking, nil
}

// Delete removes the booking row entirely. Owner or admin only.
func (s *BookingService) Delete(ctx context.Context, bookingID int64, session model.Session) error {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("delete_booking", bookingID, err)
		return Internal(err)
	}

	if !session.IsAdmin() && booking.UserID != session.UserID {
		return NewError(KindNotFound, "booking not found")
	}

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("delete_booking", bookingID, err)
		return Internal(err)
	}

	s.logger.Info("booking deleted",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", session.UserID))
	s.notify(ctx, notifier.ScopeBookings, notifier.ScopeTours)

	return nil
}

func (s *BookingService) notify(ctx context.Context, scopes ...notifier.Scope) {
	notifyScopes(ctx, s.notifier, s.logger, scopes...)
}

func (s *BookingService) logStoreError(action string, entityID int64, err error) {
	s.logger.Error("store operation failed",
		zap.String("action", action),
		zap.Int64("entity_id", entityID),
		zap.Time("at", time.Now()),
		zap.Error(err))
}
