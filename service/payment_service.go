package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/notifier"
	"github.com/solokill756/tourbooking/repository"
	"go.uber.org/zap"
)

// PaymentService owns payment records and their status machine. A booking has
// at most one payment, enforced by the unique index on booking_id; once a
// payment reaches completed it never changes again.
//
// There is no real gateway behind SubmitPayment: once the preconditions pass,
// completion always succeeds. When a gateway is integrated, the failed status
// and a retry policy need to be designed around it.
type PaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewPaymentService(payments repository.PaymentRepository, bookings repository.BookingRepository, n notifier.Notifier, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		notifier: n,
		logger:   logger,
	}
}

// GetPaymentByBooking returns the payment for a booking the caller may see.
func (s *PaymentService) GetPaymentByBooking(ctx context.Context, bookingID int64, session model.Session) (*model.Payment, error) {
	if _, err := s.resolveBooking(ctx, bookingID, session); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetPaymentByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "payment not found")
		}
		s.logStoreError("get_payment", bookingID, err)
		return nil, Internal(err)
	}

	return payment, nil
}

// SubmitPayment settles a confirmed booking. Card data, when present, is
// treated as an opaque payload for a future gateway and is never stored.
//
// The booking is always resolved through the caller's own rows, so paying for
// someone else's booking is indistinguishable from paying for a missing one.
func (s *PaymentService) SubmitPayment(ctx context.Context, session model.Session, bookingID int64, req model.SubmitPaymentRequest) (*model.Payment, error) {
	method := model.PaymentMethod(req.Method)
	if !method.Valid() {
		return nil, NewError(KindValidation, "unsupported payment method")
	}

	booking, err := s.bookings.GetUserBooking(ctx, bookingID, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(KindNotFound, "booking not found")
		}
		s.logStoreError("submit_payment", bookingID, err)
		return nil, Internal(err)
	}

	if booking.Status != model.BookingStatusConfirmed {
		return nil, NewError(KindInvalidState, "booking is not confirmed")
	}

	payment, err := s.payments.GetPaymentByBookingID(ctx, bookingID)
	switch {
	case err == nil:
		if payment.Status == model.PaymentStatusCompleted {
			return nil, NewError(KindInvalidState, "payment already completed")
		}
	case errors.Is(err, repository.ErrNotFound):
		payment, err = s.payments.CreatePayment(ctx, model.CreatePaymentRequest{
			BookingID: bookingID,
			Amount:    booking.TotalPrice,
			Method:    method,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race against a concurrent submission for the same
			// booking. The unique index guarantees a single row; reload it
			// and treat a completed one as already paid.
			payment, err = s.payments.GetPaymentByBookingID(ctx, bookingID)
			if err == nil && payment.Status == model.PaymentStatusCompleted {
				return nil, NewError(KindInvalidState, "payment already completed")
			}
		}
		if err != nil {
			s.logStoreError("submit_payment", bookingID, err)
			return nil, Internal(err)
		}
	default:
		s.logStoreError("submit_payment", bookingID, err)
		return nil, Internal(err)
	}

	transactionID := newTransactionID(bookingID)
	paidAt := time.Now()

	if err := s.payments.CompletePayment(ctx, payment.ID, transactionID, paidAt); err != nil {
		s.logStoreError("submit_payment", bookingID, err)
		return nil, Internal(err)
	}

	payment.Status = model.PaymentStatusCompleted
	payment.TransactionID = &transactionID
	payment.PaidAt = &paidAt

	s.logger.Info("payment completed",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("booking_id", bookingID),
		zap.String("transaction_id", transactionID))
	s.notify(ctx, notifier.ScopeBookings)

	return payment, nil
}

// resolveBooking loads a booking for read access under the ownership policy:
// admins see any booking, everyone else only their own, and a foreign booking
// answers exactly like a missing one.
func (s *PaymentService) resolveBooking(ctx context.Context, bookingID int64, session model.Session) (*model.Booking, error) {
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
		s.logStoreError("get_payment", bookingID, err)
		return nil, Internal(err)
	}

	return booking, nil
}

// newTransactionID builds a per-attempt transaction identifier. The random
// UUID keeps concurrent attempts for different bookings from colliding; the
// booking id suffix ties the identifier back to its booking in gateway logs.
func newTransactionID(bookingID int64) string {
	return fmt.Sprintf("%s-%d", uuid.New().String(), bookingID)
}

func (s *PaymentService) notify(ctx context.Context, scopes ...notifier.Scope) {
	notifyScopes(ctx, s.notifier, s.logger, scopes...)
}

func (s *PaymentService) logStoreError(action string, entityID int64, err error) {
	s.logger.Error("store operation failed",
		zap.String("action", action),
		zap.Int64("entity_id", entityID),
		zap.Time("at", time.Now()),
		zap.Error(err))
}
