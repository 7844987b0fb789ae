package service

import (
	"time"

	"github.com/solokill756/tourbooking/model"
)

// CompletionDate computes when a trip ends: the tour's start date when it has
// one, otherwise the booking date, plus the tour duration clamped to at least
// one day.
func CompletionDate(startDate *time.Time, bookingDate time.Time, durationDays *int) time.Time {
	base := bookingDate
	if startDate != nil {
		base = *startDate
	}

	days := 0
	if durationDays != nil {
		days = *durationDays
	}
	if days < 1 {
		days = 1
	}

	return base.AddDate(0, 0, days)
}

// IsEligibleForReview reports whether a booking may be reviewed: the trip has
// completed, the booking is confirmed and the payment settled. payment may be
// nil when none exists yet.
func IsEligibleForReview(booking *model.Booking, payment *model.Payment, tour *model.Tour, now time.Time) bool {
	if booking.Status != model.BookingStatusConfirmed {
		return false
	}
	if payment == nil || payment.Status != model.PaymentStatusCompleted {
		return false
	}

	completion := CompletionDate(tour.StartDate, booking.BookingDate, tour.DurationDays)
	return !now.Before(completion)
}
