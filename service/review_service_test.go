package service

import (
	"context"
	"testing"
	"time"

	"github.com/solokill756/tourbooking/model"
	"go.uber.org/zap"
)

type reviewFixture struct {
	svc      *ReviewService
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	reviews  *fakeReviewRepo
	tours    *fakeTourRepo
	notifier *fakeNotifier
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		bookings: newFakeBookingRepo(),
		payments: newFakePaymentRepo(),
		reviews:  newFakeReviewRepo(),
		tours:    newFakeTourRepo(),
		notifier: &fakeNotifier{},
	}
	f.svc = NewReviewService(f.reviews, f.bookings, f.payments, f.tours, f.notifier, zap.NewNop())
	return f
}

// seedEligible sets up user 1 with a confirmed, paid booking for tour 7 whose
// trip completed a month ago.
func (f *reviewFixture) seedEligible() {
	start := time.Now().AddDate(0, -1, 0)
	f.tours.add(model.Tour{
		ID:           7,
		Name:         "Ha Long Bay cruise",
		Location:     "Ha Long",
		Price:        120,
		MaxGuests:    10,
		StartDate:    &start,
		DurationDays: intPtr(3),
	})
	f.bookings.add(model.Booking{
		ID:          1,
		UserID:      1,
		TourID:      7,
		Status:      model.BookingStatusConfirmed,
		NumGuests:   2,
		TotalPrice:  240,
		BookingDate: start.AddDate(0, 0, -7),
	})
	f.payments.add(model.Payment{
		ID:        1,
		BookingID: 1,
		Amount:    240,
		Method:    model.PaymentMethodCard,
		Status:    model.PaymentStatusCompleted,
	})
}

func strPtr(s string) *string { return &s }

func TestUpsertReview_SecondSubmissionOverwrites(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()
	session := model.Session{UserID: 1, Role: model.RoleUser}

	first, err := f.svc.UpsertReview(context.Background(), session, 7, model.SubmitReviewRequest{Rating: 4, Comment: strPtr("ok")})
	if err != nil {
		t.Fatalf("first upsert should succeed, got: %v", err)
	}

	second, err := f.svc.UpsertReview(context.Background(), session, 7, model.SubmitReviewRequest{Rating: 2, Comment: strPtr("meh")})
	if err != nil {
		t.Fatalf("second upsert should succeed, got: %v", err)
	}

	if f.reviews.count() != 1 {
		t.Fatalf("expected exactly one review row, got: %d", f.reviews.count())
	}
	if second.Rating != 2 {
		t.Errorf("expected overwritten rating 2, got: %d", second.Rating)
	}
	if second.Comment == nil || *second.Comment != "meh" {
		t.Errorf("expected overwritten comment, got: %v", second.Comment)
	}
	if first.ID != second.ID {
		t.Errorf("overwrite must keep the same row, got ids %d and %d", first.ID, second.ID)
	}
}

func TestUpsertReview_RatingBounds(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()
	session := model.Session{UserID: 1, Role: model.RoleUser}

	for _, rating := range []int{0, -1, 6} {
		_, err := f.svc.UpsertReview(context.Background(), session, 7, model.SubmitReviewRequest{Rating: rating})
		if KindOf(err) != KindValidation {
			t.Errorf("rating %d: expected validation error, got: %v", rating, err)
		}
	}

	if f.reviews.count() != 0 {
		t.Errorf("invalid ratings must not reach storage, got %d rows", f.reviews.count())
	}
}

func TestUpsertReview_NoEligibleBooking(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()

	// User 2 never booked tour 7.
	_, err := f.svc.UpsertReview(context.Background(), model.Session{UserID: 2, Role: model.RoleUser}, 7, model.SubmitReviewRequest{Rating: 4})
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state, got: %v", err)
	}
	if MessageOf(err) != "booking is not eligible for review" {
		t.Errorf("unexpected message: %q", MessageOf(err))
	}
}

func TestUpsertReview_UnpaidBookingIneligible(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()

	// Strip the payment: confirmed and completed trip, but never settled.
	delete(f.payments.payments, 1)

	_, err := f.svc.UpsertReview(context.Background(), model.Session{UserID: 1, Role: model.RoleUser}, 7, model.SubmitReviewRequest{Rating: 4})
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state for unpaid booking, got: %v", err)
	}
}

func TestUpsertReview_UnknownTour(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.UpsertReview(context.Background(), model.Session{UserID: 1, Role: model.RoleUser}, 404, model.SubmitReviewRequest{Rating: 4})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestGetEligibleBooking_ReturnsSnapshotAndExistingReview(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()
	session := model.Session{UserID: 1, Role: model.RoleUser}

	if _, err := f.svc.UpsertReview(context.Background(), session, 7, model.SubmitReviewRequest{Rating: 5, Comment: strPtr("great")}); err != nil {
		t.Fatalf("seeding review failed: %v", err)
	}

	info, err := f.svc.GetEligibleBooking(context.Background(), 1, session)
	if err != nil {
		t.Fatalf("expected eligible booking, got: %v", err)
	}
	if info.Booking.BookingID != 1 {
		t.Errorf("unexpected booking id: %d", info.Booking.BookingID)
	}
	if info.Tour.TourID != 7 || info.Tour.Name != "Ha Long Bay cruise" {
		t.Errorf("expected tour snapshot, got: %+v", info.Tour)
	}
	if info.ExistingReview == nil || info.ExistingReview.Rating != 5 {
		t.Errorf("expected existing review in payload, got: %+v", info.ExistingReview)
	}
}

func TestGetEligibleBooking_TripNotCompleted(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()

	// Freeze time to before the trip completion.
	f.svc.now = func() time.Time { return time.Now().AddDate(0, -2, 0) }

	_, err := f.svc.GetEligibleBooking(context.Background(), 1, model.Session{UserID: 1, Role: model.RoleUser})
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state, got: %v", err)
	}
	if MessageOf(err) != "booking is not eligible for review" {
		t.Errorf("the reason must not leak, got: %q", MessageOf(err))
	}
}

func TestGetEligibleBooking_ForeignBookingLooksMissing(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()

	_, err := f.svc.GetEligibleBooking(context.Background(), 1, model.Session{UserID: 2, Role: model.RoleUser})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for foreign booking, got: %v", err)
	}
}

func TestListTourReviews(t *testing.T) {
	f := newReviewFixture()
	f.seedEligible()
	session := model.Session{UserID: 1, Role: model.RoleUser}

	if _, err := f.svc.UpsertReview(context.Background(), session, 7, model.SubmitReviewRequest{Rating: 4}); err != nil {
		t.Fatalf("seeding review failed: %v", err)
	}

	reviews, err := f.svc.ListTourReviews(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected list to succeed, got: %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("expected one review, got: %d", len(reviews))
	}
}
