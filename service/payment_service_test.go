package service

import (
	"context"
	"strings"
	"testing"

	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/notifier"
	"github.com/solokill756/tourbooking/repository"
	"go.uber.org/zap"
)

func newPaymentFixture() (*PaymentService, *fakeBookingRepo, *fakePaymentRepo, *fakeNotifier) {
	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	n := &fakeNotifier{}
	svc := NewPaymentService(payments, bookings, n, zap.NewNop())
	return svc, bookings, payments, n
}

func cardRequest() model.SubmitPaymentRequest {
	return model.SubmitPaymentRequest{
		Method: string(model.PaymentMethodCard),
		CardData: &model.CardData{
			CardNumber: "4111111111111111",
			HolderName: "Jane Doe",
			Expiry:     "12/27",
			CVV:        "123",
		},
	}
}

func TestSubmitPayment_Succeeds(t *testing.T) {
	svc, bookings, payments, n := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))
	session := model.Session{UserID: 10, Role: model.RoleUser}

	payment, err := svc.SubmitPayment(context.Background(), session, 42, cardRequest())
	if err != nil {
		t.Fatalf("expected payment to succeed, got: %v", err)
	}
	if payment.Status != model.PaymentStatusCompleted {
		t.Errorf("expected completed status, got: %s", payment.Status)
	}
	if payment.TransactionID == nil || *payment.TransactionID == "" {
		t.Error("expected a transaction id to be assigned")
	}
	if payment.PaidAt == nil {
		t.Error("expected paid_at to be set")
	}
	if payment.Amount != 200 {
		t.Errorf("payment amount should match booking total, got: %v", payment.Amount)
	}
	if payments.count() != 1 {
		t.Errorf("expected exactly one payment row, got: %d", payments.count())
	}
	if !n.notified(notifier.ScopeBookings) {
		t.Error("expected bookings cache invalidation to be dispatched")
	}

	// Subsequent read sees the completed payment.
	stored, err := svc.GetPaymentByBooking(context.Background(), 42, session)
	if err != nil {
		t.Fatalf("expected payment read to succeed, got: %v", err)
	}
	if stored.Status != model.PaymentStatusCompleted {
		t.Errorf("expected completed status on read, got: %s", stored.Status)
	}
}

func TestSubmitPayment_SecondAttemptRejected(t *testing.T) {
	svc, bookings, payments, _ := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))
	session := model.Session{UserID: 10, Role: model.RoleUser}

	if _, err := svc.SubmitPayment(context.Background(), session, 42, cardRequest()); err != nil {
		t.Fatalf("first payment should succeed, got: %v", err)
	}

	_, err := svc.SubmitPayment(context.Background(), session, 42, cardRequest())
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state on second attempt, got: %v", err)
	}
	if MessageOf(err) != "payment already completed" {
		t.Errorf("unexpected message: %q", MessageOf(err))
	}
	if payments.count() != 1 {
		t.Errorf("second attempt must not create a second row, got: %d", payments.count())
	}
}

func TestSubmitPayment_BookingNotConfirmed(t *testing.T) {
	svc, bookings, payments, _ := newPaymentFixture()
	session := model.Session{UserID: 10, Role: model.RoleUser}

	for id, status := range map[int64]model.BookingStatus{
		1: model.BookingStatusPending,
		2: model.BookingStatusCancelled,
	} {
		b := confirmedBooking(id, 10, 7)
		b.Status = status
		bookings.add(b)

		_, err := svc.SubmitPayment(context.Background(), session, id, cardRequest())
		if KindOf(err) != KindInvalidState {
			t.Fatalf("status %s: expected invalid state, got: %v", status, err)
		}
		if MessageOf(err) != "booking is not confirmed" {
			t.Errorf("status %s: unexpected message: %q", status, MessageOf(err))
		}
	}

	if payments.count() != 0 {
		t.Errorf("no payment rows should exist, got: %d", payments.count())
	}
}

func TestSubmitPayment_ForeignBookingLooksMissing(t *testing.T) {
	svc, bookings, payments, _ := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))

	_, err := svc.SubmitPayment(context.Background(), model.Session{UserID: 99, Role: model.RoleUser}, 42, cardRequest())
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for foreign booking, got: %v", err)
	}
	if payments.count() != 0 {
		t.Errorf("foreign attempt must not create a payment, got: %d", payments.count())
	}
}

func TestSubmitPayment_UnsupportedMethod(t *testing.T) {
	svc, bookings, _, _ := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))

	_, err := svc.SubmitPayment(context.Background(), model.Session{UserID: 10, Role: model.RoleUser}, 42, model.SubmitPaymentRequest{Method: "cash"})
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

// racingPaymentRepo simulates losing the unique-constraint race: the first
// existence check misses, the insert hits the constraint, and the reload sees
// the winner's completed row.
type racingPaymentRepo struct {
	*fakePaymentRepo
	reads int
}

func (r *racingPaymentRepo) GetPaymentByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error) {
	r.reads++
	if r.reads == 1 {
		return nil, repository.ErrNotFound
	}
	return r.fakePaymentRepo.GetPaymentByBookingID(ctx, bookingID)
}

func (r *racingPaymentRepo) CreatePayment(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	return nil, repository.ErrDuplicate
}

func TestSubmitPayment_LostCreateRaceWithCompletedWinner(t *testing.T) {
	bookings := newFakeBookingRepo()
	bookings.add(confirmedBooking(42, 10, 7))

	payments := &racingPaymentRepo{fakePaymentRepo: newFakePaymentRepo()}
	txn := "existing-txn"
	payments.fakePaymentRepo.add(model.Payment{
		ID:            1,
		BookingID:     42,
		Amount:        200,
		Method:        model.PaymentMethodCard,
		Status:        model.PaymentStatusCompleted,
		TransactionID: &txn,
	})

	svc := NewPaymentService(payments, bookings, &fakeNotifier{}, zap.NewNop())

	_, err := svc.SubmitPayment(context.Background(), model.Session{UserID: 10, Role: model.RoleUser}, 42, cardRequest())
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected already-completed after lost race, got: %v", err)
	}
	if MessageOf(err) != "payment already completed" {
		t.Errorf("unexpected message: %q", MessageOf(err))
	}
	if payments.fakePaymentRepo.count() != 1 {
		t.Errorf("expected a single payment row after the race, got: %d", payments.fakePaymentRepo.count())
	}
}

func TestTransactionIDTiedToBooking(t *testing.T) {
	first := newTransactionID(42)
	second := newTransactionID(42)

	if first == second {
		t.Error("transaction ids must be unique per attempt")
	}
	if !strings.HasSuffix(first, "-42") {
		t.Errorf("transaction id should carry the booking id suffix, got: %s", first)
	}
}

func TestGetPaymentByBooking_NoPayment(t *testing.T) {
	svc, bookings, _, _ := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))

	_, err := svc.GetPaymentByBooking(context.Background(), 42, model.Session{UserID: 10, Role: model.RoleUser})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestGetPaymentByBooking_AdminReadsAny(t *testing.T) {
	svc, bookings, _, _ := newPaymentFixture()
	bookings.add(confirmedBooking(42, 10, 7))
	session := model.Session{UserID: 10, Role: model.RoleUser}

	if _, err := svc.SubmitPayment(context.Background(), session, 42, cardRequest()); err != nil {
		t.Fatalf("payment should succeed, got: %v", err)
	}

	payment, err := svc.GetPaymentByBooking(context.Background(), 42, model.Session{UserID: 2, Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("admin should read any payment, got: %v", err)
	}
	if payment.BookingID != 42 {
		t.Errorf("unexpected booking id: %d", payment.BookingID)
	}
}
