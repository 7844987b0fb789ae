package service

import (
	"context"
	"sync"
	"time"

	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/notifier"
	"github.com/solokill756/tourbooking/repository"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository and notifier interfaces.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*model.Booking
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*model.Booking), nextID: 1}
}

func (r *fakeBookingRepo) add(b model.Booking) *model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.nextID
	}
	if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
	stored := b
	r.bookings[stored.ID] = &stored
	return &stored
}

func (r *fakeBookingRepo) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	return r.add(model.Booking{
		UserID:      req.UserID,
		TourID:      req.TourID,
		Status:      req.Status,
		NumGuests:   req.NumGuests,
		TotalPrice:  req.TotalPrice,
		BookingDate: req.BookingDate,
		CreatedAt:   time.Now(),
	}), nil
}

func (r *fakeBookingRepo) GetBookingByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetUserBooking(ctx context.Context, bookingID, userID int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListUserBookings(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Booking
	for _, b := range r.bookings {
		if b.UserID != filter.UserID {
			continue
		}
		if filter.TourID != 0 && b.TourID != filter.TourID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (r *fakeBookingRepo) TransitionStatus(ctx context.Context, bookingID int64, apply func(b *model.Booking) error) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	candidate := *b
	if err := apply(&candidate); err != nil {
		return nil, err
	}
	b.Status = candidate.Status
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) DeleteBooking(ctx context.Context, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bookingID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, bookingID)
	return nil
}

func (r *fakeBookingRepo) GetDB() *gorm.DB {
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*model.Payment // keyed by booking id
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*model.Payment), nextID: 1}
}

func (r *fakePaymentRepo) add(p model.Payment) *model.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	stored := p
	r.payments[stored.BookingID] = &stored
	return &stored
}

func (r *fakePaymentRepo) GetPaymentByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) CreatePayment(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	r.mu.Lock()
	if _, exists := r.payments[req.BookingID]; exists {
		r.mu.Unlock()
		return nil, repository.ErrDuplicate
	}
	r.mu.Unlock()
	return r.add(model.Payment{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    model.PaymentStatusPending,
		CreatedAt: time.Now(),
	}), nil
}

func (r *fakePaymentRepo) CompletePayment(ctx context.Context, paymentID int64, transactionID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == paymentID {
			if p.Status == model.PaymentStatusCompleted {
				return nil
			}
			p.Status = model.PaymentStatusCompleted
			p.TransactionID = &transactionID
			p.PaidAt = &paidAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

type reviewKey struct {
	userID int64
	tourID int64
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[reviewKey]*model.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[reviewKey]*model.Review), nextID: 1}
}

func (r *fakeReviewRepo) GetReview(ctx context.Context, userID, tourID int64) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewKey{userID, tourID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) UpsertReview(ctx context.Context, req model.UpsertReviewRequest) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reviewKey{req.UserID, req.TourID}
	if existing, ok := r.reviews[key]; ok {
		existing.Rating = req.Rating
		existing.Comment = req.Comment
		existing.UpdatedAt = time.Now()
		copied := *existing
		return &copied, nil
	}
	review := &model.Review{
		ID:        r.nextID,
		UserID:    req.UserID,
		TourID:    req.TourID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.reviews[key] = review
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) ListTourReviews(ctx context.Context, tourID int64) ([]model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Review
	for _, review := range r.reviews {
		if review.TourID == tourID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reviews)
}

type fakeTourRepo struct {
	mu    sync.Mutex
	tours map[int64]*model.Tour
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: make(map[int64]*model.Tour)}
}

func (r *fakeTourRepo) add(t model.Tour) *model.Tour {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := t
	r.tours[stored.ID] = &stored
	return &stored
}

func (r *fakeTourRepo) GetTourByID(ctx context.Context, tourID int64) (*model.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[tourID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTourRepo) ListTours(ctx context.Context) ([]model.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Tour
	for _, t := range r.tours {
		out = append(out, *t)
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	scopes []notifier.Scope
	err    error
}

func (n *fakeNotifier) Notify(ctx context.Context, scope notifier.Scope) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scopes = append(n.scopes, scope)
	return n.err
}

func (n *fakeNotifier) Close() error {
	return nil
}

func (n *fakeNotifier) notified(scope notifier.Scope) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.scopes {
		if s == scope {
			return true
		}
	}
	return false
}
