package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/solokill756/tourbooking/model"
	"gorm.io/gorm"
)

type PostgresPaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// GetPaymentByBookingID retrieves the payment for a booking
func (r *PostgresPaymentRepository) GetPaymentByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}

	return &payment, nil
}

// CreatePayment inserts a pending payment record. A concurrent insert for the
// same booking loses to the unique index and comes back as ErrDuplicate.
func (r *PostgresPaymentRepository) CreatePayment(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	payment := &model.Payment{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    model.PaymentStatusPending,
	}

	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, translate(err)
	}

	return payment, nil
}

// CompletePayment marks a pending payment completed. The status guard in the
// WHERE clause keeps a completed payment from ever being rewritten.
func (r *PostgresPaymentRepository) CompletePayment(ctx context.Context, paymentID int64, transactionID string, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status <> ?", paymentID, model.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"status":         model.PaymentStatusCompleted,
			"transaction_id": transactionID,
			"paid_at":        paidAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete payment: %w", result.Error)
	}

	return nil
}
