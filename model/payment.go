package model

import (
	"time"
)

// PaymentStatus is the closed set of payment states. A payment never leaves
// completed once it reaches it.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethod is the closed set of accepted settlement methods.
type PaymentMethod string

const (
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodInternetBanking PaymentMethod = "internet_banking"
)

// Valid reports whether the method is one of the known values.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodInternetBanking
}

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Payment represents the database model for payments. The unique index on
// BookingID is what actually enforces at most one payment per booking; the
// application-level existence check is only a fast path.
type Payment struct {
	ID            int64         `gorm:"primaryKey;autoIncrement"`
	BookingID     int64         `gorm:"not null;uniqueIndex"`
	Amount        float64       `gorm:"type:decimal(10,2);not null"`
	Method        PaymentMethod `gorm:"type:varchar(30);not null"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	TransactionID *string       `gorm:"type:varchar(100)"`
	PaidAt        *time.Time
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time
}

// TableName sets the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// CreatePaymentRequest represents the data needed to create a payment
type CreatePaymentRequest struct {
	BookingID int64
	Amount    float64
	Method    PaymentMethod
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// SubmitPaymentRequest represents the API request to pay for a booking.
// Card data is forwarded opaquely; it is never written to storage.
type SubmitPaymentRequest struct {
	Method   string    `json:"method" binding:"required"`
	CardData *CardData `json:"card_data,omitempty"`
}

// CardData represents card details for method=card. Accepted but not
// validated here; a real gateway integration would consume it.
type CardData struct {
	CardNumber string `json:"card_number"`
	HolderName string `json:"holder_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	PaymentID     int64      `json:"payment_id"`
	BookingID     int64      `json:"booking_id"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

// ToPaymentResponse converts a Payment entity to an API response
func (p *Payment) ToPaymentResponse() PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
	}
}
