package model

import (
	"time"
)

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Booking represents the database model for bookings
type Booking struct {
	ID          int64         `gorm:"primaryKey;autoIncrement"`
	UserID      int64         `gorm:"not null;index"`
	TourID      int64         `gorm:"not null;index"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	NumGuests   int           `gorm:"not null"`
	TotalPrice  float64       `gorm:"type:decimal(10,2);not null"`
	BookingDate time.Time     `gorm:"not null"`
	CreatedAt   time.Time     `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time
}

// TableName sets the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// CreateBookingRequest represents the data needed to create a booking
type CreateBookingRequest struct {
	UserID      int64
	TourID      int64
	Status      BookingStatus
	NumGuests   int
	TotalPrice  float64
	BookingDate time.Time
}

// BookingFilter represents filtering options for booking queries
type BookingFilter struct {
	UserID int64
	TourID int64
	Status BookingStatus
	Limit  int
	Offset int
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// SubmitBookingRequest represents the API request to create a booking
type SubmitBookingRequest struct {
	TourID      int64  `json:"tour_id" binding:"required"`
	NumGuests   int    `json:"num_guests" binding:"required,gt=0"`
	BookingDate string `json:"booking_date"`
}

// UpdateBookingStatusAPIRequest represents the admin status override request
type UpdateBookingStatusAPIRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	BookingID   int64     `json:"booking_id"`
	TourID      int64     `json:"tour_id"`
	Status      string    `json:"status"`
	NumGuests   int       `json:"num_guests"`
	TotalPrice  float64   `json:"total_price"`
	BookingDate time.Time `json:"booking_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBookingsResponse represents the list of user bookings
type UserBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

// ToBookingResponse converts a Booking entity to an API response
func (b *Booking) ToBookingResponse() BookingResponse {
	return BookingResponse{
		BookingID:   b.ID,
		TourID:      b.TourID,
		Status:      string(b.Status),
		NumGuests:   b.NumGuests,
		TotalPrice:  b.TotalPrice,
		BookingDate: b.BookingDate,
		CreatedAt:   b.CreatedAt,
	}
}
