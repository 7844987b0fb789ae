package model

import (
	"time"

	"github.com/lib/pq"
)

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Tour represents the database model for tours
type Tour struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Location     string         `gorm:"type:varchar(255);not null"`
	Description  string         `gorm:"type:text"`
	Price        float64        `gorm:"type:decimal(10,2);not null"`
	DurationDays *int           `gorm:""`
	StartDate    *time.Time     `gorm:""`
	MaxGuests    int            `gorm:"not null;default:10"`
	Highlights   pq.StringArray `gorm:"type:text[]"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time
}

// TableName sets the table name for GORM
func (Tour) TableName() string {
	return "tours"
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// TourResponse represents a tour in API responses
type TourResponse struct {
	TourID       int64      `json:"tour_id"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	Description  string     `json:"description,omitempty"`
	Price        float64    `json:"price"`
	DurationDays *int       `json:"duration_days,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	MaxGuests    int        `json:"max_guests"`
	Highlights   []string   `json:"highlights,omitempty"`
}

// TourListResponse represents the tour catalog listing
type TourListResponse struct {
	Tours []TourResponse `json:"tours"`
	Total int            `json:"total"`
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

// ToTourResponse converts a Tour entity to an API response
func (t *Tour) ToTourResponse() TourResponse {
	return TourResponse{
		TourID:       t.ID,
		Name:         t.Name,
		Location:     t.Location,
		Description:  t.Description,
		Price:        t.Price,
		DurationDays: t.DurationDays,
		StartDate:    t.StartDate,
		MaxGuests:    t.MaxGuests,
		Highlights:   t.Highlights,
	}
}
