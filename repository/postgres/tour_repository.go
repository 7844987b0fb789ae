package postgres

import (
	"context"
	"fmt"

	"github.com/solokill756/tourbooking/model"
	"gorm.io/gorm"
)

type PostgresTourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *PostgresTourRepository {
	return &PostgresTourRepository{db: db}
}

// GetTourByID retrieves a tour by its ID
func (r *PostgresTourRepository) GetTourByID(ctx context.Context, tourID int64) (*model.Tour, error) {
	var tour model.Tour
	err := r.db.WithContext(ctx).Where("id = ?", tourID).First(&tour).Error
	if err != nil {
		return nil, translate(err)
	}

	return &tour, nil
}

// ListTours retrieves the tour catalog
func (r *PostgresTourRepository) ListTours(ctx context.Context) ([]model.Tour, error) {
	var tours []model.Tour
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tours).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	return tours, nil
}
