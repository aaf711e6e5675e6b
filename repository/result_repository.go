package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// ResultRepository reads finalized ranking snapshots
type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// ListByEvent returns the finalized results for an event in rank order
func (r *ResultRepository) ListByEvent(eventID uint) ([]models.FinalizedResult, error) {
	var results []models.FinalizedResult
	err := r.DB.Where("event_id = ?", eventID).
		Preload("Band").
		Order("rank ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results for event %d: %w", eventID, err)
	}
	return results, nil
}
