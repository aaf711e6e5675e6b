package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/photoslug"
)

// BandRepository handles database operations for Band entities
type BandRepository struct {
	DB *gorm.DB
}

// NewBandRepository creates a new instance of BandRepository
func NewBandRepository(db *gorm.DB) *BandRepository {
	return &BandRepository{DB: db}
}

// Create creates a new band record in the database
func (r *BandRepository) Create(band *models.Band) error {
	now := time.Now().Unix()
	if band.CreatedAt == 0 {
		band.CreatedAt = now
	}
	if band.UpdatedAt == 0 {
		band.UpdatedAt = now
	}
	if band.Slug == "" {
		band.Slug = photoslug.Slugify(band.Name)
	}

	err := r.DB.Create(band).Error
	if err != nil {
		return fmt.Errorf("failed to create band %s: %w", band.Name, err)
	}
	return nil
}

// ListByEvent retrieves all bands competing in an event, ordered by name
func (r *BandRepository) ListByEvent(eventID uint) ([]models.Band, error) {
	var bands []models.Band
	err := r.DB.Where("event_id = ?", eventID).
		Preload("Company").
		Order("name ASC").
		Find(&bands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bands for event %d: %w", eventID, err)
	}
	return bands, nil
}

// GetByID retrieves a band by its ID
func (r *BandRepository) GetByID(id uint) (*models.Band, error) {
	var band models.Band
	err := r.DB.Preload("Company").Preload("Setlist", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&band, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get band by ID %d: %w", id, err)
	}
	return &band, nil
}

// GetBySlug retrieves a band by its slug within an event
func (r *BandRepository) GetBySlug(eventID uint, slug string) (*models.Band, error) {
	var band models.Band
	err := r.DB.Where("event_id = ? AND slug = ?", eventID, slug).First(&band).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get band by slug %s: %w", slug, err)
	}
	return &band, nil
}

// Update updates an existing band's fields
func (r *BandRepository) Update(bandID uint, name *string, companyID *uint, tagline *string, members *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if companyID != nil {
		if *companyID == 0 { // allow detaching the company
			updates["company_id"] = gorm.Expr("NULL")
		} else {
			updates["company_id"] = *companyID
		}
	}
	if tagline != nil {
		if *tagline == "" {
			updates["tagline"] = gorm.Expr("NULL")
		} else {
			updates["tagline"] = *tagline
		}
	}
	if members != nil {
		if *members == "" {
			updates["members"] = gorm.Expr("NULL")
		} else {
			updates["members"] = *members
		}
	}

	if len(updates) == 1 {
		return nil
	}

	result := r.DB.Model(&models.Band{}).Where("id = ?", bandID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update band ID %d: %w", bandID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Band{}).Where("id = ?", bandID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a band; setlist songs cascade via the foreign key
func (r *BandRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Band{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete band ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
