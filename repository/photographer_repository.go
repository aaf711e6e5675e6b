package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// PhotographerRepository handles database operations for Photographer entities
type PhotographerRepository struct {
	DB *gorm.DB
}

func NewPhotographerRepository(db *gorm.DB) *PhotographerRepository {
	return &PhotographerRepository{DB: db}
}

func (r *PhotographerRepository) Create(photographer *models.Photographer) error {
	now := time.Now().Unix()
	if photographer.CreatedAt == 0 {
		photographer.CreatedAt = now
	}
	if photographer.UpdatedAt == 0 {
		photographer.UpdatedAt = now
	}
	if err := r.DB.Create(photographer).Error; err != nil {
		return fmt.Errorf("failed to create photographer %s: %w", photographer.Name, err)
	}
	return nil
}

func (r *PhotographerRepository) ListAll() ([]models.Photographer, error) {
	var photographers []models.Photographer
	if err := r.DB.Order("name ASC").Find(&photographers).Error; err != nil {
		return nil, fmt.Errorf("failed to list photographers: %w", err)
	}
	return photographers, nil
}

func (r *PhotographerRepository) GetByID(id uint) (*models.Photographer, error) {
	var photographer models.Photographer
	err := r.DB.First(&photographer, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photographer by ID %d: %w", id, err)
	}
	return &photographer, nil
}

func (r *PhotographerRepository) Update(photographer *models.Photographer) error {
	photographer.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Photographer{}).Where("id = ?", photographer.ID).
		Updates(map[string]interface{}{
			"name":       photographer.Name,
			"website":    photographer.Website,
			"instagram":  photographer.Instagram,
			"updated_at": photographer.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update photographer ID %d: %w", photographer.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PhotographerRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Photographer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photographer ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
