package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// CompanyRepository handles database operations for Company entities
type CompanyRepository struct {
	DB *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

func (r *CompanyRepository) Create(company *models.Company) error {
	now := time.Now().Unix()
	if company.CreatedAt == 0 {
		company.CreatedAt = now
	}
	if company.UpdatedAt == 0 {
		company.UpdatedAt = now
	}
	if err := r.DB.Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company %s: %w", company.Name, err)
	}
	return nil
}

func (r *CompanyRepository) ListAll() ([]models.Company, error) {
	var companies []models.Company
	if err := r.DB.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (r *CompanyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := r.DB.First(&company, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company by ID %d: %w", id, err)
	}
	return &company, nil
}

func (r *CompanyRepository) Update(company *models.Company) error {
	company.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Company{}).Where("id = ?", company.ID).
		Updates(map[string]interface{}{
			"name":       company.Name,
			"website":    company.Website,
			"updated_at": company.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update company ID %d: %w", company.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Company{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete company ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
