package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// InviteCodeRepository handles database operations for InviteCode entities
type InviteCodeRepository struct {
	DB *gorm.DB
}

func NewInviteCodeRepository(db *gorm.DB) *InviteCodeRepository {
	return &InviteCodeRepository{DB: db}
}

func (r *InviteCodeRepository) Create(inviteCode *models.InviteCode) error {
	if err := r.DB.Create(inviteCode).Error; err != nil {
		return fmt.Errorf("failed to create invite code: %w", err)
	}
	return nil
}

func (r *InviteCodeRepository) GetByCode(code string) (*models.InviteCode, error) {
	var inviteCode models.InviteCode
	err := r.DB.Where("code = ?", code).First(&inviteCode).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get invite code %s: %w", code, err)
	}
	return &inviteCode, nil
}

// IncrementUses bumps the use counter after a successful registration
func (r *InviteCodeRepository) IncrementUses(id uint) error {
	result := r.DB.Model(&models.InviteCode{}).Where("id = ?", id).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment uses for invite code ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InviteCodeRepository) ListAll() ([]models.InviteCode, error) {
	var codes []models.InviteCode
	if err := r.DB.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list invite codes: %w", err)
	}
	return codes, nil
}

func (r *InviteCodeRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.InviteCode{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete invite code ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
