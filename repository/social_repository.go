package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// SocialRepository handles database operations for cross-posting entities
type SocialRepository struct {
	DB *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{DB: db}
}

func (r *SocialRepository) CreateAccount(account *models.SocialAccount) error {
	now := time.Now().Unix()
	if account.CreatedAt == 0 {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	if err := r.DB.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create social account %s/%s: %w", account.Platform, account.Handle, err)
	}
	return nil
}

func (r *SocialRepository) ListAccounts(enabledOnly bool) ([]models.SocialAccount, error) {
	var accounts []models.SocialAccount
	query := r.DB.Order("platform ASC, handle ASC")
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	if err := query.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list social accounts: %w", err)
	}
	return accounts, nil
}

func (r *SocialRepository) GetAccountByID(id uint) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.DB.First(&account, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get social account by ID %d: %w", id, err)
	}
	return &account, nil
}

func (r *SocialRepository) UpdateAccount(account *models.SocialAccount) error {
	account.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.SocialAccount{}).Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"platform":     account.Platform,
			"handle":       account.Handle,
			"endpoint":     account.Endpoint,
			"access_token": account.AccessToken,
			"enabled":      account.Enabled,
			"updated_at":   account.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update social account ID %d: %w", account.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.SocialAccount{}).Where("id = ?", account.ID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *SocialRepository) DeleteAccount(id uint) error {
	result := r.DB.Delete(&models.SocialAccount{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete social account ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SocialRepository) CreatePost(post *models.SocialPost) error {
	if post.CreatedAt == 0 {
		post.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create social post: %w", err)
	}
	return nil
}

func (r *SocialRepository) ListPosts() ([]models.SocialPost, error) {
	var posts []models.SocialPost
	err := r.DB.Preload("Results").Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list social posts: %w", err)
	}
	return posts, nil
}

func (r *SocialRepository) GetPostByID(id uint) (*models.SocialPost, error) {
	var post models.SocialPost
	err := r.DB.Preload("Results").First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get social post by ID %d: %w", id, err)
	}
	return &post, nil
}

func (r *SocialRepository) CreateResult(result *models.SocialPostResult) error {
	if err := r.DB.Create(result).Error; err != nil {
		return fmt.Errorf("failed to create post result for post %d: %w", result.PostID, err)
	}
	return nil
}

func (r *SocialRepository) UpdateResult(result *models.SocialPostResult) error {
	res := r.DB.Model(&models.SocialPostResult{}).Where("id = ?", result.ID).
		Updates(map[string]interface{}{
			"status":    result.Status,
			"remote_id": result.RemoteID,
			"error":     result.Error,
			"posted_at": result.PostedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update post result ID %d: %w", result.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
