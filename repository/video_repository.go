package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// VideoRepository handles database operations for Video entities
type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *models.Video) error {
	now := time.Now().Unix()
	if video.CreatedAt == 0 {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	if err := r.DB.Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video %s: %w", video.YouTubeID, err)
	}
	return nil
}

func (r *VideoRepository) ListByEvent(eventID uint) ([]models.Video, error) {
	var videos []models.Video
	err := r.DB.Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos for event %d: %w", eventID, err)
	}
	return videos, nil
}

func (r *VideoRepository) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := r.DB.First(&video, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get video by ID %d: %w", id, err)
	}
	return &video, nil
}

func (r *VideoRepository) GetByYouTubeID(youtubeID string) (*models.Video, error) {
	var video models.Video
	err := r.DB.Where("youtube_id = ?", youtubeID).First(&video).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get video by YouTube ID %s: %w", youtubeID, err)
	}
	return &video, nil
}

// Update overwrites a video's mutable fields, including backfilled metadata
func (r *VideoRepository) Update(video *models.Video) error {
	video.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Video{}).Where("id = ?", video.ID).
		Updates(map[string]interface{}{
			"band_id":          video.BandID,
			"title":            video.Title,
			"duration_seconds": video.DurationSeconds,
			"thumbnail_url":    video.ThumbnailURL,
			"updated_at":       video.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update video ID %d: %w", video.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Video{}).Where("id = ?", video.ID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *VideoRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Video{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete video ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
