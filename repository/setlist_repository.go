package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
)

// SetlistRepository handles database operations for setlist songs
type SetlistRepository struct {
	DB *gorm.DB
}

func NewSetlistRepository(db *gorm.DB) *SetlistRepository {
	return &SetlistRepository{DB: db}
}

// Add appends a song to a band's setlist. If no position is given the song
// takes the next free slot; appends run in a transaction so two concurrent
// adds cannot claim the same position.
func (r *SetlistRepository) Add(song *models.SetlistSong) error {
	now := time.Now().Unix()
	if song.CreatedAt == 0 {
		song.CreatedAt = now
	}
	song.UpdatedAt = now

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if song.Position <= 0 {
			var nextPos int
			err := tx.Model(&models.SetlistSong{}).
				Where("band_id = ?", song.BandID).
				Select("COALESCE(MAX(position), 0) + 1").
				Scan(&nextPos).Error
			if err != nil {
				return err
			}
			song.Position = nextPos
		}
		return tx.Create(song).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add setlist song %s for band %d: %w", song.Title, song.BandID, err)
	}
	return nil
}

// ListByBand returns a band's setlist in performance order
func (r *SetlistRepository) ListByBand(bandID uint) ([]models.SetlistSong, error) {
	var songs []models.SetlistSong
	err := r.DB.Where("band_id = ?", bandID).
		Order("position ASC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list setlist for band %d: %w", bandID, err)
	}
	return songs, nil
}

// Delete removes a song and closes the gap so positions stay contiguous
func (r *SetlistRepository) Delete(songID uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var song models.SetlistSong
		if err := tx.First(&song, songID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SetlistSong{}, songID).Error; err != nil {
			return err
		}
		return tx.Model(&models.SetlistSong{}).
			Where("band_id = ? AND position > ?", song.BandID, song.Position).
			Updates(map[string]interface{}{
				"position":   gorm.Expr("position - 1"),
				"updated_at": time.Now().Unix(),
			}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return err
		}
		return fmt.Errorf("failed to delete setlist song ID %d: %w", songID, err)
	}
	return nil
}
