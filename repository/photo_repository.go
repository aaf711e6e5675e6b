package repository

import (
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/intelligence"
	"github.com/battletechbands/backend/media"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/photoslug"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// CreateWithSlug creates a photo record, allocating the next sequence number
// for its slug prefix. Allocation and insert run in one transaction so two
// concurrent uploads with the same prefix cannot claim the same slug.
func (r *PhotoRepository) CreateWithSlug(photo *models.Photo, prefix string) error {
	if prefix == "" {
		prefix = photoslug.FallbackPrefix
	}
	now := time.Now().Unix()
	if photo.CreatedAt == 0 {
		photo.CreatedAt = now
	}
	photo.UpdatedAt = now

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var nextSeq int
		err := tx.Model(&models.Photo{}).
			Unscoped(). // soft-deleted photos keep their slugs reserved
			Where("slug_prefix = ?", prefix).
			Select("COALESCE(MAX(slug_seq), 0) + 1").
			Scan(&nextSeq).Error
		if err != nil {
			return err
		}
		photo.SlugPrefix = prefix
		photo.SlugSeq = nextSeq
		photo.Slug = photoslug.Format(prefix, nextSeq)
		return tx.Create(photo).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create photo record for %s: %w", photo.Filename, err)
	}
	return nil
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// GetBySlug retrieves a photo by its public slug
func (r *PhotoRepository) GetBySlug(slug string) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("slug = ?", slug).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by slug %s: %w", slug, err)
	}
	return &photo, nil
}

// Search retrieves photos matching the given filters. Results are ordered by
// capture time; photos without EXIF timestamps sort last, in natural filename
// order so DSC_9 comes before DSC_10.
func (r *PhotoRepository) Search(filters PhotoSearchFilters) ([]models.Photo, error) {
	queryBuilder := sq.Select("*").From("photos").Where(sq.Eq{"deleted_at": nil})

	if filters.EventID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"event_id": *filters.EventID})
	}
	if filters.BandID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"band_id": *filters.BandID})
	}
	if filters.PhotographerID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"photographer_id": *filters.PhotographerID})
	}
	if filters.Label != nil && *filters.Label != "" {
		// labels are stored comma-separated; match whole terms only
		queryBuilder = queryBuilder.Where(
			sq.Like{"(',' || COALESCE(labels, '') || ',')": "%," + *filters.Label + ",%"},
		)
	}
	if filters.Monochrome != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"is_monochrome": *filters.Monochrome})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build photo search query: %w", err)
	}

	var photos []models.Photo
	if err := r.DB.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to execute photo search: %w", err)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		ti, tj := photos[i].TakenAt, photos[j].TakenAt
		switch {
		case ti != nil && tj != nil && *ti != *tj:
			return *ti < *tj
		case ti != nil && tj == nil:
			return true
		case ti == nil && tj != nil:
			return false
		default:
			return natsort.Compare(photos[i].Filename, photos[j].Filename)
		}
	})
	return photos, nil
}

// UpdateLabels replaces a photo's label set; nil or empty clears it
func (r *PhotoRepository) UpdateLabels(photoID uint, labels *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if labels == nil || *labels == "" {
		updates["labels"] = gorm.Expr("NULL")
	} else {
		updates["labels"] = *labels
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update labels for photo %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateFocalPoint sets the photo's focal point, clamped to the unit square
func (r *PhotoRepository) UpdateFocalPoint(photoID uint, x, y float64) error {
	x = clampUnit(x)
	y = clampUnit(y)

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).
		Updates(map[string]interface{}{
			"focal_point_x": x,
			"focal_point_y": y,
			"updated_at":    time.Now().Unix(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update focal point for photo %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAssociations re-links a photo to an event, band, and/or photographer.
// A pointer to zero detaches that association; nil leaves it unchanged.
func (r *PhotoRepository) UpdateAssociations(photoID uint, eventID, bandID, photographerID *uint) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	setAssoc := func(column string, id *uint) {
		if id == nil {
			return
		}
		if *id == 0 {
			updates[column] = gorm.Expr("NULL")
		} else {
			updates[column] = *id
		}
	}
	setAssoc("event_id", eventID)
	setAssoc("band_id", bandID)
	setAssoc("photographer_id", photographerID)

	if len(updates) == 1 {
		return nil
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update associations for photo %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkTaskProcessing updates a specific task's status to 'processing' and clears its error
func (r *PhotoRepository) MarkTaskProcessing(photoID uint, taskStatusColumn string) error {
	validStatusColumns := map[string]string{
		"metadata_status":     "metadata_error",
		"thumbnail_status":    "thumbnail_error",
		"intelligence_status": "intelligence_error",
	}

	errorColumn, isValid := validStatusColumns[taskStatusColumn]
	if !isValid {
		return fmt.Errorf("invalid task status column name: %s", taskStatusColumn)
	}

	updates := map[string]interface{}{
		taskStatusColumn: database.StatusProcessing,
		errorColumn:      gorm.Expr("NULL"),
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark task %s processing for photo %d: %w", taskStatusColumn, photoID, result.Error)
	}
	return nil
}

// UpdateMetadataResult updates the photo record with metadata extraction results
func (r *PhotoRepository) UpdateMetadataResult(photoID uint, meta *media.Metadata, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string

	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updateData := map[string]interface{}{
		"metadata_status":       status,
		"metadata_processed_at": &now,
		"metadata_error":        errStr,
		"updated_at":            now,
	}

	if meta != nil {
		updateData["width"] = meta.Width
		updateData["height"] = meta.Height
		updateData["aperture"] = meta.Aperture
		updateData["shutter_speed"] = meta.ShutterSpeed
		updateData["iso"] = meta.ISO
		updateData["focal_length"] = meta.FocalLength
		updateData["lens_make"] = meta.LensMake
		updateData["lens_model"] = meta.LensModel
		updateData["camera_make"] = meta.CameraMake
		updateData["camera_model"] = meta.CameraModel
		updateData["taken_at"] = meta.TakenAt
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update metadata result for photo %d: %w", photoID, result.Error)
	}
	return nil
}

// UpdateThumbnailResult updates the photo record with thumbnail generation results
func (r *PhotoRepository) UpdateThumbnailResult(photoID uint, thumbPath, webPath *string, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string

	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"thumbnail_path":         thumbPath,
		"web_path":               webPath,
		"thumbnail_status":       status,
		"thumbnail_processed_at": &now,
		"thumbnail_error":        errStr,
		"updated_at":             now,
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update thumbnail result for photo %d: %w", photoID, result.Error)
	}
	return nil
}

// UpdateIntelligenceResult updates the photo record with hash, monochrome,
// and smart-crop results
func (r *PhotoRepository) UpdateIntelligenceResult(photoID uint, phash, dhash *string, monochrome *bool, cropBoxes *string, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string

	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"phash":                     phash,
		"dhash":                     dhash,
		"is_monochrome":             monochrome,
		"crop_boxes":                cropBoxes,
		"intelligence_status":       status,
		"intelligence_processed_at": &now,
		"intelligence_error":        errStr,
		"updated_at":                now,
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update intelligence result for photo %d: %w", photoID, result.Error)
	}
	return nil
}

// FindNearDuplicates returns other photos whose perceptual hash is within the
// similarity threshold of the given photo's. Hamming distances are computed
// in Go over the candidate set; the hash index keeps the scan bounded.
func (r *PhotoRepository) FindNearDuplicates(photoID uint) ([]models.Photo, error) {
	photo, err := r.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo.PHash == nil {
		return nil, fmt.Errorf("photo %d has no perceptual hash yet", photoID)
	}

	var candidates []models.Photo
	err = r.DB.Where("id <> ? AND phash IS NOT NULL", photoID).Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load hash candidates for photo %d: %w", photoID, err)
	}

	var duplicates []models.Photo
	for _, candidate := range candidates {
		dist, err := intelligence.HammingDistance(*photo.PHash, *candidate.PHash)
		if err != nil {
			continue // malformed stored hash, skip
		}
		if dist <= intelligence.DuplicateDistanceThreshold {
			duplicates = append(duplicates, candidate)
		}
	}
	return duplicates, nil
}

// Delete soft-deletes a photo record
func (r *PhotoRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Photo{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photo ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
