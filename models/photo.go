package models

import "gorm.io/gorm"

// Photo represents an uploaded gallery photo using GORM.
// It corresponds to the 'photos' table.
type Photo struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug         string `gorm:"not null;unique" json:"slug"`
	SlugPrefix   string `gorm:"not null;uniqueIndex:idx_photos_slug_prefix_seq" json:"-"`
	SlugSeq      int    `gorm:"not null;uniqueIndex:idx_photos_slug_prefix_seq" json:"-"`
	Filename     string `gorm:"not null" json:"filename"`
	OriginalPath string `gorm:"not null" json:"original_path"` // path relative to the media store root

	EventID        *uint `gorm:"index" json:"event_id,omitempty"`        // Nullable
	BandID         *uint `gorm:"index" json:"band_id,omitempty"`         // Nullable
	PhotographerID *uint `gorm:"index" json:"photographer_id,omitempty"` // Nullable

	Labels      *string  `gorm:"" json:"labels,omitempty"`        // Nullable, comma-separated
	FocalPointX *float64 `gorm:"" json:"focal_point_x,omitempty"` // Nullable, 0..1
	FocalPointY *float64 `gorm:"" json:"focal_point_y,omitempty"` // Nullable, 0..1

	Width        *int     `gorm:"" json:"width,omitempty"`         // Nullable
	Height       *int     `gorm:"" json:"height,omitempty"`        // Nullable
	TakenAt      *int64   `gorm:"index" json:"taken_at,omitempty"` // Nullable, Unix timestamp
	CameraMake   *string  `gorm:"" json:"camera_make,omitempty"`   // Nullable
	CameraModel  *string  `gorm:"" json:"camera_model,omitempty"`  // Nullable
	LensMake     *string  `gorm:"" json:"lens_make,omitempty"`     // Nullable
	LensModel    *string  `gorm:"" json:"lens_model,omitempty"`    // Nullable
	FocalLength  *float64 `gorm:"" json:"focal_length,omitempty"`  // Nullable, mm
	Aperture     *float64 `gorm:"" json:"aperture,omitempty"`      // Nullable, F-number
	ShutterSpeed *string  `gorm:"" json:"shutter_speed,omitempty"` // Nullable, e.g., "1/125"
	ISO          *int     `gorm:"" json:"iso,omitempty"`           // Nullable

	ThumbnailPath *string `gorm:"" json:"thumbnail_path,omitempty"` // Nullable
	WebPath       *string `gorm:"" json:"web_path,omitempty"`       // Nullable

	// photo intelligence outputs
	PHash        *string `gorm:"column:phash;index" json:"phash,omitempty"` // Nullable, 64-bit hex
	DHash        *string `gorm:"column:dhash" json:"dhash,omitempty"`       // Nullable, 64-bit hex
	IsMonochrome *bool   `gorm:"" json:"is_monochrome,omitempty"`  // Nullable
	CropBoxes    *string `gorm:"type:text" json:"crop_boxes,omitempty"` // Nullable, JSON keyed by aspect ratio

	MetadataStatus     string `gorm:"not null;default:pending" json:"metadata_status"`
	ThumbnailStatus    string `gorm:"not null;default:pending" json:"thumbnail_status"`
	IntelligenceStatus string `gorm:"not null;default:pending" json:"intelligence_status"`

	MetadataProcessedAt     *int64 `gorm:"" json:"metadata_processed_at,omitempty"`     // Nullable, Unix timestamp
	ThumbnailProcessedAt    *int64 `gorm:"" json:"thumbnail_processed_at,omitempty"`    // Nullable, Unix timestamp
	IntelligenceProcessedAt *int64 `gorm:"" json:"intelligence_processed_at,omitempty"` // Nullable, Unix timestamp

	MetadataError     *string `gorm:"" json:"metadata_error,omitempty"`     // Nullable
	ThumbnailError    *string `gorm:"" json:"thumbnail_error,omitempty"`    // Nullable
	IntelligenceError *string `gorm:"" json:"intelligence_error,omitempty"` // Nullable

	CreatedAt int64          `gorm:"not null" json:"created_at"`
	UpdatedAt int64          `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // For soft deletes
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
