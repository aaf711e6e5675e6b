package models

// Video is a performance recording hosted on YouTube.
type Video struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID         uint    `gorm:"not null;index" json:"event_id"`
	BandID          *uint   `gorm:"index" json:"band_id,omitempty"` // Nullable
	YouTubeID       string  `gorm:"not null;unique;column:youtube_id" json:"youtube_id"`
	Title           string  `gorm:"not null" json:"title"`
	DurationSeconds *int    `gorm:"" json:"duration_seconds,omitempty"` // Nullable
	ThumbnailURL    *string `gorm:"" json:"thumbnail_url,omitempty"`    // Nullable
	CreatedAt       int64   `gorm:"not null" json:"created_at"`
	UpdatedAt       int64   `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Video) TableName() string {
	return "videos"
}
