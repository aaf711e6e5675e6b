package models

// SetlistSong is one entry in a band's performance setlist, ordered by Position.
type SetlistSong struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BandID          uint    `gorm:"not null;uniqueIndex:idx_setlist_band_position" json:"band_id"`
	Position        int     `gorm:"not null;uniqueIndex:idx_setlist_band_position" json:"position"`
	Title           string  `gorm:"not null" json:"title"`
	Artist          *string `gorm:"" json:"artist,omitempty"`           // Nullable, original artist for covers
	DurationSeconds *int    `gorm:"" json:"duration_seconds,omitempty"` // Nullable
	CreatedAt       int64   `gorm:"not null" json:"created_at"`
	UpdatedAt       int64   `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (SetlistSong) TableName() string {
	return "setlist_songs"
}
