package models

// Photographer credits uploaded gallery media.
type Photographer struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"not null;unique" json:"name"`
	Website   *string `gorm:"" json:"website,omitempty"`   // Nullable
	Instagram *string `gorm:"" json:"instagram,omitempty"` // Nullable
	CreatedAt int64   `gorm:"not null" json:"created_at"`
	UpdatedAt int64   `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Photographer) TableName() string {
	return "photographers"
}
