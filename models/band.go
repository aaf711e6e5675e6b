package models

// Band represents a competing act tied to one event and optionally a company.
// It corresponds to the 'bands' table.
type Band struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint    `gorm:"not null;index;uniqueIndex:idx_bands_event_slug" json:"event_id"`
	CompanyID *uint   `gorm:"index" json:"company_id,omitempty"` // Nullable
	Name      string  `gorm:"not null" json:"name"`
	Slug      string  `gorm:"not null;uniqueIndex:idx_bands_event_slug" json:"slug"`
	Tagline   *string `gorm:"" json:"tagline,omitempty"` // Nullable
	Members   *string `gorm:"" json:"members,omitempty"` // Nullable, newline-separated member names
	CreatedAt int64   `gorm:"not null" json:"created_at"`
	UpdatedAt int64   `gorm:"not null" json:"updated_at"`

	// Relationships
	Company *Company      `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Setlist []SetlistSong `gorm:"foreignKey:BandID;constraint:OnDelete:CASCADE" json:"setlist,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Band) TableName() string {
	return "bands"
}
