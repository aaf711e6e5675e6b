package models

// Event represents a single competition instance (city/year) using GORM.
// It corresponds to the 'events' table.
type Event struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string  `gorm:"not null" json:"name"`
	Slug           string  `gorm:"not null;unique" json:"slug"`
	City           string  `gorm:"not null" json:"city"`
	Year           int     `gorm:"not null" json:"year"`
	Venue          *string `gorm:"" json:"venue,omitempty"` // Nullable
	Date           *int64  `gorm:"" json:"date,omitempty"`  // Nullable, Unix timestamp
	Status         string  `gorm:"not null;default:upcoming" json:"status"`
	ScoringVersion string  `gorm:"not null;default:2025" json:"scoring_version"`
	CreatedAt      int64   `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt      int64   `gorm:"not null" json:"updated_at"` // Unix timestamp

	// Relationships
	Bands []Band `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"bands,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}
