package models

// Company is the employer a band represents.
type Company struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"not null;unique" json:"name"`
	Website   *string `gorm:"" json:"website,omitempty"` // Nullable
	CreatedAt int64   `gorm:"not null" json:"created_at"`
	UpdatedAt int64   `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Company) TableName() string {
	return "companies"
}
