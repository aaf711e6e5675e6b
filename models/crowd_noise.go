package models

// CrowdNoiseMeasurement is a decibel reading captured during a band's set.
// One row per event/band; re-measuring replaces the previous reading.
type CrowdNoiseMeasurement struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    uint    `gorm:"not null;uniqueIndex:idx_crowd_noise_event_band" json:"event_id"`
	BandID     uint    `gorm:"not null;uniqueIndex:idx_crowd_noise_event_band" json:"band_id"`
	Decibels   float64 `gorm:"not null" json:"decibels"`
	MeasuredAt int64   `gorm:"not null" json:"measured_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (CrowdNoiseMeasurement) TableName() string {
	return "crowd_noise_measurements"
}
