package models

// FinalizedResult is a persisted ranking snapshot for an event once voting
// closes. One row per event/band.
type FinalizedResult struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID        uint    `gorm:"not null;uniqueIndex:idx_finalized_results_event_band" json:"event_id"`
	BandID         uint    `gorm:"not null;uniqueIndex:idx_finalized_results_event_band" json:"band_id"`
	Rank           int     `gorm:"not null" json:"rank"`
	TotalScore     float64 `gorm:"not null" json:"total_score"`
	JudgeScore     float64 `gorm:"not null" json:"judge_score"`
	CrowdScore     float64 `gorm:"not null" json:"crowd_score"`
	VoteCount      int64   `gorm:"not null" json:"vote_count"`
	ScoringVersion string  `gorm:"not null" json:"scoring_version"`
	FinalizedAt    int64   `gorm:"not null" json:"finalized_at"` // Unix timestamp

	// Relationships
	Band *Band `gorm:"foreignKey:BandID" json:"band,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (FinalizedResult) TableName() string {
	return "finalized_results"
}
