package models

// Vote is a single crowd vote for a band within an event. The fingerprint is
// a hash derived from the voting browser; one vote per fingerprint per event.
type Vote struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     uint   `gorm:"not null;uniqueIndex:idx_votes_event_fingerprint" json:"event_id"`
	BandID      uint   `gorm:"not null;index" json:"band_id"`
	Fingerprint string `gorm:"not null;uniqueIndex:idx_votes_event_fingerprint" json:"-"`
	CreatedAt   int64  `gorm:"not null" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (Vote) TableName() string {
	return "votes"
}

// JudgeScore is one category score on a judge's ballot for a band.
// A judge scores each category at most once per band.
type JudgeScore struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint    `gorm:"not null;index" json:"event_id"`
	BandID    uint    `gorm:"not null;uniqueIndex:idx_judge_scores_band_judge_category" json:"band_id"`
	JudgeID   uint    `gorm:"not null;uniqueIndex:idx_judge_scores_band_judge_category" json:"judge_id"`
	Category  string  `gorm:"not null;uniqueIndex:idx_judge_scores_band_judge_category" json:"category"`
	Score     float64 `gorm:"not null;check:score >= 0 AND score <= 10" json:"score"`
	CreatedAt int64   `gorm:"not null" json:"created_at"`
	UpdatedAt int64   `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (JudgeScore) TableName() string {
	return "judge_scores"
}
