package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/battletechbands/backend/models"
)

// VoteRepository handles crowd votes, judge ballots, and crowd-noise readings
type VoteRepository struct {
	DB *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{DB: db}
}

// CreateCrowdVote records a crowd vote. The unique index on
// (event_id, fingerprint) rejects a second vote from the same browser;
// callers should treat a constraint violation as "already voted".
func (r *VoteRepository) CreateCrowdVote(vote *models.Vote) error {
	if vote.CreatedAt == 0 {
		vote.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(vote).Error; err != nil {
		return fmt.Errorf("failed to record vote for band %d: %w", vote.BandID, err)
	}
	return nil
}

// CountVotesByBand returns vote tallies for an event keyed by band ID.
// Bands with zero votes are absent from the map.
func (r *VoteRepository) CountVotesByBand(eventID uint) (map[uint]int64, error) {
	type tallyRow struct {
		BandID uint
		Count  int64
	}
	var rows []tallyRow
	err := r.DB.Model(&models.Vote{}).
		Select("band_id, COUNT(*) as count").
		Where("event_id = ?", eventID).
		Group("band_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes for event %d: %w", eventID, err)
	}

	tallies := make(map[uint]int64, len(rows))
	for _, row := range rows {
		tallies[row.BandID] = row.Count
	}
	return tallies, nil
}

// UpsertJudgeScore writes a judge's category score for a band, overwriting
// any previous score from the same judge for the same category.
func (r *VoteRepository) UpsertJudgeScore(score *models.JudgeScore) error {
	now := time.Now().Unix()
	if score.CreatedAt == 0 {
		score.CreatedAt = now
	}
	score.UpdatedAt = now

	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "band_id"}, {Name: "judge_id"}, {Name: "category"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      score.Score,
			"updated_at": score.UpdatedAt,
		}),
	}).Create(score).Error
	if err != nil {
		return fmt.Errorf("failed to upsert judge score for band %d: %w", score.BandID, err)
	}
	return nil
}

// ListJudgeScores returns all scores a judge has entered for an event,
// so a ballot UI can show what is already filled in.
func (r *VoteRepository) ListJudgeScores(eventID uint, judgeID uint) ([]models.JudgeScore, error) {
	var scores []models.JudgeScore
	err := r.DB.Where("event_id = ? AND judge_id = ?", eventID, judgeID).
		Order("band_id ASC, category ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list judge scores for event %d: %w", eventID, err)
	}
	return scores, nil
}

// ReplaceCrowdNoise stores a decibel reading for a band, replacing any
// previous reading. Delete and insert run in one transaction so a
// concurrent re-measure cannot leave two rows or none.
func (r *VoteRepository) ReplaceCrowdNoise(measurement *models.CrowdNoiseMeasurement) error {
	if measurement.MeasuredAt == 0 {
		measurement.MeasuredAt = time.Now().Unix()
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ? AND band_id = ?", measurement.EventID, measurement.BandID).
			Delete(&models.CrowdNoiseMeasurement{}).Error; err != nil {
			return err
		}
		return tx.Create(measurement).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store crowd noise for band %d: %w", measurement.BandID, err)
	}
	return nil
}

// ListCrowdNoise returns all noise readings for an event, loudest first
func (r *VoteRepository) ListCrowdNoise(eventID uint) ([]models.CrowdNoiseMeasurement, error) {
	var measurements []models.CrowdNoiseMeasurement
	err := r.DB.Where("event_id = ?", eventID).
		Order("decibels DESC").
		Find(&measurements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list crowd noise for event %d: %w", eventID, err)
	}
	return measurements, nil
}
