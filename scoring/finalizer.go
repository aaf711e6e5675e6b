package scoring

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
)

// Finalizer computes and persists an event's ranking snapshot.
type Finalizer struct {
	db *gorm.DB
}

func NewFinalizer(db *gorm.DB) *Finalizer {
	return &Finalizer{db: db}
}

type categoryAvgRow struct {
	BandID   uint
	Category string
	Avg      float64
}

type voteCountRow struct {
	BandID uint
	Count  int64
}

// FinalizeEvent recomputes the event's results and replaces any prior
// finalized rows. The delete, the inserts, and the status flip share one
// transaction so a failure cannot leave a half-written snapshot.
func (f *Finalizer) FinalizeEvent(eventID uint) ([]models.FinalizedResult, error) {
	var event models.Event
	if err := f.db.First(&event, eventID).Error; err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	if event.Status == database.EventStatusUpcoming {
		return nil, fmt.Errorf("event %d has not opened voting yet", eventID)
	}

	version, err := LookupVersion(event.ScoringVersion)
	if err != nil {
		return nil, err
	}

	var bands []models.Band
	if err := f.db.Where("event_id = ?", eventID).Find(&bands).Error; err != nil {
		return nil, fmt.Errorf("failed to load bands for event %d: %w", eventID, err)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("event %d has no bands to rank", eventID)
	}

	var avgRows []categoryAvgRow
	err = f.db.Model(&models.JudgeScore{}).
		Select("band_id, category, AVG(score) AS avg").
		Where("event_id = ?", eventID).
		Group("band_id, category").
		Scan(&avgRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate judge scores for event %d: %w", eventID, err)
	}

	var voteRows []voteCountRow
	err = f.db.Model(&models.Vote{}).
		Select("band_id, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("band_id").
		Scan(&voteRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count votes for event %d: %w", eventID, err)
	}

	averages := make(map[uint]map[string]float64)
	for _, row := range avgRows {
		if averages[row.BandID] == nil {
			averages[row.BandID] = make(map[string]float64)
		}
		averages[row.BandID][row.Category] = row.Avg
	}
	votes := make(map[uint]int64)
	for _, row := range voteRows {
		votes[row.BandID] = row.Count
	}

	inputs := make([]BandInput, 0, len(bands))
	for _, band := range bands {
		inputs = append(inputs, BandInput{
			BandID:           band.ID,
			BandName:         band.Name,
			CategoryAverages: averages[band.ID],
			VoteCount:        votes[band.ID],
		})
	}

	computed := ComputeScores(version, inputs)

	now := time.Now().Unix()
	results := make([]models.FinalizedResult, 0, len(computed))
	for _, s := range computed {
		results = append(results, models.FinalizedResult{
			EventID:        eventID,
			BandID:         s.BandID,
			Rank:           s.Rank,
			TotalScore:     s.TotalScore,
			JudgeScore:     s.JudgeScore,
			CrowdScore:     s.CrowdScore,
			VoteCount:      s.VoteCount,
			ScoringVersion: version.Tag,
			FinalizedAt:    now,
		})
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.FinalizedResult{}).Error; err != nil {
			return fmt.Errorf("failed to clear prior results: %w", err)
		}
		if err := tx.Create(&results).Error; err != nil {
			return fmt.Errorf("failed to insert results: %w", err)
		}
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).
			Updates(map[string]interface{}{
				"status":     database.EventStatusFinalized,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to mark event finalized: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize event %d: %w", eventID, err)
	}

	logrus.Infof("finalized event %d (%s): %d bands ranked under scoring version %s",
		eventID, event.Name, len(results), version.Tag)
	return results, nil
}
