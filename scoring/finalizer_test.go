package scoring

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, status, version string) (models.Event, []models.Band) {
	t.Helper()
	now := time.Now().Unix()
	event := models.Event{
		Name: "Battle of the Tech Bands Berlin 2025", Slug: "berlin-2025",
		City: "Berlin", Year: 2025, Status: status, ScoringVersion: version,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	bands := []models.Band{
		{EventID: event.ID, Name: "Kernel Panic", Slug: "kernel-panic", CreatedAt: now, UpdatedAt: now},
		{EventID: event.ID, Name: "The Null Pointers", Slug: "the-null-pointers", CreatedAt: now, UpdatedAt: now},
	}
	if err := db.Create(&bands).Error; err != nil {
		t.Fatalf("failed to create bands: %v", err)
	}
	return event, bands
}

func TestFinalizeEvent(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedEvent(t, db, database.EventStatusVoting, "2024")
	now := time.Now().Unix()

	// two judges, band 0 scored higher
	for judgeID := uint(1); judgeID <= 2; judgeID++ {
		for i, band := range bands {
			score := 9.0 - float64(i)*2
			for _, cat := range []string{CategoryPerformance, CategoryMusicality, CategoryStagePresence} {
				js := models.JudgeScore{
					EventID: event.ID, BandID: band.ID, JudgeID: judgeID,
					Category: cat, Score: score, CreatedAt: now, UpdatedAt: now,
				}
				if err := db.Create(&js).Error; err != nil {
					t.Fatalf("failed to create judge score: %v", err)
				}
			}
		}
	}

	// band 1 wins the crowd 3:1
	for i := 0; i < 4; i++ {
		bandID := bands[1].ID
		if i == 3 {
			bandID = bands[0].ID
		}
		v := models.Vote{EventID: event.ID, BandID: bandID, Fingerprint: string(rune('a' + i)), CreatedAt: now}
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("failed to create vote: %v", err)
		}
	}

	results, err := NewFinalizer(db).FinalizeEvent(event.ID)
	if err != nil {
		t.Fatalf("FinalizeEvent: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// band 0: judge 9, crowd 1/3*10 ≈ 3.33 → 12.33
	// band 1: judge 7, crowd 10 → 17
	if results[0].BandID != bands[1].ID || results[0].Rank != 1 {
		t.Errorf("expected band %d first, got band %d rank %d", bands[1].ID, results[0].BandID, results[0].Rank)
	}
	if results[0].CrowdScore != 10 {
		t.Errorf("winner crowd score = %v, want 10", results[0].CrowdScore)
	}
	if results[1].Rank != 2 {
		t.Errorf("second rank = %d, want 2", results[1].Rank)
	}
	if results[0].ScoringVersion != "2024" {
		t.Errorf("scoring version = %s, want 2024", results[0].ScoringVersion)
	}

	var updated models.Event
	if err := db.First(&updated, event.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if updated.Status != database.EventStatusFinalized {
		t.Errorf("event status = %s, want finalized", updated.Status)
	}
}

func TestFinalizeEventReplacesPriorResults(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedEvent(t, db, database.EventStatusVoting, "2024")
	now := time.Now().Unix()

	stale := models.FinalizedResult{
		EventID: event.ID, BandID: bands[0].ID, Rank: 1, TotalScore: 99,
		ScoringVersion: "2024", FinalizedAt: now,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale result: %v", err)
	}

	if _, err := NewFinalizer(db).FinalizeEvent(event.ID); err != nil {
		t.Fatalf("FinalizeEvent: %v", err)
	}

	var count int64
	db.Model(&models.FinalizedResult{}).Where("event_id = ?", event.ID).Count(&count)
	if count != int64(len(bands)) {
		t.Errorf("result rows = %d, want %d (stale row replaced)", count, len(bands))
	}

	var top models.FinalizedResult
	db.Where("event_id = ? AND rank = 1", event.ID).First(&top)
	if top.TotalScore == 99 {
		t.Error("stale result row survived finalization")
	}
}

func TestFinalizeEventRefusesUpcoming(t *testing.T) {
	db := setupTestDB(t)
	event, _ := seedEvent(t, db, database.EventStatusUpcoming, "2024")

	if _, err := NewFinalizer(db).FinalizeEvent(event.ID); err == nil {
		t.Error("expected error finalizing an upcoming event")
	}
}

func TestFinalizeEventUnknownVersion(t *testing.T) {
	db := setupTestDB(t)
	event, _ := seedEvent(t, db, database.EventStatusVoting, "1999")

	if _, err := NewFinalizer(db).FinalizeEvent(event.ID); err == nil {
		t.Error("expected error for unknown scoring version")
	}
}
