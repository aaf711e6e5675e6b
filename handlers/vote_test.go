package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newVoteRouter(db *gorm.DB) http.Handler {
	voteHandler := NewVoteHandler(
		repository.NewVoteRepository(db),
		repository.NewEventRepository(db),
		repository.NewBandRepository(db),
		nil,
	)
	r := chi.NewRouter()
	r.Post("/api/events/{eventID}/votes", voteHandler.CastVote)
	r.Get("/api/events/{eventID}/votes", voteHandler.GetTallies)
	r.Post("/api/events/{eventID}/crowd-noise", voteHandler.SubmitCrowdNoise)
	return r
}

func seedVotingEvent(t *testing.T, db *gorm.DB, status string) (*models.Event, []models.Band) {
	t.Helper()
	eventRepo := repository.NewEventRepository(db)
	bandRepo := repository.NewBandRepository(db)

	event := &models.Event{Name: "Battle Berlin", Slug: "berlin-2025", City: "Berlin", Year: 2025, Status: status}
	if err := eventRepo.Create(event); err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	var bands []models.Band
	for _, name := range []string{"Kernel Panic", "The Rolling Backups"} {
		band := &models.Band{EventID: event.ID, Name: name}
		if err := bandRepo.Create(band); err != nil {
			t.Fatalf("failed to seed band %s: %v", name, err)
		}
		bands = append(bands, *band)
	}
	return event, bands
}

func postJSON(t *testing.T, handler http.Handler, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCastVote(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusVoting)
	router := newVoteRouter(db)
	voteURL := fmt.Sprintf("/api/events/%d/votes", event.ID)

	rr := postJSON(t, router, voteURL, map[string]interface{}{
		"band_id":     bands[0].ID,
		"fingerprint": "browser-abc",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	// same fingerprint cannot vote twice, even for another band
	rr = postJSON(t, router, voteURL, map[string]interface{}{
		"band_id":     bands[1].ID,
		"fingerprint": "browser-abc",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d for duplicate fingerprint, got %d: %s", http.StatusConflict, rr.Code, rr.Body.String())
	}

	// a different browser still can
	rr = postJSON(t, router, voteURL, map[string]interface{}{
		"band_id":     bands[1].ID,
		"fingerprint": "browser-def",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d for second browser, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	// tallies reflect both votes
	req := httptest.NewRequest(http.MethodGet, voteURL, nil)
	tallyRR := httptest.NewRecorder()
	router.ServeHTTP(tallyRR, req)
	if tallyRR.Code != http.StatusOK {
		t.Fatalf("expected %d from tallies, got %d", http.StatusOK, tallyRR.Code)
	}
	var tallyResp struct {
		Tallies map[string]int64 `json:"tallies"`
	}
	if err := json.Unmarshal(tallyRR.Body.Bytes(), &tallyResp); err != nil {
		t.Fatalf("failed to decode tally response: %v", err)
	}
	var total int64
	for _, count := range tallyResp.Tallies {
		total += count
	}
	if total != 2 {
		t.Errorf("expected 2 total votes, got %d (%v)", total, tallyResp.Tallies)
	}
}

func TestCastVoteRejectsClosedEvent(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusUpcoming)
	router := newVoteRouter(db)

	rr := postJSON(t, router, fmt.Sprintf("/api/events/%d/votes", event.ID), map[string]interface{}{
		"band_id":     bands[0].ID,
		"fingerprint": "browser-abc",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d for upcoming event, got %d: %s", http.StatusConflict, rr.Code, rr.Body.String())
	}
}

func TestCastVoteRejectsForeignBand(t *testing.T) {
	db := setupTestDB(t)
	event, _ := seedVotingEvent(t, db, database.EventStatusVoting)

	otherEventRepo := repository.NewEventRepository(db)
	otherEvent := &models.Event{Name: "Battle Munich", Slug: "munich-2025", City: "Munich", Year: 2025, Status: database.EventStatusVoting}
	if err := otherEventRepo.Create(otherEvent); err != nil {
		t.Fatalf("failed to seed second event: %v", err)
	}
	bandRepo := repository.NewBandRepository(db)
	foreignBand := &models.Band{EventID: otherEvent.ID, Name: "Stack Underflow"}
	if err := bandRepo.Create(foreignBand); err != nil {
		t.Fatalf("failed to seed foreign band: %v", err)
	}

	router := newVoteRouter(db)
	rr := postJSON(t, router, fmt.Sprintf("/api/events/%d/votes", event.ID), map[string]interface{}{
		"band_id":     foreignBand.ID,
		"fingerprint": "browser-abc",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d for band from another event, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestSubmitCrowdNoiseReplacesReading(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusVoting)
	router := newVoteRouter(db)
	noiseURL := fmt.Sprintf("/api/events/%d/crowd-noise", event.ID)

	for _, decibels := range []float64{98.5, 104.2} {
		rr := postJSON(t, router, noiseURL, map[string]interface{}{
			"band_id":  bands[0].ID,
			"decibels": decibels,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
		}
	}

	measurements, err := repository.NewVoteRepository(db).ListCrowdNoise(event.ID)
	if err != nil {
		t.Fatalf("failed to list crowd noise: %v", err)
	}
	if len(measurements) != 1 {
		t.Fatalf("expected one measurement after re-measure, got %d", len(measurements))
	}
	if measurements[0].Decibels != 104.2 {
		t.Errorf("expected latest reading 104.2, got %v", measurements[0].Decibels)
	}
}

// newJudgeRouter mounts the ballot routes with the given user pre-loaded into
// the request context, standing in for the auth middleware
func newJudgeRouter(db *gorm.DB, judge *models.User) http.Handler {
	voteHandler := NewVoteHandler(
		repository.NewVoteRepository(db),
		repository.NewEventRepository(db),
		repository.NewBandRepository(db),
		nil,
	)
	r := chi.NewRouter()
	r.Route("/api/events/{eventID}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), UserContextKey, judge)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Post("/judge-scores", voteHandler.SubmitJudgeScore)
		r.Get("/judge-scores/mine", voteHandler.GetMyBallot)
	})
	return r
}

func seedJudge(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	judge := &models.User{Username: "judge-judy", PasswordHash: "x", IsJudge: true}
	if err := repository.NewUserRepository(db).Create(judge); err != nil {
		t.Fatalf("failed to seed judge: %v", err)
	}
	return judge
}

func TestSubmitJudgeScoreOverwritesResubmission(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusVoting)
	judge := seedJudge(t, db)
	router := newJudgeRouter(db, judge)
	scoreURL := fmt.Sprintf("/api/events/%d/judge-scores", event.ID)

	for _, score := range []float64{7, 9} {
		rr := postJSON(t, router, scoreURL, map[string]interface{}{
			"band_id":  bands[0].ID,
			"category": "performance",
			"score":    score,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
		}
	}

	scores, err := repository.NewVoteRepository(db).ListJudgeScores(event.ID, judge.ID)
	if err != nil {
		t.Fatalf("failed to list ballot: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected one row after re-submission, got %d", len(scores))
	}
	if scores[0].Score != 9 {
		t.Errorf("expected re-submission to overwrite score, got %v", scores[0].Score)
	}

	// a different category is its own row
	rr := postJSON(t, router, scoreURL, map[string]interface{}{
		"band_id":  bands[0].ID,
		"category": "musicality",
		"score":    6,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d for second category, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	scores, err = repository.NewVoteRepository(db).ListJudgeScores(event.ID, judge.ID)
	if err != nil {
		t.Fatalf("failed to list ballot: %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("expected two rows across categories, got %d", len(scores))
	}
}

func TestSubmitJudgeScoreRejectsInvalidBallot(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusVoting)
	judge := seedJudge(t, db)
	router := newJudgeRouter(db, judge)
	scoreURL := fmt.Sprintf("/api/events/%d/judge-scores", event.ID)

	rr := postJSON(t, router, scoreURL, map[string]interface{}{
		"band_id":  bands[0].ID,
		"category": "stage_diving",
		"score":    5,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected %d for unknown category, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}

	rr = postJSON(t, router, scoreURL, map[string]interface{}{
		"band_id":  bands[0].ID,
		"category": "performance",
		"score":    12,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected %d for out-of-range score, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestGetTalliesUnknownEventReturns404(t *testing.T) {
	db := setupTestDB(t)
	router := newVoteRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/api/events/9999/votes", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d for unknown event, got %d: %s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}

func TestFingerprintIsHashedBeforeStorage(t *testing.T) {
	db := setupTestDB(t)
	event, bands := seedVotingEvent(t, db, database.EventStatusVoting)
	router := newVoteRouter(db)

	raw := "very-identifying-browser-string"
	rr := postJSON(t, router, fmt.Sprintf("/api/events/%d/votes", event.ID), map[string]interface{}{
		"band_id":     bands[0].ID,
		"fingerprint": raw,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, rr.Code)
	}

	var vote models.Vote
	if err := db.First(&vote).Error; err != nil {
		t.Fatalf("failed to load stored vote: %v", err)
	}
	if vote.Fingerprint == raw {
		t.Error("raw fingerprint must not be stored")
	}
	if len(vote.Fingerprint) != 64 {
		t.Errorf("expected 64-char hex digest, got %q", vote.Fingerprint)
	}
}
