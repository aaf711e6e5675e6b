package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/scoring"
)

func newEventRouter(db *gorm.DB) http.Handler {
	eventHandler := NewEventHandler(repository.NewEventRepository(db))
	r := chi.NewRouter()
	r.Post("/api/events", eventHandler.CreateEvent)
	return r
}

func TestCreateEventValidatesScoringVersion(t *testing.T) {
	db := setupTestDB(t)
	router := newEventRouter(db)

	// a bogus tag would make every ballot for the event unscorable
	rr := postJSON(t, router, "/api/events", map[string]interface{}{
		"name":            "Battle Hamburg",
		"city":            "Hamburg",
		"year":            2025,
		"scoring_version": "2019",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d for unknown scoring version, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}

	rr = postJSON(t, router, "/api/events", map[string]interface{}{
		"name":            "Battle Hamburg",
		"city":            "Hamburg",
		"year":            2025,
		"scoring_version": "2024",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d for known scoring version, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestCreateEventDefaultsScoringVersion(t *testing.T) {
	db := setupTestDB(t)
	router := newEventRouter(db)

	rr := postJSON(t, router, "/api/events", map[string]interface{}{
		"name": "Battle Cologne",
		"city": "Cologne",
		"year": 2025,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	event, err := repository.NewEventRepository(db).GetBySlug("battle-cologne")
	if err != nil {
		t.Fatalf("failed to load created event: %v", err)
	}
	if event.ScoringVersion != scoring.DefaultVersionTag {
		t.Errorf("scoring version = %q, want default %q", event.ScoringVersion, scoring.DefaultVersionTag)
	}
}
