package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/realtime"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/scoring"
)

type VoteHandler struct {
	VoteRepo  repository.VoteRepositoryInterface
	EventRepo repository.EventRepositoryInterface
	BandRepo  repository.BandRepositoryInterface
	Hub       *realtime.Hub
}

func NewVoteHandler(voteRepo repository.VoteRepositoryInterface, eventRepo repository.EventRepositoryInterface, bandRepo repository.BandRepositoryInterface, hub *realtime.Hub) *VoteHandler {
	return &VoteHandler{VoteRepo: voteRepo, EventRepo: eventRepo, BandRepo: bandRepo, Hub: hub}
}

// hashFingerprint normalizes the browser fingerprint before storage so the
// raw identifying value never hits the database
func hashFingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// requireVotingEvent loads the event and checks it accepts ballots
func (h *VoteHandler) requireVotingEvent(w http.ResponseWriter, eventID uint) (*models.Event, bool) {
	event, err := h.EventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load event"})
		return nil, false
	}
	if event.Status != database.EventStatusVoting {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Event is not accepting votes"})
		return nil, false
	}
	return event, true
}

// CastVote records one crowd vote per browser fingerprint per event
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	var req struct {
		BandID      uint   `json:"band_id"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.BandID == 0 || req.Fingerprint == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields: band_id and fingerprint"})
		return
	}

	event, ok := h.requireVotingEvent(w, eventID)
	if !ok {
		return
	}

	band, err := h.BandRepo.GetByID(req.BandID)
	if err != nil || band.EventID != event.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band is not competing in this event"})
		return
	}

	vote := &models.Vote{
		EventID:     eventID,
		BandID:      req.BandID,
		Fingerprint: hashFingerprint(req.Fingerprint),
	}
	if err := h.VoteRepo.CreateCrowdVote(vote); err != nil {
		if isDuplicateErr(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "A vote from this device has already been counted"})
			return
		}
		logrus.Errorf("failed to record vote for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record vote"})
		return
	}

	h.broadcastTallies(eventID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"band_id": req.BandID})
}

func (h *VoteHandler) broadcastTallies(eventID uint) {
	if h.Hub == nil {
		return
	}
	tallies, err := h.VoteRepo.CountVotesByBand(eventID)
	if err != nil {
		logrus.Warnf("failed to tally votes for broadcast, event %d: %v", eventID, err)
		return
	}
	h.Hub.Broadcast(realtime.Event{
		Type:      realtime.EventVoteTally,
		EventID:   eventID,
		Tallies:   tallies,
		Timestamp: time.Now().Unix(),
	})
}

// GetTallies returns the live vote counts per band
func (h *VoteHandler) GetTallies(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	if _, err := h.EventRepo.GetByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to load event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load event"})
		return
	}

	tallies, err := h.VoteRepo.CountVotesByBand(eventID)
	if err != nil {
		logrus.Errorf("failed to tally votes for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to tally votes"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"event_id": eventID, "tallies": tallies})
}

// SubmitJudgeScore records one category score on the authenticated judge's ballot
func (h *VoteHandler) SubmitJudgeScore(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	judge, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || judge == nil {
		writeAPIError(w, http.StatusInternalServerError, "context_error", "user not found in context")
		return
	}

	var req struct {
		BandID   uint    `json:"band_id"`
		Category string  `json:"category"`
		Score    float64 `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	event, ok := h.requireVotingEvent(w, eventID)
	if !ok {
		return
	}

	version, err := scoring.LookupVersion(event.ScoringVersion)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !version.KnownCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown scoring category: " + req.Category})
		return
	}
	if req.Score < 0 || req.Score > 10 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Score must be between 0 and 10"})
		return
	}

	band, err := h.BandRepo.GetByID(req.BandID)
	if err != nil || band.EventID != event.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band is not competing in this event"})
		return
	}

	score := &models.JudgeScore{
		EventID:  eventID,
		BandID:   req.BandID,
		JudgeID:  judge.ID,
		Category: req.Category,
		Score:    req.Score,
	}
	if err := h.VoteRepo.UpsertJudgeScore(score); err != nil {
		logrus.Errorf("failed to record judge score for band %d: %v", req.BandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record score"})
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// GetMyBallot returns everything the authenticated judge has scored for an event
func (h *VoteHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	judge, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || judge == nil {
		writeAPIError(w, http.StatusInternalServerError, "context_error", "user not found in context")
		return
	}

	scores, err := h.VoteRepo.ListJudgeScores(eventID, judge.ID)
	if err != nil {
		logrus.Errorf("failed to list ballot for judge %d: %v", judge.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load ballot"})
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// SubmitCrowdNoise stores a decibel reading for a band, replacing any prior reading
func (h *VoteHandler) SubmitCrowdNoise(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	var req struct {
		BandID   uint    `json:"band_id"`
		Decibels float64 `json:"decibels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Decibels <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Decibels must be positive"})
		return
	}

	event, ok := h.requireVotingEvent(w, eventID)
	if !ok {
		return
	}

	band, err := h.BandRepo.GetByID(req.BandID)
	if err != nil || band.EventID != event.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band is not competing in this event"})
		return
	}

	measurement := &models.CrowdNoiseMeasurement{
		EventID:  eventID,
		BandID:   req.BandID,
		Decibels: req.Decibels,
	}
	if err := h.VoteRepo.ReplaceCrowdNoise(measurement); err != nil {
		logrus.Errorf("failed to store crowd noise for band %d: %v", req.BandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store measurement"})
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{
			Type:      realtime.EventCrowdNoise,
			EventID:   eventID,
			BandID:    req.BandID,
			Extra:     map[string]interface{}{"decibels": req.Decibels},
			Timestamp: time.Now().Unix(),
		})
	}
	writeJSON(w, http.StatusOK, measurement)
}

// ListCrowdNoise returns all noise readings for an event
func (h *VoteHandler) ListCrowdNoise(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	if _, err := h.EventRepo.GetByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to load event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load event"})
		return
	}

	measurements, err := h.VoteRepo.ListCrowdNoise(eventID)
	if err != nil {
		logrus.Errorf("failed to list crowd noise for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list measurements"})
		return
	}
	writeJSON(w, http.StatusOK, measurements)
}
