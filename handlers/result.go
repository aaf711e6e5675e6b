package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/realtime"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/scoring"
)

type ResultHandler struct {
	ResultRepo repository.ResultRepositoryInterface
	EventRepo  repository.EventRepositoryInterface
	VoteRepo   repository.VoteRepositoryInterface
	Finalizer  *scoring.Finalizer
	Hub        *realtime.Hub
}

func NewResultHandler(resultRepo repository.ResultRepositoryInterface, eventRepo repository.EventRepositoryInterface, voteRepo repository.VoteRepositoryInterface, finalizer *scoring.Finalizer, hub *realtime.Hub) *ResultHandler {
	return &ResultHandler{ResultRepo: resultRepo, EventRepo: eventRepo, VoteRepo: voteRepo, Finalizer: finalizer, Hub: hub}
}

// FinalizeEvent computes and persists the ranking snapshot, closing voting
func (h *ResultHandler) FinalizeEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	results, err := h.Finalizer.FinalizeEvent(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to finalize event %d: %v", eventID, err)
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{
			Type:      realtime.EventFinalized,
			EventID:   eventID,
			Timestamp: time.Now().Unix(),
		})
	}
	writeJSON(w, http.StatusOK, results)
}

// ListResults returns the finalized ranking alongside the crowd-noise
// readings shown on the results page
func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	event, err := h.EventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load event"})
		return
	}
	if event.Status != database.EventStatusFinalized {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Event has not been finalized"})
		return
	}

	results, err := h.ResultRepo.ListByEvent(eventID)
	if err != nil {
		logrus.Errorf("failed to list results for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list results"})
		return
	}

	crowdNoise, err := h.VoteRepo.ListCrowdNoise(eventID)
	if err != nil {
		logrus.Warnf("failed to list crowd noise for event %d: %v", eventID, err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":       event,
		"results":     results,
		"crowd_noise": crowdNoise,
	})
}
