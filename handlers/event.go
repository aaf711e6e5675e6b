package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/photoslug"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/scoring"
)

type EventHandler struct {
	EventRepo repository.EventRepositoryInterface
}

func NewEventHandler(eventRepo repository.EventRepositoryInterface) *EventHandler {
	return &EventHandler{EventRepo: eventRepo}
}

// getEventByIdentifier resolves an event by numeric ID or by slug
func (h *EventHandler) getEventByIdentifier(identifier string) (*models.Event, error) {
	if eventID, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		event, err := h.EventRepo.GetByID(uint(eventID))
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return h.EventRepo.GetBySlug(identifier)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		Slug           string `json:"slug"`
		City           string `json:"city"`
		Year           int    `json:"year"`
		Venue          string `json:"venue"`
		Date           *int64 `json:"date"`
		ScoringVersion string `json:"scoring_version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Name == "" || req.City == "" || req.Year == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields: name, city, and year"})
		return
	}
	if req.Slug == "" {
		req.Slug = photoslug.Slugify(req.Name)
	}
	if strings.ContainsAny(req.Slug, " /\\?%*:|\"<>") || strings.TrimSpace(req.Slug) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid slug format. Use URL-safe characters without spaces."})
		return
	}
	// an unknown version tag would make every judge ballot unscorable
	if req.ScoringVersion != "" {
		if _, err := scoring.LookupVersion(req.ScoringVersion); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown scoring version: " + req.ScoringVersion})
			return
		}
	}

	event := &models.Event{
		Name:           req.Name,
		Slug:           req.Slug,
		City:           req.City,
		Year:           req.Year,
		Date:           req.Date,
		ScoringVersion: req.ScoringVersion,
	}
	if req.Venue != "" {
		event.Venue = &req.Venue
	}

	if err := h.EventRepo.Create(event); err != nil {
		logrus.Errorf("failed to create event %s: %v", req.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create event"})
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.EventRepo.ListAll()
	if err != nil {
		logrus.Errorf("failed to list events: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list events"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "eventID")
	event, err := h.getEventByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to get event %s: %v", identifier, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get event"})
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	var req struct {
		Name  *string `json:"name"`
		City  *string `json:"city"`
		Year  *int    `json:"year"`
		Venue *string `json:"venue"`
		Date  *int64  `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.EventRepo.Update(eventID, req.Name, req.City, req.Year, req.Venue, req.Date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to update event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update event"})
		return
	}

	event, err := h.EventRepo.GetByID(eventID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to reload event"})
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEventStatus moves an event through its voting lifecycle
func (h *EventHandler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.EventRepo.UpdateStatus(eventID, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	if err := h.EventRepo.Delete(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		logrus.Errorf("failed to delete event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete event"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
