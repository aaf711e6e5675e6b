package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

type SetlistHandler struct {
	SetlistRepo repository.SetlistRepositoryInterface
	BandRepo    repository.BandRepositoryInterface
}

func NewSetlistHandler(setlistRepo repository.SetlistRepositoryInterface, bandRepo repository.BandRepositoryInterface) *SetlistHandler {
	return &SetlistHandler{SetlistRepo: setlistRepo, BandRepo: bandRepo}
}

func (h *SetlistHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	bandID, err := parseUintParam(r, "bandID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band ID"})
		return
	}
	if _, err := h.BandRepo.GetByID(bandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Band not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify band"})
		return
	}

	var req struct {
		Title           string  `json:"title"`
		Artist          *string `json:"artist"`
		Position        int     `json:"position"`
		DurationSeconds *int    `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: title"})
		return
	}

	song := &models.SetlistSong{
		BandID:          bandID,
		Title:           req.Title,
		Artist:          req.Artist,
		Position:        req.Position,
		DurationSeconds: req.DurationSeconds,
	}
	if err := h.SetlistRepo.Add(song); err != nil {
		logrus.Errorf("failed to add setlist song for band %d: %v", bandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add song"})
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (h *SetlistHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	bandID, err := parseUintParam(r, "bandID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band ID"})
		return
	}

	songs, err := h.SetlistRepo.ListByBand(bandID)
	if err != nil {
		logrus.Errorf("failed to list setlist for band %d: %v", bandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list setlist"})
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *SetlistHandler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	songID, err := parseUintParam(r, "songID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid song ID"})
		return
	}

	if err := h.SetlistRepo.Delete(songID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Song not found"})
			return
		}
		logrus.Errorf("failed to delete setlist song %d: %v", songID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete song"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
