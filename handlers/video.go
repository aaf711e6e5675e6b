package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

var youtubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractYouTubeID accepts a bare video ID or any of the common YouTube URL
// shapes and returns the canonical 11-character ID.
func ExtractYouTubeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if youtubeIDRe.MatchString(raw) {
		return raw, true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		return id, youtubeIDRe.MatchString(id)
	case "youtube.com", "m.youtube.com":
		if strings.HasPrefix(parsed.Path, "/watch") {
			id := parsed.Query().Get("v")
			return id, youtubeIDRe.MatchString(id)
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(parsed.Path, prefix), "/")
				return id, youtubeIDRe.MatchString(id)
			}
		}
	}
	return "", false
}

type VideoHandler struct {
	VideoRepo repository.VideoRepositoryInterface
	EventRepo repository.EventRepositoryInterface
	BandRepo  repository.BandRepositoryInterface
}

func NewVideoHandler(videoRepo repository.VideoRepositoryInterface, eventRepo repository.EventRepositoryInterface, bandRepo repository.BandRepositoryInterface) *VideoHandler {
	return &VideoHandler{VideoRepo: videoRepo, EventRepo: eventRepo, BandRepo: bandRepo}
}

func (h *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
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
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify event"})
		return
	}

	var req struct {
		YouTubeURL string `json:"youtube_url"`
		Title      string `json:"title"`
		BandID     *uint  `json:"band_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	youtubeID, ok := ExtractYouTubeID(req.YouTubeURL)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not extract a YouTube video ID from: " + req.YouTubeURL})
		return
	}

	if req.BandID != nil {
		band, err := h.BandRepo.GetByID(*req.BandID)
		if err != nil || band.EventID != eventID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band is not competing in this event"})
			return
		}
	}

	if existing, err := h.VideoRepo.GetByYouTubeID(youtubeID); err == nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"error": "Video already registered", "video": existing})
		return
	}

	video := &models.Video{
		EventID:   eventID,
		BandID:    req.BandID,
		YouTubeID: youtubeID,
		Title:     req.Title,
	}
	if video.Title == "" {
		video.Title = youtubeID
	}
	if err := h.VideoRepo.Create(video); err != nil {
		logrus.Errorf("failed to create video %s: %v", youtubeID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create video"})
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	videos, err := h.VideoRepo.ListByEvent(eventID)
	if err != nil {
		logrus.Errorf("failed to list videos for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list videos"})
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseUintParam(r, "videoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid video ID"})
		return
	}

	video, err := h.VideoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get video"})
		return
	}

	var req struct {
		Title  *string `json:"title"`
		BandID *uint   `json:"band_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Title != nil && *req.Title != "" {
		video.Title = *req.Title
	}
	if req.BandID != nil {
		if *req.BandID == 0 {
			video.BandID = nil
		} else {
			band, err := h.BandRepo.GetByID(*req.BandID)
			if err != nil || band.EventID != video.EventID {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band is not competing in this event"})
				return
			}
			video.BandID = req.BandID
		}
	}

	if err := h.VideoRepo.Update(video); err != nil {
		logrus.Errorf("failed to update video %d: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update video"})
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseUintParam(r, "videoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid video ID"})
		return
	}

	if err := h.VideoRepo.Delete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
			return
		}
		logrus.Errorf("failed to delete video %d: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete video"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
