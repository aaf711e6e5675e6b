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

type BandHandler struct {
	BandRepo  repository.BandRepositoryInterface
	EventRepo repository.EventRepositoryInterface
}

func NewBandHandler(bandRepo repository.BandRepositoryInterface, eventRepo repository.EventRepositoryInterface) *BandHandler {
	return &BandHandler{BandRepo: bandRepo, EventRepo: eventRepo}
}

func (h *BandHandler) CreateBand(w http.ResponseWriter, r *http.Request) {
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
		Name      string  `json:"name"`
		CompanyID *uint   `json:"company_id"`
		Tagline   *string `json:"tagline"`
		Members   *string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	band := &models.Band{
		EventID:   eventID,
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Tagline:   req.Tagline,
		Members:   req.Members,
	}
	if err := h.BandRepo.Create(band); err != nil {
		logrus.Errorf("failed to create band %s for event %d: %v", req.Name, eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create band"})
		return
	}
	writeJSON(w, http.StatusCreated, band)
}

func (h *BandHandler) ListBands(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUintParam(r, "eventID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
		return
	}

	bands, err := h.BandRepo.ListByEvent(eventID)
	if err != nil {
		logrus.Errorf("failed to list bands for event %d: %v", eventID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list bands"})
		return
	}
	writeJSON(w, http.StatusOK, bands)
}

func (h *BandHandler) GetBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := parseUintParam(r, "bandID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band ID"})
		return
	}

	band, err := h.BandRepo.GetByID(bandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Band not found"})
			return
		}
		logrus.Errorf("failed to get band %d: %v", bandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get band"})
		return
	}
	writeJSON(w, http.StatusOK, band)
}

func (h *BandHandler) UpdateBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := parseUintParam(r, "bandID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band ID"})
		return
	}

	var req struct {
		Name      *string `json:"name"`
		CompanyID *uint   `json:"company_id"`
		Tagline   *string `json:"tagline"`
		Members   *string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.BandRepo.Update(bandID, req.Name, req.CompanyID, req.Tagline, req.Members); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Band not found"})
			return
		}
		logrus.Errorf("failed to update band %d: %v", bandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update band"})
		return
	}

	band, err := h.BandRepo.GetByID(bandID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to reload band"})
		return
	}
	writeJSON(w, http.StatusOK, band)
}

func (h *BandHandler) DeleteBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := parseUintParam(r, "bandID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band ID"})
		return
	}

	if err := h.BandRepo.Delete(bandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Band not found"})
			return
		}
		logrus.Errorf("failed to delete band %d: %v", bandID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete band"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
