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

type PhotographerHandler struct {
	PhotographerRepo repository.PhotographerRepositoryInterface
}

func NewPhotographerHandler(photographerRepo repository.PhotographerRepositoryInterface) *PhotographerHandler {
	return &PhotographerHandler{PhotographerRepo: photographerRepo}
}

func (h *PhotographerHandler) CreatePhotographer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name"`
		Website   *string `json:"website"`
		Instagram *string `json:"instagram"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	photographer := &models.Photographer{Name: req.Name, Website: req.Website, Instagram: req.Instagram}
	if err := h.PhotographerRepo.Create(photographer); err != nil {
		logrus.Errorf("failed to create photographer %s: %v", req.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create photographer"})
		return
	}
	writeJSON(w, http.StatusCreated, photographer)
}

func (h *PhotographerHandler) ListPhotographers(w http.ResponseWriter, r *http.Request) {
	photographers, err := h.PhotographerRepo.ListAll()
	if err != nil {
		logrus.Errorf("failed to list photographers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list photographers"})
		return
	}
	writeJSON(w, http.StatusOK, photographers)
}

func (h *PhotographerHandler) UpdatePhotographer(w http.ResponseWriter, r *http.Request) {
	photographerID, err := parseUintParam(r, "photographerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photographer ID"})
		return
	}

	photographer, err := h.PhotographerRepo.GetByID(photographerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photographer not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get photographer"})
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Website   *string `json:"website"`
		Instagram *string `json:"instagram"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name != nil && *req.Name != "" {
		photographer.Name = *req.Name
	}
	if req.Website != nil {
		photographer.Website = req.Website
	}
	if req.Instagram != nil {
		photographer.Instagram = req.Instagram
	}

	if err := h.PhotographerRepo.Update(photographer); err != nil {
		logrus.Errorf("failed to update photographer %d: %v", photographerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update photographer"})
		return
	}
	writeJSON(w, http.StatusOK, photographer)
}

func (h *PhotographerHandler) DeletePhotographer(w http.ResponseWriter, r *http.Request) {
	photographerID, err := parseUintParam(r, "photographerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photographer ID"})
		return
	}

	if err := h.PhotographerRepo.Delete(photographerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photographer not found"})
			return
		}
		logrus.Errorf("failed to delete photographer %d: %v", photographerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete photographer"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
