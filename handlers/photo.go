package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/config"
	"github.com/battletechbands/backend/media"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/namematch"
	"github.com/battletechbands/backend/photoslug"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/workers"
)

type PhotoHandler struct {
	PhotoRepo        repository.PhotoRepositoryInterface
	EventRepo        repository.EventRepositoryInterface
	BandRepo         repository.BandRepositoryInterface
	PhotographerRepo repository.PhotographerRepositoryInterface
	Store            media.Store
	Processor        *workers.PhotoProcessor
	Cfg              config.Config
}

func NewPhotoHandler(photoRepo repository.PhotoRepositoryInterface, eventRepo repository.EventRepositoryInterface, bandRepo repository.BandRepositoryInterface, photographerRepo repository.PhotographerRepositoryInterface, store media.Store, processor *workers.PhotoProcessor, cfg config.Config) *PhotoHandler {
	return &PhotoHandler{
		PhotoRepo:        photoRepo,
		EventRepo:        eventRepo,
		BandRepo:         bandRepo,
		PhotographerRepo: photographerRepo,
		Store:            store,
		Processor:        processor,
		Cfg:              cfg,
	}
}

// matchPhotographerByName resolves an XMP creator string against known
// photographers, tolerating punctuation and case differences
func (h *PhotoHandler) matchPhotographerByName(creator string) *uint {
	if creator == "" {
		return nil
	}
	photographers, err := h.PhotographerRepo.ListAll()
	if err != nil {
		logrus.Warnf("photo upload: failed to list photographers for matching: %v", err)
		return nil
	}
	candidates := make([]namematch.Candidate, len(photographers))
	for i, p := range photographers {
		candidates[i] = namematch.Candidate{ID: p.ID, Name: p.Name}
	}
	if id, ok := namematch.BestMatch(creator, candidates); ok {
		return &id
	}
	return nil
}

// slugContext resolves slug prefix inputs from the photo's associations
func (h *PhotoHandler) slugContext(eventID, bandID, photographerID *uint) (bandName, eventSlug, photographerName string) {
	if bandID != nil {
		if band, err := h.BandRepo.GetByID(*bandID); err == nil {
			bandName = band.Name
		}
	}
	if eventID != nil {
		if event, err := h.EventRepo.GetByID(*eventID); err == nil {
			eventSlug = event.Slug
		}
	}
	if photographerID != nil {
		if photographer, err := h.PhotographerRepo.GetByID(*photographerID); err == nil {
			photographerName = photographer.Name
		}
	}
	return
}

// parseOptionalUint reads an optional form/query value as a uint pointer
func parseOptionalUint(value string) (*uint, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(parsed)
	return &id, nil
}

// UploadPhoto accepts a multipart upload, stores the original, creates the
// record with a freshly allocated slug, and queues the processing pipeline.
// XMP sidecar hints in the file auto-fill the photographer and labels.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'photo' file field"})
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "Unsupported file type: " + filepath.Ext(header.Filename)})
		return
	}

	eventID, err := parseOptionalUint(r.FormValue("event_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event_id"})
		return
	}
	bandID, err := parseOptionalUint(r.FormValue("band_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band_id"})
		return
	}
	photographerID, err := parseOptionalUint(r.FormValue("photographer_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photographer_id"})
		return
	}

	if bandID != nil {
		band, err := h.BandRepo.GetByID(*bandID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown band_id"})
			return
		}
		if eventID == nil {
			eventID = &band.EventID
		} else if band.EventID != *eventID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band does not belong to the given event"})
			return
		}
	}

	// scan for embedded XMP before the file is streamed to storage
	var labels *string
	hints, err := media.ExtractXMPHints(file)
	if err != nil {
		logrus.Debugf("photo upload: XMP scan failed for %s: %v", header.Filename, err)
	}
	if hints != nil {
		if photographerID == nil {
			photographerID = h.matchPhotographerByName(hints.Creator)
		}
		if len(hints.Keywords) > 0 {
			joined := strings.Join(hints.Keywords, ",")
			labels = &joined
		}
	}
	if _, err := file.Seek(0, 0); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to rewind upload"})
		return
	}

	assetUUID, err := uuid.NewRandom()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate asset name"})
		return
	}
	storedName := assetUUID.String() + strings.ToLower(filepath.Ext(header.Filename))

	originalPath, err := h.Store.Save(media.AssetTypeOriginal, "", storedName, file)
	if err != nil {
		logrus.Errorf("photo upload: failed to store original %s: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
		return
	}

	bandName, eventSlug, photographerName := h.slugContext(eventID, bandID, photographerID)
	prefix := photoslug.Prefix(bandName, eventSlug, photographerName)

	photo := &models.Photo{
		Filename:       header.Filename,
		OriginalPath:   originalPath,
		EventID:        eventID,
		BandID:         bandID,
		PhotographerID: photographerID,
		Labels:         labels,
	}
	if err := h.PhotoRepo.CreateWithSlug(photo, prefix); err != nil {
		logrus.Errorf("photo upload: failed to create record for %s: %v", header.Filename, err)
		if delErr := h.Store.Delete(originalPath); delErr != nil {
			logrus.Warnf("photo upload: failed to clean up orphaned original %s: %v", originalPath, delErr)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create photo record"})
		return
	}

	h.Processor.QueueAllTasks(photo.ID, photo.OriginalPath)
	writeJSON(w, http.StatusCreated, photo)
}

// GetPhoto resolves a photo by slug, falling back to numeric ID
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "photoID")

	photo, err := h.PhotoRepo.GetBySlug(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if photoID, parseErr := strconv.ParseUint(identifier, 10, 32); parseErr == nil {
			photo, err = h.PhotoRepo.GetByID(uint(photoID))
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		logrus.Errorf("failed to get photo %s: %v", identifier, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get photo"})
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// SearchPhotos filters the gallery by event, band, photographer, label, and
// monochrome flag via query parameters
func (h *PhotoHandler) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	var filters repository.PhotoSearchFilters
	var err error

	if filters.EventID, err = parseOptionalUint(r.URL.Query().Get("event_id")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event_id"})
		return
	}
	if filters.BandID, err = parseOptionalUint(r.URL.Query().Get("band_id")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid band_id"})
		return
	}
	if filters.PhotographerID, err = parseOptionalUint(r.URL.Query().Get("photographer_id")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photographer_id"})
		return
	}
	if label := r.URL.Query().Get("label"); label != "" {
		filters.Label = &label
	}
	if monoRaw := r.URL.Query().Get("monochrome"); monoRaw != "" {
		mono, parseErr := strconv.ParseBool(monoRaw)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid monochrome flag"})
			return
		}
		filters.Monochrome = &mono
	}

	photos, err := h.PhotoRepo.Search(filters)
	if err != nil {
		logrus.Errorf("photo search failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to search photos"})
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// UpdatePhotoLabels replaces the photo's label set
func (h *PhotoHandler) UpdatePhotoLabels(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	var req struct {
		Labels []string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	var labels *string
	if len(req.Labels) > 0 {
		for i := range req.Labels {
			req.Labels[i] = strings.TrimSpace(req.Labels[i])
			if req.Labels[i] == "" || strings.Contains(req.Labels[i], ",") {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Labels must be non-empty and comma-free"})
				return
			}
		}
		joined := strings.Join(req.Labels, ",")
		labels = &joined
	}

	if err := h.PhotoRepo.UpdateLabels(photoID, labels); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update labels"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"labels": req.Labels})
}

// UpdatePhotoFocalPoint sets the manual focal point used by smart crops
func (h *PhotoHandler) UpdatePhotoFocalPoint(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.PhotoRepo.UpdateFocalPoint(photoID, req.X, req.Y); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update focal point"})
		return
	}

	// crops derived from the old focal point are stale now
	photo, err := h.PhotoRepo.GetByID(photoID)
	if err == nil {
		h.Processor.QueueJob(workers.PhotoJob{
			PhotoID:      photo.ID,
			OriginalPath: photo.OriginalPath,
			TaskType:     workers.TaskIntelligence,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"x": req.X, "y": req.Y})
}

// UpdatePhotoAssociations re-links the photo to an event, band, or photographer
func (h *PhotoHandler) UpdatePhotoAssociations(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	var req struct {
		EventID        *uint `json:"event_id"`
		BandID         *uint `json:"band_id"`
		PhotographerID *uint `json:"photographer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.BandID != nil && *req.BandID != 0 {
		band, err := h.BandRepo.GetByID(*req.BandID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown band_id"})
			return
		}
		if req.EventID != nil && *req.EventID != 0 && band.EventID != *req.EventID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Band does not belong to the given event"})
			return
		}
	}

	if err := h.PhotoRepo.UpdateAssociations(photoID, req.EventID, req.BandID, req.PhotographerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update associations"})
		return
	}

	photo, err := h.PhotoRepo.GetByID(photoID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to reload photo"})
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// GetNearDuplicates lists other photos within the perceptual-hash threshold
func (h *PhotoHandler) GetNearDuplicates(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	duplicates, err := h.PhotoRepo.FindNearDuplicates(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if duplicates == nil {
		duplicates = []models.Photo{}
	}
	writeJSON(w, http.StatusOK, duplicates)
}

// DeletePhoto removes the record and all stored variants
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	photo, err := h.PhotoRepo.GetByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get photo"})
		return
	}

	if err := h.PhotoRepo.Delete(photoID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete photo"})
		return
	}

	assetPaths := []string{photo.OriginalPath}
	if photo.ThumbnailPath != nil {
		assetPaths = append(assetPaths, *photo.ThumbnailPath)
	}
	if photo.WebPath != nil {
		assetPaths = append(assetPaths, *photo.WebPath)
	}
	for _, rel := range assetPaths {
		if err := h.Store.Delete(rel); err != nil {
			logrus.Warnf("failed to delete stored asset %s for photo %d: %v", rel, photoID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
