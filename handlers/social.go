package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/social"
)

type SocialHandler struct {
	SocialRepo repository.SocialRepositoryInterface
	EventRepo  repository.EventRepositoryInterface
	ResultRepo repository.ResultRepositoryInterface
	Service    *social.Service
}

func NewSocialHandler(socialRepo repository.SocialRepositoryInterface, eventRepo repository.EventRepositoryInterface, resultRepo repository.ResultRepositoryInterface, service *social.Service) *SocialHandler {
	return &SocialHandler{SocialRepo: socialRepo, EventRepo: eventRepo, ResultRepo: resultRepo, Service: service}
}

func (h *SocialHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform    string `json:"platform"`
		Handle      string `json:"handle"`
		Endpoint    string `json:"endpoint"`
		AccessToken string `json:"access_token"`
		Enabled     *bool  `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Platform == "" || req.Handle == "" || req.Endpoint == "" || req.AccessToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields: platform, handle, endpoint, access_token"})
		return
	}

	account := &models.SocialAccount{
		Platform:    req.Platform,
		Handle:      req.Handle,
		Endpoint:    req.Endpoint,
		AccessToken: req.AccessToken,
		Enabled:     true,
	}
	if req.Enabled != nil {
		account.Enabled = *req.Enabled
	}
	if err := h.SocialRepo.CreateAccount(account); err != nil {
		logrus.Errorf("failed to create social account: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *SocialHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.SocialRepo.ListAccounts(false)
	if err != nil {
		logrus.Errorf("failed to list social accounts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list accounts"})
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *SocialHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseUintParam(r, "accountID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid account ID"})
		return
	}

	account, err := h.SocialRepo.GetAccountByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Account not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get account"})
		return
	}

	var req struct {
		Platform    *string `json:"platform"`
		Handle      *string `json:"handle"`
		Endpoint    *string `json:"endpoint"`
		AccessToken *string `json:"access_token"`
		Enabled     *bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Platform != nil && *req.Platform != "" {
		account.Platform = *req.Platform
	}
	if req.Handle != nil && *req.Handle != "" {
		account.Handle = *req.Handle
	}
	if req.Endpoint != nil && *req.Endpoint != "" {
		account.Endpoint = *req.Endpoint
	}
	if req.AccessToken != nil && *req.AccessToken != "" {
		account.AccessToken = *req.AccessToken
	}
	if req.Enabled != nil {
		account.Enabled = *req.Enabled
	}

	if err := h.SocialRepo.UpdateAccount(account); err != nil {
		logrus.Errorf("failed to update social account %d: %v", accountID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update account"})
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *SocialHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseUintParam(r, "accountID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid account ID"})
		return
	}

	if err := h.SocialRepo.DeleteAccount(accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Account not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete account"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreatePost composes a post and delivers it to every enabled account
func (h *SocialHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body    string `json:"body"`
		EventID *uint  `json:"event_id"`
		PhotoID *uint  `json:"photo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: body"})
		return
	}

	post := &models.SocialPost{
		EventID: req.EventID,
		PhotoID: req.PhotoID,
		Body:    req.Body,
	}
	delivered, err := h.Service.CrossPost(r.Context(), post)
	if err != nil {
		logrus.Errorf("cross-post failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, delivered)
}

func (h *SocialHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.SocialRepo.ListPosts()
	if err != nil {
		logrus.Errorf("failed to list social posts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list posts"})
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// AnnounceResults cross-posts the podium for a finalized event
func (h *SocialHandler) AnnounceResults(w http.ResponseWriter, r *http.Request) {
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

	results, err := h.ResultRepo.ListByEvent(eventID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load results"})
		return
	}

	post, err := h.Service.AnnounceResults(r.Context(), event, results)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, post)
}
