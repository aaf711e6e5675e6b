package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

type InviteCodeHandler struct {
	InviteCodeRepo repository.InviteCodeRepositoryInterface
}

func NewInviteCodeHandler(inviteCodeRepo repository.InviteCodeRepositoryInterface) *InviteCodeHandler {
	return &InviteCodeHandler{InviteCodeRepo: inviteCodeRepo}
}

// CreateInviteCode mints a judge registration code. An empty code gets a
// generated UUID.
func (h *InviteCodeHandler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	admin, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || admin == nil {
		writeAPIError(w, http.StatusInternalServerError, "context_error", "user not found in context")
		return
	}

	var req struct {
		Code      string `json:"code"`
		ExpiresIn *int64 `json:"expires_in_seconds"`
		MaxUses   *int   `json:"max_uses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	inviteCode := &models.InviteCode{
		Code:            req.Code,
		MaxUses:         req.MaxUses,
		IsActive:        true,
		CreatedByUserID: admin.ID,
	}
	if req.ExpiresIn != nil && *req.ExpiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(*req.ExpiresIn) * time.Second)
		inviteCode.ExpiresAt = &expiresAt
	}

	if err := h.InviteCodeRepo.Create(inviteCode); err != nil {
		logrus.Errorf("failed to create invite code: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create invite code"})
		return
	}
	writeJSON(w, http.StatusCreated, inviteCode)
}

func (h *InviteCodeHandler) ListInviteCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.InviteCodeRepo.ListAll()
	if err != nil {
		logrus.Errorf("failed to list invite codes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list invite codes"})
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (h *InviteCodeHandler) DeleteInviteCode(w http.ResponseWriter, r *http.Request) {
	codeID, err := parseUintParam(r, "codeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid invite code ID"})
		return
	}

	if err := h.InviteCodeRepo.Delete(codeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Invite code not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete invite code"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
