package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

const jwtExpirationHours = 24

type AuthHandler struct {
	UserRepo       repository.UserRepositoryInterface
	InviteCodeRepo repository.InviteCodeRepositoryInterface
	JWTSecret      []byte
}

func NewAuthHandler(userRepo repository.UserRepositoryInterface, inviteCodeRepo repository.InviteCodeRepositoryInterface, jwtSecret string) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, InviteCodeRepo: inviteCodeRepo, JWTSecret: []byte(jwtSecret)}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) issueToken(user *models.User) (string, time.Time, error) {
	expirationTime := time.Now().Add(jwtExpirationHours * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "battletechbands",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.JWTSecret)
	return tokenString, expirationTime, err
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	if !user.CheckPassword(payload.Password) {
		writeAPIError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	tokenString, expirationTime, err := h.issueToken(user)
	if err != nil {
		logrus.Errorf("auth: failed to sign token for user %d: %v", user.ID, err)
		writeAPIError(w, http.StatusInternalServerError, "token_error", "failed to generate token")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

type RegisterPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	InviteCode  string `json:"invite_code"`
}

// Register creates a judge account from an invite code. Admin accounts are
// provisioned out of band.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.InviteCode == "" {
		writeAPIError(w, http.StatusBadRequest, "missing_fields", "username, password, and invite code are required")
		return
	}

	inviteCode, err := h.InviteCodeRepo.GetByCode(payload.InviteCode)
	if err != nil {
		writeAPIError(w, http.StatusForbidden, "invalid_invite", "invalid or expired invite code")
		return
	}
	if !inviteCode.IsValid() {
		writeAPIError(w, http.StatusForbidden, "invalid_invite", "invite code is expired, inactive, or used up")
		return
	}

	if _, err := h.UserRepo.GetByUsername(payload.Username); err == nil {
		writeAPIError(w, http.StatusConflict, "username_taken", "username is already in use")
		return
	} else if err != gorm.ErrRecordNotFound {
		logrus.Errorf("auth: failed to check username %s: %v", payload.Username, err)
	}

	newUser := &models.User{
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
		IsJudge:     true,
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "hash_error", "failed to hash password")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		logrus.Errorf("auth: failed to create user %s: %v", payload.Username, err)
		writeAPIError(w, http.StatusInternalServerError, "create_error", "failed to create user")
		return
	}

	if err := h.InviteCodeRepo.IncrementUses(inviteCode.ID); err != nil {
		logrus.Errorf("auth: failed to increment uses for invite code %d: %v", inviteCode.ID, err)
	}

	tokenString, expirationTime, err := h.issueToken(newUser)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "token_error", "failed to generate token")
		return
	}

	userForResponse := *newUser
	userForResponse.PasswordHash = ""

	writeJSON(w, http.StatusCreated, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

// Me returns the authenticated user from the request context
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		writeAPIError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}
