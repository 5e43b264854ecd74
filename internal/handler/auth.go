package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/food-menu-pos/api/internal/auth"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/middleware"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CredentialChecker resolves a username/password pair to a role.
// Satisfied by *auth.Checker.
type CredentialChecker interface {
	Check(username, password string) string
}

// SessionStore opens and closes POS sessions.
// Satisfied by *session.Manager; narrow interface for testability.
type SessionStore interface {
	Open(role string, presets []decimal.Decimal) *session.Session
	Close(id uuid.UUID) bool
}

// TipPresetSource supplies the presets a new session picks its default tip from.
type TipPresetSource interface {
	TipPresets() []decimal.Decimal
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	checker   CredentialChecker
	sessions  SessionStore
	presets   TipPresetSource
	hub       Broadcaster
	jwtSecret string
	ttl       time.Duration
	log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(checker CredentialChecker, sessions SessionStore, presets TipPresetSource, hub Broadcaster, jwtSecret string, ttl time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		checker:   checker,
		sessions:  sessions,
		presets:   presets,
		hub:       hub,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		log:       log,
	}
}

// RegisterRoutes registers the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// RegisterSessionRoutes registers endpoints that need an authenticated session.
func (h *AuthHandler) RegisterSessionRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Handlers ---

// Login checks the fixed credentials and opens a session with an empty cart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	role := h.checker.Check(req.Username, req.Password)
	if role == enum.RoleRejected {
		h.log.Info("login rejected", zap.String("username", req.Username))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	sess := h.sessions.Open(role, h.presets.TipPresets())
	token, err := auth.GenerateToken(h.jwtSecret, sess.ID, role, h.ttl)
	if err != nil {
		h.sessions.Close(sess.ID)
		h.log.Error("generate token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.log.Info("session opened", zap.Stringer("session_id", sess.ID), zap.String("role", role))
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		SessionID: sess.ID,
		Role:      role,
		ExpiresAt: sess.ExpiresAt,
	})
}

// Logout closes the caller's session, clears its cart and disconnects its sockets.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	h.sessions.Close(sess.ID)
	h.hub.CloseSession(sess.ID)

	h.log.Info("session closed", zap.Stringer("session_id", sess.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
