package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkrentals/backoffice/internal/model"
	"github.com/mkrentals/backoffice/internal/service"
)

// AuthHandler serves the login, logout, and current-session endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionManager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Login verifies credentials and sets the session cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, "Username and password are required")
		return
	}

	admin, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, model.CodeInvalidCredentials, "Invalid username or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, model.CodeInternalError, "An error occurred during login")
		return
	}

	h.sessions.Create(w, token)
	writeJSON(w, http.StatusOK, model.LoginResponse{
		Success: true,
		Admin:   admin.Summary(),
	})
}

// Logout deletes the session cookie. Tokens are stateless, so a copy of the
// token kept elsewhere stays valid until it expires.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// Me returns the admin behind the current session.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := h.sessions.RequireAuth(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, model.CodeUnauthorized, "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, model.MeResponse{Admin: claims.Admin()})
}
