package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pos-backoffice/internal/models"
	"pos-backoffice/internal/session"
)

// SessionHandler exposes login, logout and profile of the session gate
type SessionHandler struct {
	gate   *session.Gate
	logger *slog.Logger
}

func NewSessionHandler(gate *session.Gate, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{gate: gate, logger: logger}
}

// Status handles GET /api/session
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.gate.Status())
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", invalidJSONMessage, nil)
		return
	}

	if _, err := h.gate.Login(r.Context(), req.Username, req.Password); err != nil {
		writeFailure(w, err, h.gate.Status().Error)
		return
	}

	writeJSONResponse(w, http.StatusOK, h.gate.Status())
}

// Logout handles POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context()); err != nil {
		h.logger.Error("Logout failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Error cerrando sesión", nil)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.gate.Status())
}

// Profile handles POST /api/session/profile
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.gate.RefreshProfile(r.Context())
	if err != nil {
		writeFailure(w, err, h.gate.Status().Error)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}
