package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pos-backoffice/internal/models"
)

// Authenticator reports whether a live session exists; *session.Gate satisfies it
type Authenticator interface {
	Authenticated() bool
}

// RequireSession rejects requests with 401 while no live session is held
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticated() {
				slog.Warn("Rejected request without session", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Sesión no iniciada", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
