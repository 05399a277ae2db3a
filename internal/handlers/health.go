package handlers

import (
	"net/http"

	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/store"
)

// HealthHandler reports whether the console is up and what it last heard from the backend
type HealthHandler struct {
	auth  middleware.Authenticator
	store *store.Store
}

func NewHealthHandler(auth middleware.Authenticator, s *store.Store) *HealthHandler {
	return &HealthHandler{auth: auth, store: s}
}

type healthResponse struct {
	Status        string                   `json:"status"`
	Authenticated bool                     `json:"authenticated"`
	Collections   []store.CollectionStatus `json:"collections"`
}

// Health handles GET /health. A collection whose last request failed marks the console degraded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:        "healthy",
		Authenticated: h.auth.Authenticated(),
		Collections:   h.store.Status(),
	}
	for _, collection := range response.Collections {
		if collection.Error != "" {
			response.Status = "degraded"
			break
		}
	}
	writeJSONResponse(w, http.StatusOK, response)
}
