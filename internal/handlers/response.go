package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pos-backoffice/internal/client"
	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/models"
	"pos-backoffice/internal/session"
)

const (
	unauthenticatedMessage = "Sesión no iniciada"
	invalidJSONMessage     = "Invalid JSON"
)

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
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

// writeFailure maps err to a status code. fallback is the message used when
// the backend sent none.
func writeFailure(w http.ResponseWriter, err error, fallback string) {
	var validation models.ValidationErrors
	var remote *client.RemoteError

	switch {
	case errors.As(err, &validation):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "validation_failed", "Datos inválidos", validation.Details())
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, session.ErrUnauthenticated):
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", client.MessageOr(err, unauthenticatedMessage), nil)
	case errors.Is(err, client.ErrOperationNotSupported):
		writeErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", err.Error(), nil)
	case errors.Is(err, draft.ErrOrderNotFound):
		writeErrorResponse(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, draft.ErrLastLineItem),
		errors.Is(err, draft.ErrIndexOutOfRange),
		errors.Is(err, draft.ErrShippingNotApplicable),
		errors.Is(err, draft.ErrWrongKind),
		errors.Is(err, draft.ErrUnknownMessage):
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
	case errors.As(err, &remote):
		status := http.StatusBadGateway
		if remote.StatusCode >= 400 && remote.StatusCode < 500 {
			status = remote.StatusCode
		}
		writeErrorResponse(w, status, "backend_error", client.MessageOr(err, fallback), nil)
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
