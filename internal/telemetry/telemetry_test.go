package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeStatus(t *testing.T) {
	testCases := []struct {
		status   int
		expected string
	}{
		{0, "transport"},
		{http.StatusUnauthorized, "unauthorized"},
		{http.StatusNotFound, "not_found"},
		{http.StatusUnprocessableEntity, "bad_request"},
		{http.StatusBadGateway, "server_error"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, categorizeStatus(tc.status))
		})
	}
}

func TestBackendTelemetry_NoopProvider(t *testing.T) {
	bt, err := NewBackendTelemetry()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bt.RecordRequest(context.Background(), http.MethodGet, "products", 200, time.Millisecond, nil)
		bt.RecordRequest(context.Background(), http.MethodGet, "products", 0, time.Millisecond, errors.New("dial"))
		bt.RecordStale(context.Background(), "products", "fetch")
	})
}

func TestConsoleTelemetry_Middleware(t *testing.T) {
	ct, err := NewConsoleTelemetry()
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(ct.Middleware)
	router.HandleFunc("/api/{collection}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
