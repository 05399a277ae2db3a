package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ConsoleTelemetry measures requests served by the local console
type ConsoleTelemetry struct {
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

func NewConsoleTelemetry() (*ConsoleTelemetry, error) {
	meter := otel.Meter(meterName)
	t := &ConsoleTelemetry{}

	var err error
	t.requestCounter, err = meter.Int64Counter(
		"backoffice_console_requests_total",
		metric.WithDescription("Total number of console requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create console request counter: %w", err)
	}

	t.durationHistogram, err = meter.Float64Histogram(
		"backoffice_console_request_duration_seconds",
		metric.WithDescription("Duration of console requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create console duration histogram: %w", err)
	}

	return t, nil
}

// Middleware records count and duration per route template
func (t *ConsoleTelemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", routeTemplate(r)),
			attribute.Int("status_code", wrapper.statusCode),
		)
		t.requestCounter.Add(r.Context(), 1, attrs)
		t.durationHistogram.Record(r.Context(), duration.Seconds(), attrs)

		slog.Debug("Console request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", wrapper.statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

// routeTemplate returns the matched mux template so ids stay out of the labels
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
