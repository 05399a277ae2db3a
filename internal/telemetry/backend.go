package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BackendTelemetry measures calls made to the REST backend and stale responses dropped by repositories
type BackendTelemetry struct {
	requestCounter    metric.Int64Counter
	errorCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram
	staleCounter      metric.Int64Counter
}

// NewBackendTelemetry creates the instruments on the global meter provider.
// Before InitMetrics runs that provider is a no-op, which keeps tests quiet.
func NewBackendTelemetry() (*BackendTelemetry, error) {
	meter := otel.Meter(meterName)
	t := &BackendTelemetry{}

	var err error
	t.requestCounter, err = meter.Int64Counter(
		"backoffice_backend_requests_total",
		metric.WithDescription("Total number of requests sent to the backend"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	t.errorCounter, err = meter.Int64Counter(
		"backoffice_backend_errors_total",
		metric.WithDescription("Total number of failed backend requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	t.durationHistogram, err = meter.Float64Histogram(
		"backoffice_backend_request_duration_seconds",
		metric.WithDescription("Duration of backend requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	t.staleCounter, err = meter.Int64Counter(
		"backoffice_stale_responses_total",
		metric.WithDescription("Responses discarded because a newer one was already applied"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stale response counter: %w", err)
	}

	return t, nil
}

// RecordRequest records one backend round trip. statusCode is 0 on transport failure.
func (t *BackendTelemetry) RecordRequest(ctx context.Context, method, resource string, statusCode int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("resource", resource),
		attribute.Int("status_code", statusCode),
	}

	t.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.durationHistogram.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		errAttrs := append(attrs, attribute.String("error_type", categorizeStatus(statusCode)))
		t.errorCounter.Add(ctx, 1, metric.WithAttributes(errAttrs...))

		slog.Debug("Recorded backend request error",
			"method", method,
			"resource", resource,
			"status_code", statusCode,
			"error", err,
		)
	}
}

// RecordStale counts a discarded out-of-order response
func (t *BackendTelemetry) RecordStale(ctx context.Context, collection, operation string) {
	t.staleCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("operation", operation),
	))
}

// categorizeStatus groups failures to keep cardinality low
func categorizeStatus(statusCode int) string {
	switch {
	case statusCode == 0:
		return "transport"
	case statusCode == http.StatusUnauthorized:
		return "unauthorized"
	case statusCode == http.StatusForbidden:
		return "forbidden"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusConflict:
		return "conflict"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "bad_request"
	default:
		return "other"
	}
}
