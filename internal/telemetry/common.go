package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

const (
	ExporterScraper = "scraper"
	ExporterGRPC    = "grpc"
	ExporterNone    = "none"

	scrapeAddr = ":9080"
	meterName  = "pos-backoffice"
)

// Telemetry owns the meter provider and, for the scraper exporter, the metrics server
type Telemetry struct {
	server   *http.Server
	Provider *metric.MeterProvider
	meter    api.Meter
}

var once sync.Once

// InitMetrics installs the global meter provider once. "scraper" serves
// localhost:9080/metrics, "none" keeps the no-op provider, anything else
// pushes over OTLP gRPC to OTEL_EXPORTER_OTLP_METRICS_ENDPOINT.
func InitMetrics(ctx context.Context, exporter string) *Telemetry {
	t := &Telemetry{}

	once.Do(func() {
		switch exporter {
		case ExporterNone:
			slog.Info("Metrics export disabled")
		case ExporterScraper:
			slog.Info("Starting metrics with scraper exporter")
			t.initScrapeMetrics()
		default:
			slog.Info("Starting metrics with grpc exporter")
			t.initGRPCMetrics(ctx)
		}
	})

	return t
}

// Close flushes pending measurements and stops the scrape server
func (t *Telemetry) Close(ctx context.Context) {
	if t.Provider != nil {
		if err := t.Provider.ForceFlush(ctx); err != nil {
			slog.Warn("Flushing metrics", "error", err)
		}
		if err := t.Provider.Shutdown(ctx); err != nil {
			slog.Warn("Shutting down meter provider", "error", err)
		}
	}
	t.shutdownScraperMetrics(ctx)
}

func (t *Telemetry) initGRPCMetrics(ctx context.Context) {
	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		slog.Error("Creating GRPC exporter", "error", err)
		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)
}

// The prometheus exporter is both a Reader and a prometheus.Collector
func (t *Telemetry) initScrapeMetrics() {
	exporter, err := prometheus.New()
	if err != nil {
		slog.Error("Creating HTML scrape exporter", "error", err)
		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	t.server = &http.Server{
		Addr:    scrapeAddr,
		Handler: mux,
	}

	go t.serveMetrics()
}

func (t *Telemetry) serveMetrics() {
	slog.Info("Serving metrics", "addr", scrapeAddr, "path", "/metrics")

	if err := t.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("Metrics server closed")
			return
		}
		slog.Error("Metrics server exited", "error", err)
	}
}

func (t *Telemetry) shutdownScraperMetrics(ctx context.Context) {
	if t.server != nil {
		_ = t.server.Shutdown(ctx)
		slog.Info("Shutting down metrics server")
	}
}
