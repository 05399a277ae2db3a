package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"pos-backoffice/internal/dashboard"
	"pos-backoffice/internal/money"
)

// DashboardHandler serves the derived dashboard state
type DashboardHandler struct {
	aggregator *dashboard.Aggregator
	formatter  *money.Formatter
	logger     *slog.Logger
}

func NewDashboardHandler(aggregator *dashboard.Aggregator, formatter *money.Formatter, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator, formatter: formatter, logger: logger}
}

type dashboardDisplay struct {
	Currency        string `json:"currency"`
	TotalStockValue string `json:"totalStockValue"`
	TotalSales      string `json:"totalSales"`
}

type dashboardResponse struct {
	dashboard.Summary
	Display dashboardDisplay `json:"display"`
}

// Summary handles GET /api/dashboard. With refresh=true every collection is
// fetched first; fetch failures show up in the per-collection state.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary := h.aggregator.Summary()
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		var err error
		summary, err = h.aggregator.Refresh(r.Context())
		if err != nil {
			h.logger.Warn("Dashboard refresh incomplete", "error", err)
		}
	}

	writeJSONResponse(w, http.StatusOK, dashboardResponse{
		Summary: summary,
		Display: dashboardDisplay{
			Currency:        h.formatter.Currency(),
			TotalStockValue: h.formatter.Format(summary.TotalStockValue),
			TotalSales:      h.formatter.Format(summary.TotalSales),
		},
	})
}
