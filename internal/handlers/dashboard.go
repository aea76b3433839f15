package handlers

import (
	"net/http"

	"github.com/diewo77/shirt-orders/httpx"
	"github.com/diewo77/shirt-orders/internal/services"
	"github.com/diewo77/shirt-orders/view"
)

const recentOrders = 5

type DashboardHandler struct {
	stats *services.StatsService
	query *services.QueryService
}

func NewDashboardHandler(stats *services.StatsService, query *services.QueryService) *DashboardHandler {
	return &DashboardHandler{stats: stats, query: query}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.Report(r.Context(), adminID(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	recent, err := h.query.Recent(r.Context(), adminID(r), recentOrders)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if err := view.Render(w, r, "dashboard.html", map[string]any{
		"Report": report,
		"Recent": recent,
	}); err != nil {
		serverError(w, r, err)
	}
}

func (h *DashboardHandler) Reports(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.Report(r.Context(), adminID(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if err := view.Render(w, r, "reports.html", map[string]any{"Report": report}); err != nil {
		serverError(w, r, err)
	}
}

// API serves GET /api/dashboard for the dashboard charts.
func (h *DashboardHandler) API(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.Report(r.Context(), adminID(r))
	if err != nil {
		apiError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
