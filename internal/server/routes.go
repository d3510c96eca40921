package server

import (
	"net/http"

	"github.com/reclutapp/analytics-api/internal/analytics"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(svc *analytics.Service) http.Handler {
	return newMux(svc)
}

func newMux(svc *analytics.Service) http.Handler {
	h := &handler{svc: svc}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/v1/analytics/dashboard", h.getDashboard)
	mux.HandleFunc("GET /api/v1/analytics/kpis", h.getKPIs)
	mux.HandleFunc("GET /api/v1/analytics/recruitment-funnel", h.getRecruitmentFunnel)
	mux.HandleFunc("GET /api/v1/analytics/department-stats", h.getDepartmentStats)
	mux.HandleFunc("GET /api/v1/analytics/source-effectiveness", h.getSourceEffectiveness)
	mux.HandleFunc("GET /api/v1/analytics/time-series", h.getTimeSeries)
	mux.HandleFunc("GET /api/v1/analytics/alerts", h.getAlerts)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
