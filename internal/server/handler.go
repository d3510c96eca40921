package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/reclutapp/analytics-api/internal/analytics"
)

const dateFormat = "2006-01-02"

type handler struct {
	svc *analytics.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.GetDashboard(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getKPIs(w http.ResponseWriter, r *http.Request) {
	// Unrecognized periods fall back to month inside the service.
	req := analytics.KPIRequest{Period: r.URL.Query().Get("period")}

	resp, err := h.svc.GetKPIs(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getRecruitmentFunnel(w http.ResponseWriter, r *http.Request) {
	req, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.GetRecruitmentFunnel(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getDepartmentStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetDepartmentStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getSourceEffectiveness(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetSourceEffectiveness(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getTimeSeries(w http.ResponseWriter, r *http.Request) {
	// The period parameter is accepted for compatibility but buckets are
	// always monthly. Non-numeric months falls back to the default.
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	req := analytics.TimeSeriesRequest{
		Metric: r.URL.Query().Get("metric"),
		Months: months,
	}

	resp, err := h.svc.GetTimeSeries(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getAlerts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetAlerts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseDateRange(r *http.Request) (analytics.DateRangeRequest, error) {
	start, err := parseDateParam(r, "startDate")
	if err != nil {
		return analytics.DateRangeRequest{}, err
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		return analytics.DateRangeRequest{}, err
	}
	return analytics.DateRangeRequest{StartDate: start, EndDate: end}, nil
}

// parseDateParam accepts YYYY-MM-DD or full RFC 3339 timestamps; an absent
// parameter is the zero time (the service applies the default range).
func parseDateParam(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateFormat, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s, expected YYYY-MM-DD or RFC 3339", key)
	}
	return t, nil
}
