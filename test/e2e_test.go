package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reclutapp/analytics-api/internal/analytics"
	"github.com/reclutapp/analytics-api/internal/recruit"
	"github.com/reclutapp/analytics-api/internal/server"
)

// stubRepo returns canned counts so every endpoint has data to aggregate.
type stubRepo struct{}

func (stubRepo) CountApplications(_ context.Context, f analytics.ApplicationFilter) (int64, error) {
	switch {
	case f.JobID != 0:
		return 3, nil
	case f.Status == recruit.ApplicationHired:
		return 2, nil
	case f.Status != "":
		return 3, nil
	default:
		return 10, nil
	}
}

func (stubRepo) ListApplicationRefs(_ context.Context) ([]analytics.ApplicationRef, error) {
	return []analytics.ApplicationRef{
		{Status: recruit.ApplicationHired, Source: "linkedin", JobID: 1},
		{Status: recruit.ApplicationPending, Source: "", JobID: 1},
	}, nil
}

func (stubRepo) ListHires(_ context.Context, _, _ time.Time) ([]analytics.Hire, error) {
	return nil, nil
}

func (stubRepo) CountJobs(_ context.Context, _ analytics.JobFilter) (int64, error) {
	return 4, nil
}

func (stubRepo) ListJobRefs(_ context.Context) ([]analytics.JobRef, error) {
	return []analytics.JobRef{
		{ID: 1, Department: "Engineering", Status: recruit.JobActive, IsUrgent: true},
	}, nil
}

func (stubRepo) CountCandidates(_ context.Context, _ analytics.CandidateFilter) (int64, error) {
	return 20, nil
}

func (stubRepo) CountInterviews(_ context.Context, _ analytics.InterviewFilter) (int64, error) {
	return 1, nil
}

func (stubRepo) CountAnalyses(_ context.Context, _ analytics.AnalysisFilter) (int64, error) {
	return 5, nil
}

func setupE2E(t *testing.T) *httptest.Server {
	t.Helper()

	svc := analytics.NewService(stubRepo{})
	ts := httptest.NewServer(server.NewHandler(svc))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON[T any](t *testing.T, url string) (int, T) {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		Message string `json:"message"`
		Data    T      `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, result.Data
}

func TestE2E_Health(t *testing.T) {
	ts := setupE2E(t)

	status, data := getJSON[map[string]string](t, ts.URL+"/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if data["status"] != "ok" {
		t.Errorf("data = %v, want status ok", data)
	}
}

func TestE2E_KPIs(t *testing.T) {
	ts := setupE2E(t)

	status, kpis := getJSON[analytics.KPISet](t, ts.URL+"/api/v1/analytics/kpis")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if kpis.Period != "month" {
		t.Errorf("period = %q, want month", kpis.Period)
	}
	if kpis.Applications.Value != 10 || kpis.Hired.Value != 2 {
		t.Errorf("kpis = %+v, want 10 applications / 2 hired", kpis)
	}
	if kpis.ConversionRate.Value != 20.0 {
		t.Errorf("conversionRate = %v, want 20", kpis.ConversionRate.Value)
	}
	if kpis.TotalCandidates != 20 {
		t.Errorf("totalCandidates = %d, want 20", kpis.TotalCandidates)
	}
}

func TestE2E_KPIs_UnknownPeriod(t *testing.T) {
	ts := setupE2E(t)

	status, kpis := getJSON[analytics.KPISet](t, ts.URL+"/api/v1/analytics/kpis?period=decade")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if kpis.Period != "month" {
		t.Errorf("period = %q, want month fallback", kpis.Period)
	}
}

func TestE2E_RecruitmentFunnel(t *testing.T) {
	ts := setupE2E(t)

	status, funnel := getJSON[analytics.Funnel](t, ts.URL+"/api/v1/analytics/recruitment-funnel?startDate=2026-01-01&endDate=2026-02-01")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(funnel.Stages) != 6 {
		t.Fatalf("stages = %d, want 6", len(funnel.Stages))
	}
	if funnel.Stages[0].Name != "Applications" || funnel.Stages[0].Conversion != "100.0" {
		t.Errorf("first stage = %+v", funnel.Stages[0])
	}
	if funnel.TotalConversionRate != "20.0" {
		t.Errorf("totalConversionRate = %q, want 20.0", funnel.TotalConversionRate)
	}
}

func TestE2E_RecruitmentFunnel_BadDate(t *testing.T) {
	ts := setupE2E(t)

	resp, err := http.Get(ts.URL + "/api/v1/analytics/recruitment-funnel?startDate=yesterday")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestE2E_TimeSeries_NonNumericMonths(t *testing.T) {
	ts := setupE2E(t)

	status, points := getJSON[[]analytics.TimeSeriesPoint](t, ts.URL+"/api/v1/analytics/time-series?metric=applications&months=many")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(points) != 6 {
		t.Fatalf("points = %d, want default 6", len(points))
	}
	now := time.Now()
	last := points[len(points)-1]
	if last.Date.Year() != now.Year() || last.Date.Month() != now.Month() {
		t.Errorf("last point = %v, want current month", last.Date)
	}
}

func TestE2E_Alerts(t *testing.T) {
	ts := setupE2E(t)

	status, alerts := getJSON[[]analytics.Alert](t, ts.URL+"/api/v1/analytics/alerts")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	// The stub urgent job has 3 applications, below the threshold.
	var urgent *analytics.Alert
	for i := range alerts {
		if alerts[i].Type == "urgent_low_applications" {
			urgent = &alerts[i]
		}
	}
	if urgent == nil {
		t.Fatalf("missing urgent alert in %+v", alerts)
	}
	if urgent.Count != 1 || urgent.Priority != "high" {
		t.Errorf("urgent alert = %+v, want count 1 priority high", urgent)
	}
}

func TestE2E_Dashboard(t *testing.T) {
	ts := setupE2E(t)

	status, d := getJSON[analytics.Dashboard](t, ts.URL+"/api/v1/analytics/dashboard")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if d.KPIs == nil || d.Funnel == nil {
		t.Fatal("dashboard missing kpis or funnel")
	}
	if len(d.DepartmentStats) == 0 || len(d.SourceEffectiveness) == 0 {
		t.Errorf("dashboard rollups empty: %+v", d)
	}
	if d.Period.StartDate.IsZero() || d.Period.EndDate.IsZero() {
		t.Errorf("dashboard period not defaulted: %+v", d.Period)
	}
	if !d.Period.StartDate.Before(d.Period.EndDate) {
		t.Errorf("default period inverted: %+v", d.Period)
	}
}
