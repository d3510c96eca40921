package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reclutapp/analytics-api/internal/recruit"
)

const (
	defaultRangeDays   = 30
	defaultMonths      = 6
	stalePendingDays   = 7
	deadlineWindowDays = 7
	minUrgentJobApps   = 5
	highPotentialScore = 80
)

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, mainly so tests can pin period
// boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetKPIs computes the dashboard metric cards for the given period against
// the equal-length previous period. All counts are issued concurrently.
func (s *Service) GetKPIs(ctx context.Context, req KPIRequest) (*KPISet, error) {
	period := normalizePeriod(req.Period)
	days := periodDays(period)

	now := s.now()
	currentStart := now.AddDate(0, 0, -days)
	previousStart := currentStart.AddDate(0, 0, -days)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		appsCur, appsPrev                 int64
		hiredCur, hiredPrev               int64
		totalCandidates, activeCandidates int64
		activeJobs, urgentJobs            int64
		interviewsToday                   int64
		analyses                          int64
		hiresCur, hiresPrev               []Hire
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appsCur, err = s.repo.CountApplications(gctx, ApplicationFilter{CreatedFrom: currentStart})
		return err
	})
	g.Go(func() error {
		var err error
		appsPrev, err = s.repo.CountApplications(gctx, ApplicationFilter{CreatedFrom: previousStart, CreatedBefore: currentStart})
		return err
	})
	g.Go(func() error {
		var err error
		hiredCur, err = s.repo.CountApplications(gctx, ApplicationFilter{Status: recruit.ApplicationHired, HiredFrom: currentStart})
		return err
	})
	g.Go(func() error {
		var err error
		hiredPrev, err = s.repo.CountApplications(gctx, ApplicationFilter{Status: recruit.ApplicationHired, HiredFrom: previousStart, HiredBefore: currentStart})
		return err
	})
	g.Go(func() error {
		var err error
		totalCandidates, err = s.repo.CountCandidates(gctx, CandidateFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		activeCandidates, err = s.repo.CountCandidates(gctx, CandidateFilter{Status: recruit.CandidateActive})
		return err
	})
	g.Go(func() error {
		var err error
		activeJobs, err = s.repo.CountJobs(gctx, JobFilter{Status: recruit.JobActive})
		return err
	})
	g.Go(func() error {
		var err error
		urgentJobs, err = s.repo.CountJobs(gctx, JobFilter{Status: recruit.JobActive, UrgentOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		interviewsToday, err = s.repo.CountInterviews(gctx, InterviewFilter{ScheduledFrom: dayStart, ScheduledBefore: dayStart.AddDate(0, 0, 1)})
		return err
	})
	g.Go(func() error {
		var err error
		analyses, err = s.repo.CountAnalyses(gctx, AnalysisFilter{CreatedFrom: currentStart})
		return err
	})
	g.Go(func() error {
		var err error
		hiresCur, err = s.repo.ListHires(gctx, currentStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		hiresPrev, err = s.repo.ListHires(gctx, previousStart, currentStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	convCur := conversionRate(hiredCur, appsCur)
	convPrev := conversionRate(hiredPrev, appsPrev)
	tthCur := meanTimeToHire(hiresCur)
	tthPrev := meanTimeToHire(hiresPrev)

	appsChange := percentageChange(float64(appsCur), float64(appsPrev))
	hiredChange := percentageChange(float64(hiredCur), float64(hiredPrev))
	convChange := percentageChange(convCur, convPrev)
	tthChange := percentageChange(tthCur, tthPrev)

	// Shorter time-to-hire is better, so the trend inverts on the raw
	// signed change.
	tthTrend := TrendDown
	if tthChange <= 0 {
		tthTrend = TrendUp
	}

	return &KPISet{
		Applications:    Metric{Value: float64(appsCur), Change: appsChange, Trend: trendOf(appsChange)},
		Hired:           Metric{Value: float64(hiredCur), Change: hiredChange, Trend: trendOf(hiredChange)},
		ConversionRate:  Metric{Value: convCur, Change: convChange, Trend: trendOf(convChange), Unit: "%"},
		TimeToHire:      Metric{Value: tthCur, Change: tthChange, Trend: tthTrend, Unit: "days"},
		ActiveJobs:      Metric{Value: float64(activeJobs), Trend: TrendUp},
		InterviewsToday: Metric{Value: float64(interviewsToday), Trend: TrendUp},

		TotalCandidates:  totalCandidates,
		ActiveCandidates: activeCandidates,
		UrgentJobs:       urgentJobs,
		CVAnalyses:       analyses,

		Period: period,
	}, nil
}

var funnelStages = []struct {
	name   string
	status recruit.ApplicationStatus
}{
	{"Applications", ""},
	{"Reviewed", recruit.ApplicationReviewed},
	{"Interview Scheduled", recruit.ApplicationInterviewScheduled},
	{"Interviewed", recruit.ApplicationInterviewed},
	{"Offered", recruit.ApplicationOffered},
	{"Hired", recruit.ApplicationHired},
}

// GetRecruitmentFunnel counts each pipeline stage over the requested range.
// Stage counts are independent snapshots of current status, not a cohort
// trace of the same applications.
func (s *Service) GetRecruitmentFunnel(ctx context.Context, req DateRangeRequest) (*Funnel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, to := s.resolveRange(req)

	counts := make([]int64, len(funnelStages))
	var rejected int64

	g, gctx := errgroup.WithContext(ctx)
	for i, stage := range funnelStages {
		g.Go(func() error {
			var err error
			counts[i], err = s.repo.CountApplications(gctx, ApplicationFilter{Status: stage.status, CreatedFrom: from, CreatedBefore: to})
			return err
		})
	}
	g.Go(func() error {
		var err error
		rejected, err = s.repo.CountApplications(gctx, ApplicationFilter{Status: recruit.ApplicationRejected, CreatedFrom: from, CreatedBefore: to})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := counts[0]
	stages := make([]FunnelStage, len(funnelStages))
	for i, stage := range funnelStages {
		var percentage float64
		if total > 0 {
			percentage = round1(float64(counts[i]) / float64(total) * 100)
		}
		conversion := "100.0"
		if i > 0 {
			conversion = formatPercent(counts[i], counts[i-1])
		}
		stages[i] = FunnelStage{Name: stage.name, Count: counts[i], Percentage: percentage, Conversion: conversion}
	}

	return &Funnel{
		Stages:              stages,
		Rejected:            rejected,
		TotalConversionRate: formatPercent(counts[len(counts)-1], total),
	}, nil
}

const defaultDepartment = "Sin Departamento"

// GetDepartmentStats groups jobs and their applications by department,
// ranked by application volume. Full-table scans; fine at HR volumes.
func (s *Service) GetDepartmentStats(ctx context.Context) ([]DepartmentStat, error) {
	var (
		jobs []JobRef
		apps []ApplicationRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.repo.ListJobRefs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.repo.ListApplicationRefs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	departments := make(map[int64]string, len(jobs))
	stats := make(map[string]*DepartmentStat)
	var order []string

	group := func(dept string) *DepartmentStat {
		if st, ok := stats[dept]; ok {
			return st
		}
		st := &DepartmentStat{Department: dept}
		stats[dept] = st
		order = append(order, dept)
		return st
	}

	for _, j := range jobs {
		dept := j.Department
		if dept == "" {
			dept = defaultDepartment
		}
		departments[j.ID] = dept
		st := group(dept)
		if j.Status == recruit.JobActive {
			st.ActiveJobs++
		}
	}
	for _, a := range apps {
		dept, ok := departments[a.JobID]
		if !ok {
			dept = defaultDepartment
		}
		st := group(dept)
		st.TotalApplications++
		if a.Status == recruit.ApplicationHired {
			st.Hired++
		}
	}

	out := make([]DepartmentStat, 0, len(order))
	for _, dept := range order {
		st := stats[dept]
		st.ConversionRate = formatPercent(st.Hired, st.TotalApplications)
		out = append(out, *st)
	}
	// Stable: ties keep first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalApplications > out[j].TotalApplications
	})
	return out, nil
}

const defaultSource = "otros"

// GetSourceEffectiveness groups applications by source, ranked by volume.
func (s *Service) GetSourceEffectiveness(ctx context.Context) ([]SourceStat, error) {
	apps, err := s.repo.ListApplicationRefs(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*SourceStat)
	var order []string
	for _, a := range apps {
		source := a.Source
		if source == "" {
			source = defaultSource
		}
		st, ok := stats[source]
		if !ok {
			st = &SourceStat{Source: source}
			stats[source] = st
			order = append(order, source)
		}
		st.Total++
		if a.Status == recruit.ApplicationHired {
			st.Hired++
		}
	}

	out := make([]SourceStat, 0, len(order))
	for _, source := range order {
		st := stats[source]
		st.ConversionRate = formatPercent(st.Hired, st.Total)
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out, nil
}

// GetTimeSeries returns one point per trailing calendar month, oldest first,
// current month last. Buckets are always monthly regardless of the period
// the caller asked for.
func (s *Service) GetTimeSeries(ctx context.Context, req TimeSeriesRequest) ([]TimeSeriesPoint, error) {
	months := req.Months
	if months < 1 {
		months = defaultMonths
	}
	metric := normalizeMetric(req.Metric)

	now := s.now()
	points := make([]TimeSeriesPoint, months)

	g, gctx := errgroup.WithContext(ctx)
	for i := range months {
		offset := months - 1 - i
		start := time.Date(now.Year(), now.Month()-time.Month(offset), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0)
		g.Go(func() error {
			value, err := s.metricValue(gctx, metric, start, end)
			if err != nil {
				return err
			}
			points[i] = TimeSeriesPoint{Date: start, Month: monthLabel(start), Value: value}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Service) metricValue(ctx context.Context, metric string, from, to time.Time) (float64, error) {
	switch metric {
	case "hired":
		n, err := s.repo.CountApplications(ctx, ApplicationFilter{Status: recruit.ApplicationHired, HiredFrom: from, HiredBefore: to})
		return float64(n), err
	case "timeToHire":
		hires, err := s.repo.ListHires(ctx, from, to)
		if err != nil {
			return 0, err
		}
		return meanTimeToHire(hires), nil
	case "jobs":
		n, err := s.repo.CountJobs(ctx, JobFilter{CreatedFrom: from, CreatedBefore: to})
		return float64(n), err
	default:
		n, err := s.repo.CountApplications(ctx, ApplicationFilter{CreatedFrom: from, CreatedBefore: to})
		return float64(n), err
	}
}

// GetAlerts evaluates the advisory rules; an alert is emitted only when its
// trigger count is non-zero.
func (s *Service) GetAlerts(ctx context.Context) ([]Alert, error) {
	now := s.now()
	weekAgo := now.AddDate(0, 0, -stalePendingDays)
	weekAhead := now.AddDate(0, 0, deadlineWindowDays)

	var stale, lowApplied, deadlines, highScores int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stale, err = s.repo.CountApplications(gctx, ApplicationFilter{Status: recruit.ApplicationPending, CreatedBefore: weekAgo})
		return err
	})
	g.Go(func() error {
		var err error
		deadlines, err = s.repo.CountJobs(gctx, JobFilter{Status: recruit.JobActive, DeadlineFrom: now, DeadlineBefore: weekAhead})
		return err
	})
	g.Go(func() error {
		var err error
		highScores, err = s.repo.CountAnalyses(gctx, AnalysisFilter{ScoreAbove: highPotentialScore})
		return err
	})
	g.Go(func() error {
		// One count per urgent job; urgent-job counts are small in
		// practice.
		jobs, err := s.repo.ListJobRefs(gctx)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if j.Status != recruit.JobActive || !j.IsUrgent {
				continue
			}
			n, err := s.repo.CountApplications(gctx, ApplicationFilter{JobID: j.ID})
			if err != nil {
				return err
			}
			if n < minUrgentJobApps {
				lowApplied++
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, 4)
	if stale > 0 {
		alerts = append(alerts, Alert{
			Type:        "stale_applications",
			Category:    "postulaciones",
			Title:       "Postulaciones sin revisar",
			Description: fmt.Sprintf("%d postulaciones llevan más de %d días en estado pendiente", stale, stalePendingDays),
			Priority:    "high",
			Count:       stale,
		})
	}
	if lowApplied > 0 {
		alerts = append(alerts, Alert{
			Type:        "urgent_low_applications",
			Category:    "vacantes",
			Title:       "Vacantes urgentes con pocas postulaciones",
			Description: fmt.Sprintf("%d vacantes urgentes tienen menos de %d postulaciones", lowApplied, minUrgentJobApps),
			Priority:    "high",
			Count:       lowApplied,
		})
	}
	if deadlines > 0 {
		alerts = append(alerts, Alert{
			Type:        "approaching_deadline",
			Category:    "vacantes",
			Title:       "Vacantes próximas a cerrar",
			Description: fmt.Sprintf("%d vacantes activas cierran en los próximos %d días", deadlines, deadlineWindowDays),
			Priority:    "medium",
			Count:       deadlines,
		})
	}
	if highScores > 0 {
		// Counts analyses, not distinct candidates; a candidate
		// analyzed twice is counted twice.
		alerts = append(alerts, Alert{
			Type:        "high_potential",
			Category:    "candidatos",
			Title:       "Candidatos de alto potencial",
			Description: fmt.Sprintf("%d análisis de CV superan los %d puntos", highScores, highPotentialScore),
			Priority:    "low",
			Count:       highScores,
		})
	}
	return alerts, nil
}

// GetDashboard fans out to every report concurrently and combines them. A
// failure in any sub-query fails the whole request; a partially populated
// dashboard would be misleading.
func (s *Service) GetDashboard(ctx context.Context, req DateRangeRequest) (*Dashboard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, to := s.resolveRange(req)

	d := &Dashboard{Period: Period{StartDate: from, EndDate: to}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.KPIs, err = s.GetKPIs(gctx, KPIRequest{})
		return err
	})
	g.Go(func() error {
		var err error
		d.Funnel, err = s.GetRecruitmentFunnel(gctx, DateRangeRequest{StartDate: from, EndDate: to})
		return err
	})
	g.Go(func() error {
		var err error
		d.DepartmentStats, err = s.GetDepartmentStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.SourceEffectiveness, err = s.GetSourceEffectiveness(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Alerts, err = s.GetAlerts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) resolveRange(req DateRangeRequest) (from, to time.Time) {
	to = req.EndDate
	if to.IsZero() {
		to = s.now()
	}
	from = req.StartDate
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultRangeDays)
	}
	return from, to
}

func normalizePeriod(period string) string {
	switch period {
	case "week", "month", "quarter", "year":
		return period
	default:
		return "month"
	}
}

func periodDays(period string) int {
	switch period {
	case "week":
		return 7
	case "quarter":
		return 90
	case "year":
		return 365
	default:
		return 30
	}
}

func normalizeMetric(metric string) string {
	switch metric {
	case "applications", "hired", "timeToHire", "jobs":
		return metric
	default:
		return "applications"
	}
}

// percentageChange compares two adjacent equal-length windows. Guards the
// zero denominator: no previous activity reads as 0 (still nothing) or 100
// (something from nothing).
func percentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round1((current - previous) / previous * 100)
}

func conversionRate(hired, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(hired) / float64(total) * 100)
}

// formatPercent renders part/whole as a percentage with exactly one decimal
// digit, "0.0" when the denominator is zero.
func formatPercent(part, whole int64) string {
	if whole == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(whole)*100)
}

// meanTimeToHire averages whole days between a job's publish date and the
// application's hire date. Hires whose job has no publish date are excluded
// from the mean, not treated as zero.
func meanTimeToHire(hires []Hire) float64 {
	var sum, n int64
	for _, h := range hires {
		if h.PublishedAt == nil {
			continue
		}
		sum += int64(h.HiredAt.Sub(*h.PublishedAt).Hours() / 24)
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum) / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func trendOf(change float64) Trend {
	if change >= 0 {
		return TrendUp
	}
	return TrendDown
}

var spanishMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}
