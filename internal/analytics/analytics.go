package analytics

import "time"

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Metric is one dashboard card: current value plus period-over-period change.
type Metric struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
	Trend  Trend   `json:"trend"`
	Unit   string  `json:"unit,omitempty"`
}

type KPISet struct {
	Applications    Metric `json:"applications"`
	Hired           Metric `json:"hired"`
	ConversionRate  Metric `json:"conversionRate"`
	TimeToHire      Metric `json:"timeToHire"`
	ActiveJobs      Metric `json:"activeJobs"`
	InterviewsToday Metric `json:"interviewsToday"`

	TotalCandidates  int64 `json:"totalCandidates"`
	ActiveCandidates int64 `json:"activeCandidates"`
	UrgentJobs       int64 `json:"urgentJobs"`
	CVAnalyses       int64 `json:"cvAnalyses"`

	Period string `json:"period"`
}

// FunnelStage is an independent status count for the range, not a cohort
// trace: an application counted as Hired need not appear in earlier stages
// of the same window.
type FunnelStage struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
	Conversion string  `json:"conversion"`
}

type Funnel struct {
	Stages              []FunnelStage `json:"stages"`
	Rejected            int64         `json:"rejected"`
	TotalConversionRate string        `json:"totalConversionRate"`
}

type DepartmentStat struct {
	Department        string `json:"department"`
	ActiveJobs        int64  `json:"activeJobs"`
	TotalApplications int64  `json:"totalApplications"`
	Hired             int64  `json:"hired"`
	ConversionRate    string `json:"conversionRate"`
}

type SourceStat struct {
	Source         string `json:"source"`
	Total          int64  `json:"total"`
	Hired          int64  `json:"hired"`
	ConversionRate string `json:"conversionRate"`
}

type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Month string    `json:"month"`
	Value float64   `json:"value"`
}

type Alert struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Count       int64  `json:"count"`
}

type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Dashboard struct {
	KPIs                *KPISet          `json:"kpis"`
	Funnel              *Funnel          `json:"funnel"`
	DepartmentStats     []DepartmentStat `json:"departmentStats"`
	SourceEffectiveness []SourceStat     `json:"sourceEffectiveness"`
	Alerts              []Alert          `json:"alerts"`
	Period              Period           `json:"period"`
}
