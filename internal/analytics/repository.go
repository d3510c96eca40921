package analytics

import (
	"context"
	"time"

	"github.com/reclutapp/analytics-api/internal/recruit"
)

// ApplicationFilter narrows application counts. Zero-value fields do not
// constrain. Date ranges are half-open: from inclusive, before exclusive.
type ApplicationFilter struct {
	Status        recruit.ApplicationStatus
	JobID         int64
	CreatedFrom   time.Time
	CreatedBefore time.Time
	HiredFrom     time.Time
	HiredBefore   time.Time
}

type JobFilter struct {
	Status         recruit.JobStatus
	UrgentOnly     bool
	CreatedFrom    time.Time
	CreatedBefore  time.Time
	DeadlineFrom   time.Time
	DeadlineBefore time.Time
}

type CandidateFilter struct {
	Status recruit.CandidateStatus
}

type InterviewFilter struct {
	Status          recruit.InterviewStatus
	ScheduledFrom   time.Time
	ScheduledBefore time.Time
}

type AnalysisFilter struct {
	CreatedFrom time.Time
	ScoreAbove  float64
}

// Hire pairs an application's hire date with its job's publish date.
// PublishedAt is nil for jobs that never left draft; those hires are
// excluded from time-to-hire means.
type Hire struct {
	HiredAt     time.Time
	PublishedAt *time.Time
}

// ApplicationRef is the slim projection the rollups scan.
type ApplicationRef struct {
	Status recruit.ApplicationStatus
	Source string
	JobID  int64
}

type JobRef struct {
	ID         int64
	Department string
	Status     recruit.JobStatus
	IsUrgent   bool
	Deadline   *time.Time
}

// Repository is the read-only query surface the engine depends on. All
// aggregates are recomputed per call; implementations hold no state beyond
// the database handle.
type Repository interface {
	CountApplications(ctx context.Context, f ApplicationFilter) (int64, error)
	ListApplicationRefs(ctx context.Context) ([]ApplicationRef, error)
	// ListHires returns applications hired within [from, to) joined to
	// their job's publish date.
	ListHires(ctx context.Context, from, to time.Time) ([]Hire, error)
	CountJobs(ctx context.Context, f JobFilter) (int64, error)
	ListJobRefs(ctx context.Context) ([]JobRef, error)
	CountCandidates(ctx context.Context, f CandidateFilter) (int64, error)
	CountInterviews(ctx context.Context, f InterviewFilter) (int64, error)
	CountAnalyses(ctx context.Context, f AnalysisFilter) (int64, error)
}
