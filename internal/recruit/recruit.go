package recruit

import "time"

type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "pending"
	ApplicationReviewed           ApplicationStatus = "reviewed"
	ApplicationInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationInterviewed        ApplicationStatus = "interviewed"
	ApplicationOffered            ApplicationStatus = "offered"
	ApplicationHired              ApplicationStatus = "hired"
	ApplicationRejected           ApplicationStatus = "rejected"
	ApplicationWithdrawn          ApplicationStatus = "withdrawn"
)

type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobActive JobStatus = "active"
	JobPaused JobStatus = "paused"
	JobClosed JobStatus = "closed"
)

type CandidateStatus string

const (
	CandidateActive      CandidateStatus = "active"
	CandidateInactive    CandidateStatus = "inactive"
	CandidateBlacklisted CandidateStatus = "blacklisted"
)

// Interview statuses are stored in Spanish, as written by the main platform.
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "programada"
	InterviewCompleted   InterviewStatus = "completada"
	InterviewCancelled   InterviewStatus = "cancelada"
	InterviewRescheduled InterviewStatus = "reprogramada"
)

// Application is a candidate's application to a job. HiredAt and RejectedAt
// are set exactly once, on the terminal status transition.
type Application struct {
	ID         int64             `json:"id"`
	Status     ApplicationStatus `json:"status"`
	Source     string            `json:"source"`
	JobID      int64             `json:"jobId"`
	CreatedAt  time.Time         `json:"createdAt"`
	HiredAt    *time.Time        `json:"hiredAt,omitempty"`
	RejectedAt *time.Time        `json:"rejectedAt,omitempty"`
}

// Job is a posted position. PublishedAt is set once, when the job first
// leaves draft; it stays nil for jobs that were never activated.
type Job struct {
	ID                int64      `json:"id"`
	Department        string     `json:"department"`
	Status            JobStatus  `json:"status"`
	IsUrgent          bool       `json:"isUrgent"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	PublishedAt       *time.Time `json:"publishedAt,omitempty"`
	ApplicationsCount int64      `json:"applicationsCount"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type Candidate struct {
	ID        int64           `json:"id"`
	Status    CandidateStatus `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Interview struct {
	ID            int64           `json:"id"`
	ScheduledDate time.Time       `json:"scheduledDate"`
	Status        InterviewStatus `json:"status"`
}

// CVAnalysis is one AI screening result; OverallScore is in [0, 100].
type CVAnalysis struct {
	ID           int64     `json:"id"`
	OverallScore float64   `json:"overallScore"`
	CreatedAt    time.Time `json:"createdAt"`
}
