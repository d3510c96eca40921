package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "github.com/reclutapp/analytics-api/internal/analytics"
	"github.com/reclutapp/analytics-api/internal/recruit"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// cond accumulates WHERE clauses with positional placeholders.
type cond struct {
	clauses []string
	args    []any
}

func (c *cond) add(column, op string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf("%s %s $%d", column, op, len(c.args)))
}

func (c *cond) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func (r *Repository) count(ctx context.Context, table string, c *cond) (int64, error) {
	var n int64
	query := "SELECT COUNT(*) FROM " + table + c.where()
	if err := r.db.QueryRowContext(ctx, query, c.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *Repository) CountApplications(ctx context.Context, f domain.ApplicationFilter) (int64, error) {
	c := &cond{}
	if f.Status != "" {
		c.add("status", "=", string(f.Status))
	}
	if f.JobID != 0 {
		c.add("job_id", "=", f.JobID)
	}
	if !f.CreatedFrom.IsZero() {
		c.add("created_at", ">=", f.CreatedFrom)
	}
	if !f.CreatedBefore.IsZero() {
		c.add("created_at", "<", f.CreatedBefore)
	}
	if !f.HiredFrom.IsZero() {
		c.add("hired_at", ">=", f.HiredFrom)
	}
	if !f.HiredBefore.IsZero() {
		c.add("hired_at", "<", f.HiredBefore)
	}
	return r.count(ctx, "applications", c)
}

func (r *Repository) ListApplicationRefs(ctx context.Context) ([]domain.ApplicationRef, error) {
	const query = `SELECT status, COALESCE(source, ''), job_id FROM applications`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list application refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []domain.ApplicationRef
	for rows.Next() {
		var ref domain.ApplicationRef
		var status string
		if err := rows.Scan(&status, &ref.Source, &ref.JobID); err != nil {
			return nil, fmt.Errorf("scan application ref: %w", err)
		}
		ref.Status = recruit.ApplicationStatus(status)
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

func (r *Repository) ListHires(ctx context.Context, from, to time.Time) ([]domain.Hire, error) {
	const query = `SELECT a.hired_at, j.published_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.status = $1 AND a.hired_at >= $2 AND a.hired_at < $3`

	rows, err := r.db.QueryContext(ctx, query, string(recruit.ApplicationHired), from, to)
	if err != nil {
		return nil, fmt.Errorf("list hires: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hires []domain.Hire
	for rows.Next() {
		var h domain.Hire
		var published sql.NullTime
		if err := rows.Scan(&h.HiredAt, &published); err != nil {
			return nil, fmt.Errorf("scan hire: %w", err)
		}
		if published.Valid {
			t := published.Time
			h.PublishedAt = &t
		}
		hires = append(hires, h)
	}

	return hires, rows.Err()
}

func (r *Repository) CountJobs(ctx context.Context, f domain.JobFilter) (int64, error) {
	c := &cond{}
	if f.Status != "" {
		c.add("status", "=", string(f.Status))
	}
	if f.UrgentOnly {
		c.add("is_urgent", "=", true)
	}
	if !f.CreatedFrom.IsZero() {
		c.add("created_at", ">=", f.CreatedFrom)
	}
	if !f.CreatedBefore.IsZero() {
		c.add("created_at", "<", f.CreatedBefore)
	}
	if !f.DeadlineFrom.IsZero() {
		c.add("deadline", ">=", f.DeadlineFrom)
	}
	if !f.DeadlineBefore.IsZero() {
		c.add("deadline", "<", f.DeadlineBefore)
	}
	return r.count(ctx, "jobs", c)
}

func (r *Repository) ListJobRefs(ctx context.Context) ([]domain.JobRef, error) {
	const query = `SELECT id, COALESCE(department, ''), status, is_urgent, deadline FROM jobs`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list job refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []domain.JobRef
	for rows.Next() {
		var ref domain.JobRef
		var status string
		var deadline sql.NullTime
		if err := rows.Scan(&ref.ID, &ref.Department, &status, &ref.IsUrgent, &deadline); err != nil {
			return nil, fmt.Errorf("scan job ref: %w", err)
		}
		ref.Status = recruit.JobStatus(status)
		if deadline.Valid {
			t := deadline.Time
			ref.Deadline = &t
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

func (r *Repository) CountCandidates(ctx context.Context, f domain.CandidateFilter) (int64, error) {
	c := &cond{}
	if f.Status != "" {
		c.add("status", "=", string(f.Status))
	}
	return r.count(ctx, "candidates", c)
}

func (r *Repository) CountInterviews(ctx context.Context, f domain.InterviewFilter) (int64, error) {
	c := &cond{}
	if f.Status != "" {
		c.add("status", "=", string(f.Status))
	}
	if !f.ScheduledFrom.IsZero() {
		c.add("scheduled_date", ">=", f.ScheduledFrom)
	}
	if !f.ScheduledBefore.IsZero() {
		c.add("scheduled_date", "<", f.ScheduledBefore)
	}
	return r.count(ctx, "interviews", c)
}

func (r *Repository) CountAnalyses(ctx context.Context, f domain.AnalysisFilter) (int64, error) {
	c := &cond{}
	if !f.CreatedFrom.IsZero() {
		c.add("created_at", ">=", f.CreatedFrom)
	}
	if f.ScoreAbove > 0 {
		c.add("overall_score", ">", f.ScoreAbove)
	}
	return r.count(ctx, "cv_analyses", c)
}
