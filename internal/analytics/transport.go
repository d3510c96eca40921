package analytics

import (
	"time"

	"github.com/reclutapp/analytics-api/internal/apperror"
)

type KPIRequest struct {
	// Period is one of week, month, quarter, year. Anything else falls
	// back to month.
	Period string
}

// DateRangeRequest scopes funnel and dashboard queries. Zero dates default
// to the trailing 30 days through now.
type DateRangeRequest struct {
	StartDate time.Time
	EndDate   time.Time
}

func (r DateRangeRequest) Validate() *apperror.AppError {
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return apperror.New(apperror.BadRequest, "endDate must be after startDate")
	}
	return nil
}

type TimeSeriesRequest struct {
	// Metric is one of applications, hired, timeToHire, jobs; anything
	// else falls back to applications.
	Metric string
	// Months is the number of trailing calendar months, current month
	// included. Values below 1 fall back to 6.
	Months int
}
