package report

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// HistoryQuery selects ledger rows. From and To are calendar dates, read in
// the service's location, and both ends are inclusive.
type HistoryQuery struct {
	From       *time.Time
	To         *time.Time
	EmployeeID *int64
	AssetID    *int64
}

func (s *Service) History(ctx context.Context, q HistoryQuery) ([]*domain.AssignmentDetail, error) {
	filter := domain.AssignmentFilter{
		AssetID:    q.AssetID,
		EmployeeID: q.EmployeeID,
	}

	if q.From != nil {
		from := s.startOfDay(*q.From, 0)
		filter.From = &from
	}
	if q.To != nil {
		// the whole last day is part of the range
		to := s.startOfDay(*q.To, 1).Add(-time.Nanosecond)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "to",
			Message: "End date cannot be before start date.",
		}}}
	}

	return s.source.ListAssignments(ctx, filter)
}

// startOfDay is midnight in s.loc of the calendar date of t shifted by days.
func (s *Service) startOfDay(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, s.loc)
}
