package attribution

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, h *History) error
	// ListByLoanID returns entries with from <= reporting_date <= to, oldest
	// first. A zero bound is open.
	ListByLoanID(ctx context.Context, loanID string, from, to time.Time) ([]History, error)
	DeleteAll(ctx context.Context) error
}
