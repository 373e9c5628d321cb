package lifecycle

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	// ListByLoanID returns the loan's events in ascending event-date order.
	ListByLoanID(ctx context.Context, loanID string) ([]Event, error)
	DeleteAll(ctx context.Context) error
}
