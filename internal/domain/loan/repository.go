package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	// GetByLoanID returns ErrNotFound when no loan carries the id.
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the surrounding transaction where the store supports it.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	ListLoanIDs(ctx context.Context) ([]string, error)
	// Save replaces the whole record.
	Save(ctx context.Context, l *Loan) error
	DeleteAll(ctx context.Context) error
}
