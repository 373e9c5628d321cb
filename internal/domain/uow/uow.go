package uow

import (
	"context"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"
)

// Repos are the stores bound to one transaction.
type Repos struct {
	Loans   loan.Repository
	Events  lifecycle.Repository
	History attribution.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
