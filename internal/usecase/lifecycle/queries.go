package lifecycle

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
)

// History returns the loan's attribution trail with from <= date <= to.
// Zero bounds are open.
func (u *Usecase) History(ctx context.Context, loanID string, from, to time.Time) ([]attribution.History, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, loan.Validationf("from must not be after to")
	}
	if _, err := u.repos.Loans.GetByLoanID(ctx, loanID); err != nil {
		return nil, err
	}
	if !from.IsZero() {
		from = amortization.DateOnly(from)
	}
	if !to.IsZero() {
		to = amortization.DateOnly(to)
	}
	out, err := u.repos.History.ListByLoanID(ctx, loanID, from, to)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []attribution.History{}
	}
	return out, nil
}

// Schedule returns the loan's amortization schedule together with its
// event-adjusted position as of asOf (today when zero).
func (u *Usecase) Schedule(ctx context.Context, loanID string, asOf time.Time) (*ScheduleDTO, error) {
	if asOf.IsZero() {
		asOf = u.today()
	}
	asOf = amortization.DateOnly(asOf)

	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	s, err := u.schedule(ctx, l)
	if err != nil {
		return nil, err
	}
	events, err := u.repos.Events.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	balance, factor := amortization.BalanceAsOfDate(s, asOf, events)

	remaining := 0
	next := asOf
	for i := len(s.Entries) - 1; i >= 0 && s.Entries[i].PaymentDate.After(asOf); i-- {
		remaining++
		next = s.Entries[i].PaymentDate
	}

	rounded := s.Rounded()
	return &ScheduleDTO{
		LoanID:             l.LoanID,
		AsOf:               asOf,
		MonthlyPayment:     rounded.MonthlyPayment,
		TotalInterest:      rounded.TotalInterest,
		TotalPayments:      rounded.TotalPayments,
		OutstandingBalance: amortization.RoundCents(balance),
		AttributionFactor:  factor,
		PayoffSavings:      amortization.ProjectPayoffSavings(balance, l.InterestRate, remaining, next),
		Entries:            rounded.Entries,
	}, nil
}

// Reset deletes every loan, event and history row, then drops cached
// schedules.
func (u *Usecase) Reset(ctx context.Context) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.History.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Events.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Loans.DeleteAll(ctx)
	})
	if err != nil {
		return err
	}
	if u.cache != nil {
		if err := u.cache.Purge(ctx); err != nil {
			u.log.Warn().Err(err).Msg("schedule cache purge failed")
		}
	}
	u.log.Warn().Msg("portfolio reset")
	return nil
}
