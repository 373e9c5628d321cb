package lifecycle

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
	"pcaf-attribution/internal/infrastructure/metrics"

	"golang.org/x/sync/errgroup"
)

type recalcResult struct {
	RecalculationDTO
	previousFinanced float64
}

// recalculate replays the loan's events over its schedule as of asOf, writes
// the result onto the loan and appends a history row. r must belong to a
// transaction holding the loan.
func (u *Usecase) recalculate(ctx context.Context, r uow.Repos, l *loan.Loan, asOf time.Time, reason attribution.Reason) (*recalcResult, error) {
	s, err := u.schedule(ctx, l)
	if err != nil {
		return nil, err
	}
	events, err := r.Events.ListByLoanID(ctx, l.LoanID)
	if err != nil {
		return nil, err
	}

	res := &recalcResult{
		RecalculationDTO: RecalculationDTO{
			LoanID:          l.LoanID,
			AsOf:            asOf,
			Reason:          string(reason),
			PreviousBalance: l.OutstandingBalance,
			PreviousFactor:  l.AttributionFactor,
		},
		previousFinanced: l.FinancedEmissions,
	}

	balance, factor := amortization.BalanceAsOfDate(s, asOf, events)
	l.ApplyAttribution(balance, factor)
	now := u.now()
	l.LastCalculatedAt = &now
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}

	h := &attribution.History{
		LoanID:             l.LoanID,
		ReportingDate:      asOf,
		OutstandingBalance: l.OutstandingBalance,
		AssetValue:         l.AssetValue,
		AttributionFactor:  l.AttributionFactor,
		FinancedEmissions:  l.FinancedEmissions,
		AnnualEmissions:    l.AnnualEmissions,
		Reason:             reason,
	}
	if err := r.History.Append(ctx, h); err != nil {
		return nil, err
	}

	res.OutstandingBalance = l.OutstandingBalance
	res.AttributionFactor = l.AttributionFactor
	res.AnnualEmissions = l.AnnualEmissions
	res.FinancedEmissions = l.FinancedEmissions
	return res, nil
}

// RecalculateBalance brings one loan up to date as of asOf (today when zero).
func (u *Usecase) RecalculateBalance(ctx context.Context, loanID string, asOf time.Time, reason attribution.Reason) (*RecalculationDTO, error) {
	if !reason.Valid() {
		return nil, loan.Validationf("unknown calculation reason %q", reason)
	}
	if asOf.IsZero() {
		asOf = u.today()
	}
	asOf = amortization.DateOnly(asOf)

	start := time.Now()
	var out *RecalculationDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		res, err := u.recalculate(ctx, r, l, asOf, reason)
		if err != nil {
			return err
		}
		out = &res.RecalculationDTO
		return nil
	})
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveRecalculation(string(reason), result, time.Since(start))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchRecalculate recalculates every loan as of asOf. Loans are processed
// in parallel and independently: a failing loan is logged and counted, and
// never stops the others.
func (u *Usecase) BatchRecalculate(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	if asOf.IsZero() {
		asOf = u.today()
	}
	asOf = amortization.DateOnly(asOf)

	ids, err := u.repos.Loans.ListLoanIDs(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	failures := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if _, err := u.RecalculateBalance(ctx, id, asOf, attribution.ReasonScheduled); err != nil {
				failures[i] = loan.Skipped(id, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{AsOf: asOf, Total: len(ids), Errors: []string{}}
	for _, ferr := range failures {
		if ferr == nil {
			res.Succeeded++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, ferr.Error())
		u.log.Error().Err(ferr).Msg("batch recalculation skipped loan")
	}
	metrics.ObserveBatch(res.Succeeded, res.Failed, time.Since(start))

	u.log.Info().
		Str("as_of", asOf.Format("2006-01-02")).
		Int("total", res.Total).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Dur("duration", time.Since(start)).
		Msg("batch recalculation complete")

	// a cancelled run still reports what it managed to do
	return res, ctx.Err()
}
