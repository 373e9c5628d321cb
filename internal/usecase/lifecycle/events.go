package lifecycle

import (
	"context"
	"math"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/attribution"
	domainLifecycle "pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
	"pcaf-attribution/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func validateEvent(in RecordEventInput) error {
	if !in.Type.Valid() {
		return loan.Validationf("unknown event type %q", in.Type)
	}
	if in.EventDate.IsZero() {
		return loan.Validationf("event_date is required")
	}
	if in.Amount != nil && (math.IsNaN(*in.Amount) || math.IsInf(*in.Amount, 0) || *in.Amount < 0) {
		return loan.Validationf("amount must be a non-negative number")
	}
	if in.Type == domainLifecycle.PartialPayment && (in.Amount == nil || *in.Amount <= 0) {
		return loan.Validationf("partial_payment requires a positive amount")
	}
	return nil
}

// RecordEvent appends an event to the loan's history and recalculates the
// loan as of the event date, all in one transaction.
func (u *Usecase) RecordEvent(ctx context.Context, in RecordEventInput) (*EventImpactDTO, error) {
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	eventDate := amortization.DateOnly(in.EventDate)

	var dto *EventImpactDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		ev := &domainLifecycle.Event{
			EventID:   uuid.NewString(),
			LoanID:    l.LoanID,
			Type:      in.Type,
			EventDate: eventDate,
			Amount:    in.Amount,
			Note:      in.Note,
		}
		if in.NewTerms != nil {
			ev.NewTerms = datatypes.NewJSONType(*in.NewTerms)
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}

		marker := eventDate
		switch in.Type {
		case domainLifecycle.EarlyPayoff:
			l.EarlyPayoffDate = &marker
		case domainLifecycle.Refinance:
			l.RefinanceDate = &marker
		case domainLifecycle.Default:
			l.DefaultDate = &marker
		}

		res, err := u.recalculate(ctx, r, l, eventDate, attribution.ReasonEventTriggered)
		if err != nil {
			return err
		}
		dto = &EventImpactDTO{
			EventID:                 ev.EventID,
			LoanID:                  l.LoanID,
			EventType:               string(ev.Type),
			EventDate:               eventDate,
			PreviousBalance:         amortization.RoundCents(res.PreviousBalance),
			NewBalance:              amortization.RoundCents(res.OutstandingBalance),
			PreviousFactor:          res.PreviousFactor,
			NewFactor:               res.AttributionFactor,
			FinancedEmissionsChange: res.FinancedEmissions - res.previousFinanced,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncLifecycleEvent(string(in.Type))
	u.log.Info().
		Str("loan_id", in.LoanID).
		Str("event_type", string(in.Type)).
		Str("event_date", eventDate.Format("2006-01-02")).
		Float64("new_factor", dto.NewFactor).
		Msg("lifecycle event recorded")
	return dto, nil
}

// ListEvents returns the loan's events in the order they are applied.
func (u *Usecase) ListEvents(ctx context.Context, loanID string) ([]domainLifecycle.Event, error) {
	if _, err := u.repos.Loans.GetByLoanID(ctx, loanID); err != nil {
		return nil, err
	}
	events, err := u.repos.Events.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domainLifecycle.Event{}
	}
	return events, nil
}
