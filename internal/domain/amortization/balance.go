package amortization

import (
	"math"
	"time"

	"pcaf-attribution/internal/domain/lifecycle"
)

// BalanceAsOfDate replays the loan's lifecycle events on top of the
// schedule and returns the balance and attribution factor on target.
//
// Events dated after target are ignored; the rest are applied in ascending
// date order. Partial payments shift the scheduled trajectory down, a
// default freezes the balance at its value on the default date, a refinance
// replaces it with the stated amount, and an early payoff ends the loan.
func BalanceAsOfDate(s Schedule, target time.Time, events []lifecycle.Event) (balance, factor float64) {
	target = DateOnly(target)
	applicable := make([]lifecycle.Event, 0, len(events))
	for _, ev := range events {
		if !DateOnly(ev.EventDate).After(target) {
			applicable = append(applicable, ev)
		}
	}
	if len(applicable) == 0 {
		return s.ScheduledAt(target)
	}
	lifecycle.SortByDate(applicable)

	var (
		frozen    bool
		frozenBal float64
		paidDown  float64
	)
	current := func(d time.Time) float64 {
		if frozen {
			return frozenBal
		}
		b, _ := s.ScheduledAt(d)
		return math.Max(0, b-paidDown)
	}

	for _, ev := range applicable {
		switch ev.Type {
		case lifecycle.EarlyPayoff:
			return 0, 0
		case lifecycle.PartialPayment:
			amt := ev.AmountOr(0)
			if amt <= 0 {
				continue
			}
			if frozen {
				frozenBal = math.Max(0, frozenBal-amt)
			} else {
				paidDown += amt
			}
		case lifecycle.Default:
			if !frozen {
				frozenBal = current(ev.EventDate)
				frozen = true
			}
		case lifecycle.Refinance:
			if ev.Amount != nil && *ev.Amount >= 0 {
				frozenBal = *ev.Amount
				frozen = true
			}
		}
	}

	balance = current(target)
	return balance, Factor(balance, s.Terms.AssetValue)
}
