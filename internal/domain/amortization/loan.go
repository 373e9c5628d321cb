package amortization

import "pcaf-attribution/internal/domain/loan"

// LoanTerms extracts the schedule inputs from a loan.
func LoanTerms(l *loan.Loan) Terms {
	return Terms{
		Principal:  l.Principal,
		AnnualRate: l.InterestRate,
		TermYears:  l.TermYears,
		AssetValue: l.AssetValue,
		StartDate:  DateOnly(l.ScheduleStart()),
	}
}
