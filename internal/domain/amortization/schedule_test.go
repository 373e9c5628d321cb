package amortization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func carLoan() Terms {
	return Terms{Principal: 30000, AnnualRate: 5, TermYears: 5, AssetValue: 35000, StartDate: date(2024, 1, 1)}
}

func TestCalculate_FixedPayment(t *testing.T) {
	s := Calculate(carLoan())

	require.Len(t, s.Entries, 60)
	assert.Equal(t, 60, s.TotalPayments)
	assert.InDelta(t, 566.14, s.MonthlyPayment, 0.01)

	first := s.Entries[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, date(2024, 2, 1), first.PaymentDate)
	assert.InDelta(t, 125.0, first.Interest, 1e-9)
	assert.InDelta(t, 0.8445, first.AttributionFactor, 0.001)

	last := s.Entries[59]
	assert.Equal(t, date(2029, 1, 1), last.PaymentDate)
	assert.Equal(t, 0.0, last.RemainingBalance)
	assert.Equal(t, 0.0, last.AttributionFactor)

	var principal float64
	for _, e := range s.Entries {
		principal += e.Principal
		assert.GreaterOrEqual(t, e.AttributionFactor, 0.0)
		assert.LessOrEqual(t, e.AttributionFactor, 1.0)
	}
	assert.InDelta(t, 30000.0, principal, 1e-6)
}

func TestCalculate_ZeroRate(t *testing.T) {
	s := Calculate(Terms{Principal: 12000, TermYears: 1, AssetValue: 10000, StartDate: date(2024, 3, 15)})

	assert.InDelta(t, 1000.0, s.MonthlyPayment, 1e-9)
	assert.Equal(t, 0.0, s.TotalInterest)
	// balance above asset value caps the factor
	assert.Equal(t, 1.0, s.Entries[0].AttributionFactor)
	assert.Equal(t, 0.0, s.Entries[11].RemainingBalance)
}

func TestTermsValidate(t *testing.T) {
	ok := carLoan()
	require.NoError(t, ok.Validate())

	cases := map[string]func(*Terms){
		"zero term":          func(t *Terms) { t.TermYears = 0 },
		"negative principal": func(t *Terms) { t.Principal = -1 },
		"negative rate":      func(t *Terms) { t.AnnualRate = -0.5 },
		"missing start":      func(t *Terms) { t.StartDate = time.Time{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			terms := carLoan()
			mutate(&terms)
			assert.ErrorIs(t, terms.Validate(), ErrInvalidTerms)
		})
	}
}

func TestScheduledAt(t *testing.T) {
	s := Calculate(carLoan())

	b, f := s.ScheduledAt(date(2024, 1, 20))
	assert.Equal(t, 30000.0, b)
	assert.Equal(t, s.Entries[0].AttributionFactor, f)

	b, _ = s.ScheduledAt(date(2024, 2, 1))
	assert.Equal(t, s.Entries[0].RemainingBalance, b)

	b, _ = s.ScheduledAt(date(2024, 7, 31))
	assert.Equal(t, s.Entries[5].RemainingBalance, b)

	b, f = s.ScheduledAt(date(2035, 1, 1))
	assert.Equal(t, 0.0, b)
	assert.Equal(t, 0.0, f)
}

func TestFactor(t *testing.T) {
	assert.Equal(t, 0.5, Factor(50, 100))
	assert.Equal(t, 1.0, Factor(150, 100))
	assert.Equal(t, 0.0, Factor(-10, 100))
	assert.Equal(t, 0.0, Factor(10, 0))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 566.14, RoundCents(566.137))
	assert.Equal(t, 2.68, RoundCents(2.675))
	assert.Equal(t, 0.0, RoundCents(0))
}

func TestRounded(t *testing.T) {
	s := Calculate(carLoan()).Rounded()
	assert.Equal(t, 566.14, s.MonthlyPayment)
	assert.Equal(t, 125.0, s.Entries[0].Interest)
}

func TestProjectPayoffSavings(t *testing.T) {
	got := ProjectPayoffSavings(30000, 5, 60, date(2024, 2, 1))
	want := Calculate(carLoan())
	assert.Equal(t, RoundCents(want.TotalInterest), got.InterestSavings)
	assert.Equal(t, 566.14, got.MonthlyPayment)

	none := ProjectPayoffSavings(0, 5, 12, date(2024, 2, 1))
	assert.Equal(t, PayoffSavings{}, none)
}
