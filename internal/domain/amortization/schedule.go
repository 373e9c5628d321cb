package amortization

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidTerms = errors.New("invalid amortization terms")

// Terms are the inputs a schedule is derived from. Any change to them
// invalidates the whole schedule.
type Terms struct {
	Principal  float64   `json:"principal"`
	AnnualRate float64   `json:"annual_rate"` // nominal, percent
	TermYears  int       `json:"term_years"`
	AssetValue float64   `json:"asset_value"`
	StartDate  time.Time `json:"start_date"`
}

// Validate rejects inputs the calculator must never see.
func (t Terms) Validate() error {
	switch {
	case t.TermYears <= 0:
		return fmt.Errorf("%w: term_years must be positive, got %d", ErrInvalidTerms, t.TermYears)
	case !finite(t.Principal) || t.Principal < 0:
		return fmt.Errorf("%w: principal must be a non-negative number", ErrInvalidTerms)
	case !finite(t.AnnualRate) || t.AnnualRate < 0:
		return fmt.Errorf("%w: interest rate must be a non-negative number", ErrInvalidTerms)
	case !finite(t.AssetValue) || t.AssetValue < 0:
		return fmt.Errorf("%w: asset value must be a non-negative number", ErrInvalidTerms)
	case t.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", ErrInvalidTerms)
	}
	return nil
}

// Key identifies the schedule produced by these terms.
func (t Terms) Key() string {
	return fmt.Sprintf("%.2f|%.6f|%d|%.2f|%s",
		t.Principal, t.AnnualRate, t.TermYears, t.AssetValue, DateOnly(t.StartDate).Format(time.DateOnly))
}

type Entry struct {
	Period            int       `json:"period"`
	PaymentDate       time.Time `json:"payment_date"`
	Payment           float64   `json:"payment_amount"`
	Principal         float64   `json:"principal_payment"`
	Interest          float64   `json:"interest_payment"`
	RemainingBalance  float64   `json:"remaining_balance"`
	AttributionFactor float64   `json:"attribution_factor"`
}

type Schedule struct {
	Terms          Terms   `json:"terms"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPayments  int     `json:"total_payments"`
	Entries        []Entry `json:"entries"`
}

// Factor is balance over asset value clamped to [0,1]; a missing asset
// value attributes nothing.
func Factor(balance, assetValue float64) float64 {
	if assetValue <= 0 || !finite(balance) || !finite(assetValue) {
		return 0
	}
	f := balance / assetValue
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// MonthlyPayment is the fixed instalment for an annual percent rate over n months.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / 12 / 100
	if r == 0 {
		return principal / float64(months)
	}
	g := math.Pow(1+r, float64(months))
	return principal * r * g / (g - 1)
}

// Calculate builds the full schedule of TermYears*12 monthly entries.
// Terms are expected to have passed Validate.
func Calculate(t Terms) Schedule {
	t.StartDate = DateOnly(t.StartDate)
	return calculate(t, t.TermYears*12)
}

func calculate(t Terms, months int) Schedule {
	s := Schedule{Terms: t, TotalPayments: months}
	if months <= 0 {
		return s
	}
	r := t.AnnualRate / 12 / 100
	m := MonthlyPayment(t.Principal, t.AnnualRate, months)
	s.MonthlyPayment = m
	s.Entries = make([]Entry, 0, months)

	balance := t.Principal
	for period := 1; period <= months; period++ {
		interest := balance * r
		principal := m - interest
		if period == months || principal > balance {
			// settle the float residue so the schedule closes at exactly zero
			principal = balance
		}
		balance = math.Max(0, balance-principal)
		s.TotalInterest += interest
		s.Entries = append(s.Entries, Entry{
			Period:            period,
			PaymentDate:       t.StartDate.AddDate(0, period, 0),
			Payment:           principal + interest,
			Principal:         principal,
			Interest:          interest,
			RemainingBalance:  balance,
			AttributionFactor: Factor(balance, t.AssetValue),
		})
	}
	return s
}

// ScheduledAt returns the unadjusted balance and factor on date d.
func (s Schedule) ScheduledAt(d time.Time) (float64, float64) {
	if len(s.Entries) == 0 {
		return s.Terms.Principal, Factor(s.Terms.Principal, s.Terms.AssetValue)
	}
	d = DateOnly(d)
	if d.Before(s.Entries[0].PaymentDate) {
		return s.Terms.Principal, s.Entries[0].AttributionFactor
	}
	// first entry paid strictly after d, minus one
	i := sort.Search(len(s.Entries), func(i int) bool { return s.Entries[i].PaymentDate.After(d) }) - 1
	e := s.Entries[i]
	return e.RemainingBalance, e.AttributionFactor
}

// Rounded returns a copy with every money amount rounded to cents.
func (s Schedule) Rounded() Schedule {
	out := s
	out.MonthlyPayment = RoundCents(s.MonthlyPayment)
	out.TotalInterest = RoundCents(s.TotalInterest)
	out.Entries = make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		e.Payment = RoundCents(e.Payment)
		e.Principal = RoundCents(e.Principal)
		e.Interest = RoundCents(e.Interest)
		e.RemainingBalance = RoundCents(e.RemainingBalance)
		out.Entries[i] = e
	}
	return out
}

// PayoffSavings projects the interest still owed on balance over the
// remaining months; paying off now saves all of it.
type PayoffSavings struct {
	CurrentBalance         float64 `json:"current_balance"`
	MonthlyPayment         float64 `json:"monthly_payment"`
	TotalInterestRemaining float64 `json:"total_interest_remaining"`
	InterestSavings        float64 `json:"interest_savings"`
}

func ProjectPayoffSavings(balance, annualRate float64, remainingMonths int, nextPayment time.Time) PayoffSavings {
	if balance <= 0 || remainingMonths <= 0 {
		return PayoffSavings{CurrentBalance: math.Max(0, balance)}
	}
	// the projection starts one month before the next instalment
	start := DateOnly(nextPayment).AddDate(0, -1, 0)
	s := calculate(Terms{Principal: balance, AnnualRate: annualRate, StartDate: start}, remainingMonths)
	return PayoffSavings{
		CurrentBalance:         RoundCents(balance),
		MonthlyPayment:         RoundCents(s.MonthlyPayment),
		TotalInterestRemaining: RoundCents(s.TotalInterest),
		InterestSavings:        RoundCents(s.TotalInterest),
	}
}

// RoundCents rounds a money amount half away from zero to two decimals.
func RoundCents(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
