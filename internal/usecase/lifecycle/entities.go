package lifecycle

import (
	"time"

	"pcaf-attribution/internal/domain/amortization"
	domainLifecycle "pcaf-attribution/internal/domain/lifecycle"
)

type RecordEventInput struct {
	LoanID    string
	Type      domainLifecycle.EventType
	EventDate time.Time
	Amount    *float64
	NewTerms  *domainLifecycle.Terms
	Note      string
}

// EventImpactDTO describes how an event moved the loan's attribution.
type EventImpactDTO struct {
	EventID                 string    `json:"event_id"`
	LoanID                  string    `json:"loan_id"`
	EventType               string    `json:"event_type"`
	EventDate               time.Time `json:"event_date"`
	PreviousBalance         float64   `json:"previous_balance"`
	NewBalance              float64   `json:"new_balance"`
	PreviousFactor          float64   `json:"previous_attribution_factor"`
	NewFactor               float64   `json:"new_attribution_factor"`
	FinancedEmissionsChange float64   `json:"financed_emissions_change"`
}

type RecalculationDTO struct {
	LoanID             string    `json:"loan_id"`
	AsOf               time.Time `json:"as_of"`
	Reason             string    `json:"calculation_reason"`
	PreviousBalance    float64   `json:"previous_balance"`
	OutstandingBalance float64   `json:"outstanding_balance"`
	PreviousFactor     float64   `json:"previous_attribution_factor"`
	AttributionFactor  float64   `json:"attribution_factor"`
	AnnualEmissions    float64   `json:"annual_emissions"`
	FinancedEmissions  float64   `json:"financed_emissions"`
}

// BatchResult summarizes a batch run. Errors holds one message per failed loan.
type BatchResult struct {
	AsOf      time.Time `json:"as_of"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors"`
}

type ScheduleDTO struct {
	LoanID             string                     `json:"loan_id"`
	AsOf               time.Time                  `json:"as_of"`
	MonthlyPayment     float64                    `json:"monthly_payment"`
	TotalInterest      float64                    `json:"total_interest"`
	TotalPayments      int                        `json:"total_payments"`
	OutstandingBalance float64                    `json:"outstanding_balance"`
	AttributionFactor  float64                    `json:"attribution_factor"`
	PayoffSavings      amortization.PayoffSavings `json:"early_payoff"`
	Entries            []amortization.Entry       `json:"entries"`
}
