package intake

import (
	"time"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/quality"
)

// CreateLoanInput is the loan-input shape collaborators translate into.
// LoanID is generated when empty. OutstandingBalance, when set, overrides
// the schedule-derived balance at intake.
type CreateLoanInput struct {
	LoanID          string
	BorrowerID      string
	BorrowerRevenue *float64

	Principal          float64
	OutstandingBalance *float64
	AssetValue         float64
	InterestRate       float64
	TermYears          int
	OriginationDate    *time.Time
	ReportingDate      *time.Time

	VehicleCategory string
	FuelType        string
	EngineSize      string
	Country         string
	Region          string
	VehicleMake     string
	VehicleModel    string

	ActualFuelConsumption *float64
	ActualDistanceKm      *float64
	EfficiencyKWh100km    *float64
	EstimatedDistanceKm   *float64
	DistanceSource        loan.DistanceSource
}

type LoanDTO struct {
	LoanID             string     `json:"loan_id"`
	BorrowerID         string     `json:"borrower_id"`
	Principal          float64    `json:"principal"`
	OutstandingBalance float64    `json:"outstanding_balance"`
	AssetValue         float64    `json:"asset_value"`
	InterestRate       float64    `json:"interest_rate"`
	TermYears          int        `json:"term_years"`
	OriginationDate    *time.Time `json:"origination_date,omitempty"`
	ReportingDate      *time.Time `json:"reporting_date,omitempty"`

	VehicleCategory string `json:"vehicle_category"`
	FuelType        string `json:"fuel_type"`
	VehicleMake     string `json:"vehicle_make,omitempty"`
	VehicleModel    string `json:"vehicle_model,omitempty"`

	DistanceKm           float64 `json:"distance_km"`
	EmissionFactorKgKm   float64 `json:"emission_factor_kg_km"`
	EmissionFactorSource string  `json:"emission_factor_source,omitempty"`
	AttributionFactor    float64 `json:"attribution_factor"`
	AnnualEmissions      float64 `json:"annual_emissions"`
	FinancedEmissions    float64 `json:"financed_emissions"`

	PCAFOption     string   `json:"pcaf_option"`
	QualityScore   int      `json:"quality_score"`
	QualityDrivers []string `json:"quality_drivers"`
	Compliant      bool     `json:"compliant"`

	EarlyPayoffDate  *time.Time `json:"early_payoff_date,omitempty"`
	RefinanceDate    *time.Time `json:"refinance_date,omitempty"`
	DefaultDate      *time.Time `json:"default_date,omitempty"`
	LastCalculatedAt *time.Time `json:"last_calculated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	drivers := []string(l.QualityDrivers)
	if drivers == nil {
		drivers = []string{}
	}
	return &LoanDTO{
		LoanID:               l.LoanID,
		BorrowerID:           l.BorrowerID,
		Principal:            l.Principal,
		OutstandingBalance:   amortization.RoundCents(l.OutstandingBalance),
		AssetValue:           l.AssetValue,
		InterestRate:         l.InterestRate,
		TermYears:            l.TermYears,
		OriginationDate:      l.OriginationDate,
		ReportingDate:        l.ReportingDate,
		VehicleCategory:      l.VehicleCategory,
		FuelType:             l.FuelType,
		VehicleMake:          l.VehicleMake,
		VehicleModel:         l.VehicleModel,
		DistanceKm:           distanceOf(l.ActualDistanceKm, l.EstimatedDistanceKm),
		EmissionFactorKgKm:   l.EmissionFactorKgKm,
		EmissionFactorSource: l.EmissionFactorSource,
		AttributionFactor:    l.AttributionFactor,
		AnnualEmissions:      l.AnnualEmissions,
		FinancedEmissions:    l.FinancedEmissions,
		PCAFOption:           l.PCAFOption,
		QualityScore:         l.QualityScore,
		QualityDrivers:       drivers,
		Compliant:            l.Compliant(),
		EarlyPayoffDate:      l.EarlyPayoffDate,
		RefinanceDate:        l.RefinanceDate,
		DefaultDate:          l.DefaultDate,
		LastCalculatedAt:     l.LastCalculatedAt,
		CreatedAt:            l.CreatedAt,
	}
}

// QualityDTO is a loan's current classification, optionally checked against
// a target option.
type QualityDTO struct {
	LoanID     string               `json:"loan_id"`
	Assessment quality.Assessment   `json:"assessment"`
	Level      quality.Level        `json:"level"`
	Target     *quality.Option      `json:"target_option,omitempty"`
	Check      *quality.TargetCheck `json:"target_check,omitempty"`
}
