package loan

import (
	"time"

	"gorm.io/datatypes"
)

// Distance data provenance used by the PCAF classifier.
type DistanceSource string

const (
	DistancePrimary             DistanceSource = "primary"
	DistanceLocalStatistical    DistanceSource = "local_statistical"
	DistanceRegionalStatistical DistanceSource = "regional_statistical"
	DistanceUnknown             DistanceSource = ""
)

// Loan is the current attribution state of one financed asset.
// Table: loans
type Loan struct {
	ID              uint64   `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string   `gorm:"size:64;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID      string   `gorm:"size:64;index:idx_loans_borrower" json:"borrower_id"`
	BorrowerRevenue *float64 `gorm:"type:decimal(20,2)" json:"borrower_revenue,omitempty"`

	// Financial terms
	Principal          float64    `gorm:"type:decimal(18,2)" json:"principal"`
	OutstandingBalance float64    `gorm:"type:decimal(18,2)" json:"outstanding_balance"`
	AssetValue         float64    `gorm:"type:decimal(18,2)" json:"asset_value"`
	InterestRate       float64    `gorm:"type:decimal(8,4)" json:"interest_rate"`
	TermYears          int        `json:"term_years"`
	OriginationDate    *time.Time `gorm:"type:date" json:"origination_date,omitempty"`
	ReportingDate      *time.Time `gorm:"type:date" json:"reporting_date,omitempty"`

	// Asset attributes
	VehicleCategory string `gorm:"size:64;index" json:"vehicle_category"`
	FuelType        string `gorm:"size:32;index" json:"fuel_type"`
	EngineSize      string `gorm:"size:32" json:"engine_size,omitempty"`
	Country         string `gorm:"size:8" json:"country,omitempty"`
	Region          string `gorm:"size:64" json:"region,omitempty"`
	VehicleMake     string `gorm:"size:64" json:"vehicle_make,omitempty"`
	VehicleModel    string `gorm:"size:64" json:"vehicle_model,omitempty"`

	// Activity data
	ActualFuelConsumption *float64       `json:"actual_fuel_consumption,omitempty"`
	ActualDistanceKm      *float64       `json:"actual_distance_km,omitempty"`
	EfficiencyKWh100km    *float64       `gorm:"column:efficiency_kwh_100km" json:"efficiency_kwh_100km,omitempty"`
	EstimatedDistanceKm   float64        `json:"estimated_distance_km"`
	DistanceSource        DistanceSource `gorm:"size:32" json:"distance_source,omitempty"`

	// Attribution
	AttributionFactor    float64 `json:"attribution_factor"`
	AnnualEmissions      float64 `json:"annual_emissions"`
	FinancedEmissions    float64 `json:"financed_emissions"`
	EmissionFactorKgKm   float64 `gorm:"column:emission_factor_kg_km" json:"emission_factor_kg_km"`
	EmissionFactorSource string  `gorm:"size:128" json:"emission_factor_source,omitempty"`

	// Data quality
	PCAFOption     string                      `gorm:"column:pcaf_option;size:2;index" json:"pcaf_option"`
	QualityScore   int                         `json:"quality_score"`
	QualityDrivers datatypes.JSONSlice[string] `json:"quality_drivers"`

	// Lifecycle markers
	EarlyPayoffDate *time.Time `gorm:"type:date" json:"early_payoff_date,omitempty"`
	RefinanceDate   *time.Time `gorm:"type:date" json:"refinance_date,omitempty"`
	DefaultDate     *time.Time `gorm:"type:date" json:"default_date,omitempty"`

	LastCalculatedAt *time.Time `json:"last_calculated_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// ApplyAttribution replaces the balance/factor pair and rederives financed
// emissions from it, so the three fields never disagree.
func (l *Loan) ApplyAttribution(balance, factor float64) {
	if balance < 0 {
		balance = 0
	}
	switch {
	case factor < 0 || factor != factor:
		factor = 0
	case factor > 1:
		factor = 1
	}
	l.OutstandingBalance = balance
	l.AttributionFactor = factor
	l.FinancedEmissions = l.AnnualEmissions * factor
}

// ScheduleStart is the date amortization is counted from. Loans without an
// origination date amortize from the moment they were taken in.
func (l *Loan) ScheduleStart() time.Time {
	if l.OriginationDate != nil && !l.OriginationDate.IsZero() {
		return l.OriginationDate.UTC()
	}
	return l.CreatedAt.UTC()
}

// Compliant reports whether the loan meets the PCAF quality threshold.
func (l *Loan) Compliant() bool { return l.QualityScore > 0 && l.QualityScore <= 3 }
