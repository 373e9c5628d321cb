package portfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/quality"
)

// Reporting thresholds. These are part of the PCAF reporting contract.
const (
	WDQSThreshold         = 3.0
	ComplianceTarget      = 80.0
	PoorQualityShare      = 0.2
	HighQualityShareFloor = 0.3
	Option3bShareCeiling  = 0.2
	Option1aShareFloor    = 0.1
	HighAttribution       = 0.8
)

type Status string

const (
	StatusExcellent        Status = "excellent"
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs-improvement"
)

// Summary is a disposable aggregate; it can be recomputed from the loans at any time.
type Summary struct {
	TotalLoans             int                    `json:"total_loans"`
	TotalBalance           float64                `json:"total_outstanding_balance"`
	TotalAnnualEmissions   float64                `json:"total_annual_emissions"`
	TotalFinancedEmissions float64                `json:"total_financed_emissions"`
	WDQS                   float64                `json:"wdqs"`
	WDQSStatus             Status                 `json:"wdqs_status"`
	CompliancePercentage   float64                `json:"compliance_percentage"`
	OptionDistribution     map[quality.Option]int `json:"option_distribution"`
	QualityBreakdown       QualityBreakdown       `json:"quality_breakdown"`
	EmissionsByFuelType    map[string]float64     `json:"emissions_by_fuel_type"`
	EmissionsByCategory    map[string]float64     `json:"emissions_by_vehicle_category"`
	WACI                   float64                `json:"waci"`
	WACIStatus             Status                 `json:"waci_status"`
	PhysicalIntensity      float64                `json:"physical_intensity"`
	EconomicIntensity      float64                `json:"economic_intensity"`
	HighAttributionLoans   int                    `json:"high_attribution_loans"`
	Recommendations        []string               `json:"recommendations"`
}

// Summarize computes every portfolio metric. An empty slice yields zeros.
func Summarize(loans []loan.Loan) Summary {
	s := Summary{
		TotalLoans:          len(loans),
		OptionDistribution:  Distribution(loans),
		QualityBreakdown:    Breakdown(loans),
		EmissionsByFuelType: map[string]float64{},
		EmissionsByCategory: map[string]float64{},
		Recommendations:     Recommendations(loans),
	}
	for _, l := range loans {
		s.TotalBalance += l.OutstandingBalance
		s.TotalAnnualEmissions += l.AnnualEmissions
		s.TotalFinancedEmissions += l.FinancedEmissions
		s.EmissionsByFuelType[groupKey(l.FuelType)] += l.FinancedEmissions
		s.EmissionsByCategory[groupKey(l.VehicleCategory)] += l.FinancedEmissions
		if l.AttributionFactor > HighAttribution {
			s.HighAttributionLoans++
		}
	}

	wdqs := WDQS(loans)
	waci := WACI(loans)
	s.WDQS = round(wdqs, 2)
	s.WDQSStatus = wdqsStatus(wdqs)
	s.CompliancePercentage = round(CompliancePercentage(loans), 1)
	s.WACI = round(waci, 2)
	s.WACIStatus = waciStatus(waci)
	if len(loans) > 0 {
		s.PhysicalIntensity = s.TotalFinancedEmissions / float64(len(loans))
	}
	if s.TotalBalance > 0 {
		s.EconomicIntensity = s.TotalFinancedEmissions / (s.TotalBalance / 1_000_000)
	}
	return s
}

// Recommendations are emitted in a fixed order. An empty portfolio has none.
func Recommendations(loans []loan.Loan) []string {
	out := []string{}
	n := float64(len(loans))
	if n == 0 {
		return out
	}

	wdqs := WDQS(loans)
	compliance := CompliancePercentage(loans)
	dist := Distribution(loans)
	breakdown := Breakdown(loans)

	if wdqs > WDQSThreshold {
		out = append(out, "Portfolio WDQS exceeds PCAF threshold (≤3). Prioritize data quality improvements.")
	}
	if compliance < ComplianceTarget {
		out = append(out, fmt.Sprintf("Only %d%% of loans meet PCAF compliance. Target 80%%+ compliance.", int(math.Round(compliance))))
	}
	if float64(breakdown.NeedsImprovement) > n*PoorQualityShare {
		out = append(out, "More than 20% of loans have poor data quality (score 4-5). Prioritize data collection for these loans.")
	}
	if float64(dist[quality.Option1a]+dist[quality.Option1b])/n < HighQualityShareFloor {
		out = append(out, "Less than 30% using high-quality options (1a/1b). Implement data collection programs.")
	}
	if float64(dist[quality.Option3b])/n > Option3bShareCeiling {
		out = append(out, "More than 20% of loans using Option 3b - highest priority for data improvement")
	}
	if float64(dist[quality.Option1a])/n < Option1aShareFloor {
		out = append(out, "Consider implementing fuel consumption tracking systems")
	}
	return out
}

func wdqsStatus(v float64) Status {
	switch {
	case v <= 2.5:
		return StatusExcellent
	case v <= WDQSThreshold:
		return StatusGood
	}
	return StatusNeedsImprovement
}

func waciStatus(v float64) Status {
	switch {
	case v <= 200:
		return StatusExcellent
	case v <= 400:
		return StatusGood
	}
	return StatusNeedsImprovement
}

func groupKey(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
