// Package portfolio aggregates loan records into PCAF reporting metrics.
// Every function here is a pure reduction over the loan slice it is given.
package portfolio

import (
	"math"
	"strings"

	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/quality"
)

// WDQS is the balance-weighted average quality score.
func WDQS(loans []loan.Loan) float64 {
	var weighted, total float64
	for _, l := range loans {
		weighted += l.OutstandingBalance * float64(l.QualityScore)
		total += l.OutstandingBalance
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// CompliancePercentage is the share of loans scoring 3 or better, 0-100.
func CompliancePercentage(loans []loan.Loan) float64 {
	if len(loans) == 0 {
		return 0
	}
	var n int
	for _, l := range loans {
		if quality.Compliant(l.QualityScore) {
			n++
		}
	}
	return float64(n) / float64(len(loans)) * 100
}

// Distribution counts loans per option. Every option is present.
func Distribution(loans []loan.Loan) map[quality.Option]int {
	out := make(map[quality.Option]int, len(quality.Options))
	for _, o := range quality.Options {
		out[o] = 0
	}
	for _, l := range loans {
		if o, ok := quality.ParseOption(l.PCAFOption); ok {
			out[o]++
		}
	}
	return out
}

type entity struct {
	emissions float64
	exposure  float64
	revenue   float64
}

// WACI groups loans by borrower and returns tCO2e per $M of revenue.
// Borrowers without a stated revenue are assumed to earn twice their exposure.
func WACI(loans []loan.Loan) float64 {
	entities := map[string]*entity{}
	for _, l := range loans {
		key := strings.TrimSpace(l.BorrowerID)
		if key == "" {
			key = l.LoanID
		}
		e, ok := entities[key]
		if !ok {
			e = &entity{}
			entities[key] = e
		}
		e.emissions += l.FinancedEmissions
		e.exposure += l.OutstandingBalance
		if l.BorrowerRevenue != nil && *l.BorrowerRevenue > 0 {
			e.revenue = math.Max(e.revenue, *l.BorrowerRevenue)
		}
	}

	var weightedEmissions, weightedRevenue float64
	for _, e := range entities {
		revenue := e.revenue
		if revenue == 0 {
			revenue = 2 * e.exposure
		}
		weightedEmissions += e.emissions * e.exposure
		weightedRevenue += revenue * e.exposure
	}
	if weightedRevenue == 0 {
		return 0
	}
	return weightedEmissions / weightedRevenue * 1_000_000
}

type QualityBreakdown struct {
	Excellent        int `json:"excellent"`
	Good             int `json:"good"`
	Acceptable       int `json:"acceptable"`
	NeedsImprovement int `json:"needs_improvement"`
}

func Breakdown(loans []loan.Loan) QualityBreakdown {
	var b QualityBreakdown
	for _, l := range loans {
		switch {
		case l.QualityScore <= 1:
			b.Excellent++
		case l.QualityScore == 2:
			b.Good++
		case l.QualityScore == 3:
			b.Acceptable++
		default:
			b.NeedsImprovement++
		}
	}
	return b
}
