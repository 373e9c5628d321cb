package quality

import (
	"strings"
	"time"

	"pcaf-attribution/internal/domain/loan"
)

// DefaultDistanceKm is the annual distance assumed when nothing better is
// known. A loan still carrying it is treated as having no real distance data.
const DefaultDistanceKm = 15000.0

// Input is the subset of loan data the classifier looks at.
type Input struct {
	VehicleCategory       string
	FuelType              string
	VehicleMake           string
	VehicleModel          string
	ActualFuelConsumption *float64
	ActualDistanceKm      *float64
	EfficiencyKWh100km    *float64
	EstimatedDistanceKm   float64
	DistanceSource        loan.DistanceSource
	OriginationDate       *time.Time
	ReportingDate         *time.Time
}

func InputFromLoan(l *loan.Loan) Input {
	return Input{
		VehicleCategory:       l.VehicleCategory,
		FuelType:              l.FuelType,
		VehicleMake:           l.VehicleMake,
		VehicleModel:          l.VehicleModel,
		ActualFuelConsumption: l.ActualFuelConsumption,
		ActualDistanceKm:      l.ActualDistanceKm,
		EfficiencyKWh100km:    l.EfficiencyKWh100km,
		EstimatedDistanceKm:   l.EstimatedDistanceKm,
		DistanceSource:        l.DistanceSource,
		OriginationDate:       l.OriginationDate,
		ReportingDate:         l.ReportingDate,
	}
}

type Assessment struct {
	Option      Option   `json:"option"`
	Score       int      `json:"score"`
	Drivers     []string `json:"drivers"`
	Compliant   bool     `json:"compliant"`
	Description string   `json:"description"`
	Methodology string   `json:"methodology"`
}

type facts struct {
	fuelConsumption bool
	actualDistance  bool
	makeModel       bool
	efficiency      bool
	electric        bool
	category        bool
	source          loan.DistanceSource
}

func factsOf(in Input) facts {
	return facts{
		fuelConsumption: positive(in.ActualFuelConsumption),
		actualDistance:  positive(in.ActualDistanceKm),
		makeModel:       strings.TrimSpace(in.VehicleMake) != "" && strings.TrimSpace(in.VehicleModel) != "",
		efficiency:      positive(in.EfficiencyKWh100km),
		electric:        strings.EqualFold(strings.TrimSpace(in.FuelType), "electric"),
		category:        strings.TrimSpace(in.VehicleCategory) != "",
		source:          in.DistanceSource,
	}
}

func (f facts) statistical() bool {
	return f.source == loan.DistanceLocalStatistical || f.source == loan.DistanceRegionalStatistical
}

type rule struct {
	option  Option
	score   int
	when    func(facts) bool
	drivers []string
}

// cascade is evaluated top-down and the first match wins. Measured,
// vehicle-specific data ranks above statistical averages.
var cascade = []rule{
	{
		option: Option1a, score: 1,
		when: func(f facts) bool { return f.fuelConsumption && f.makeModel },
		drivers: []string{
			"Actual fuel consumption data available",
			"Vehicle make and model known",
			"Highest data quality - measured consumption",
		},
	},
	{
		option: Option1b, score: 1,
		when: func(f facts) bool { return f.makeModel && f.actualDistance && (f.efficiency || !f.electric) },
		drivers: []string{
			"Vehicle make and model known",
			"Actual distance traveled available",
			"Vehicle efficiency data available",
		},
	},
	{
		option: Option2a, score: 2,
		when: func(f facts) bool { return f.makeModel && f.source == loan.DistanceLocalStatistical },
		drivers: []string{
			"Vehicle make and model known",
			"Local statistical distance data used",
			"Vehicle-specific efficiency available",
		},
	},
	{
		option: Option2b, score: 2,
		when: func(f facts) bool { return f.makeModel && f.source == loan.DistanceRegionalStatistical },
		drivers: []string{
			"Vehicle make and model known",
			"Regional statistical distance data used",
			"Vehicle-specific efficiency available",
		},
	},
	{
		option: Option3a, score: 3,
		when: func(f facts) bool { return f.category && f.statistical() },
		drivers: []string{
			"Vehicle type/category known",
			"Vehicle make and model unknown",
			"Statistical distance data used",
		},
	},
	{
		option: Option3b, score: 4,
		when: func(facts) bool { return true },
		drivers: []string{
			"Limited vehicle data available",
			"Average assumptions used",
			"Lowest data quality",
		},
	},
}

type floor struct {
	min    int
	when   func(Input, facts) bool
	driver string
}

// floors only ever raise the cascade's score.
var floors = []floor{
	{
		min:    4,
		when:   func(in Input, _ facts) bool { return in.OriginationDate == nil && in.ReportingDate == nil },
		driver: "Temporal attribution limited - no origination or reporting date",
	},
	{
		min:    3,
		when:   func(in Input, f facts) bool { return in.EstimatedDistanceKm == DefaultDistanceKm && !f.actualDistance },
		driver: "Default distance assumption used (15,000 km/year)",
	},
}

const maxScore = 5

// Classify maps the available data to a PCAF option and quality score.
// It never fails; missing data degrades the score.
func Classify(in Input) Assessment {
	f := factsOf(in)

	var r rule
	for _, candidate := range cascade {
		if candidate.when(f) {
			r = candidate
			break
		}
	}

	score := r.score
	drivers := append([]string(nil), r.drivers...)
	for _, fl := range floors {
		if fl.when(in, f) {
			score = max(score, fl.min)
			drivers = append(drivers, fl.driver)
		}
	}
	score = min(score, maxScore)

	d := details[r.option]
	return Assessment{
		Option:      r.option,
		Score:       score,
		Drivers:     drivers,
		Compliant:   Compliant(score),
		Description: d.Description,
		Methodology: d.Methodology,
	}
}

// Compliant reports whether a score meets the PCAF recommendation of 3 or better.
func Compliant(score int) bool { return score >= 1 && score <= 3 }

func positive(v *float64) bool { return v != nil && *v > 0 }
