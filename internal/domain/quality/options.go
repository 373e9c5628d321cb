package quality

import (
	"strings"

	"pcaf-attribution/internal/domain/loan"
)

type Option string

const (
	Option1a Option = "1a"
	Option1b Option = "1b"
	Option2a Option = "2a"
	Option2b Option = "2b"
	Option3a Option = "3a"
	Option3b Option = "3b"
)

// Options lists every option from best to worst.
var Options = []Option{Option1a, Option1b, Option2a, Option2b, Option3a, Option3b}

func (o Option) Valid() bool {
	_, ok := details[o]
	return ok
}

type OptionDetail struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Methodology  string   `json:"methodology"`
	Requirements []string `json:"requirements"`
	ScoreRange   [2]int   `json:"score_range"`
}

var details = map[Option]OptionDetail{
	Option1a: {
		Name:        "Option 1a: Actual Fuel Consumption",
		Description: "Vehicle emissions calculated based on primary data on actual vehicle fuel consumption",
		Methodology: "Measured fuel consumption × emission factor for specific vehicle",
		Requirements: []string{
			"Actual vehicle fuel consumption data",
			"Known vehicle make and model",
			"Direct measurement from borrower",
		},
		ScoreRange: [2]int{1, 1},
	},
	Option1b: {
		Name:        "Option 1b: Vehicle Efficiency + Actual Distance",
		Description: "Vehicle emissions calculated based on vehicle efficiency and actual distance traveled",
		Methodology: "Vehicle efficiency × actual distance traveled × emission factor",
		Requirements: []string{
			"Vehicle efficiency and fuel type from known make/model",
			"Primary data for actual vehicle distance traveled",
			"Known vehicle characteristics",
		},
		ScoreRange: [2]int{1, 1},
	},
	Option2a: {
		Name:        "Option 2a: Vehicle Efficiency + Local Statistical Distance",
		Description: "Vehicle emissions calculated based on vehicle efficiency and local statistical distance data",
		Methodology: "Vehicle efficiency × local average distance × emission factor",
		Requirements: []string{
			"Vehicle efficiency and fuel type from known make/model",
			"Estimated distance from local statistical data",
			"Regional data availability",
		},
		ScoreRange: [2]int{2, 2},
	},
	Option2b: {
		Name:        "Option 2b: Vehicle Efficiency + Regional Statistical Distance",
		Description: "Vehicle emissions calculated based on vehicle efficiency and regional statistical distance data",
		Methodology: "Vehicle efficiency × regional average distance × emission factor",
		Requirements: []string{
			"Vehicle efficiency and fuel type from known make/model",
			"Estimated distance from regional statistical data",
			"Broader regional averages used",
		},
		ScoreRange: [2]int{2, 2},
	},
	Option3a: {
		Name:        "Option 3a: Vehicle Type + Statistical Distance",
		Description: "Vehicle emissions calculated based on vehicle type and statistical distance data",
		Methodology: "Vehicle type average efficiency × statistical distance × emission factor",
		Requirements: []string{
			"Vehicle type known (make/model unknown)",
			"Vehicle efficiency from type averages",
			"Statistical distance data",
		},
		ScoreRange: [2]int{3, 3},
	},
	Option3b: {
		Name:        "Option 3b: Average Vehicle Assumptions",
		Description: "Vehicle emissions calculated based on average vehicle assumptions",
		Methodology: "Average vehicle efficiency × estimated distance × average emission factor",
		Requirements: []string{
			"Vehicle type may be unknown",
			"Average vehicle efficiency used",
			"Estimated distance from general assumptions",
		},
		ScoreRange: [2]int{4, 5},
	},
}

// Details returns the catalogue entry for o.
func Details(o Option) (OptionDetail, bool) {
	d, ok := details[o]
	return d, ok
}

type TargetCheck struct {
	Valid               bool     `json:"valid"`
	MissingRequirements []string `json:"missing_requirements"`
	Recommendations     []string `json:"recommendations"`
}

// ValidateForTarget lists what in is missing to qualify for target.
func ValidateForTarget(in Input, target Option) TargetCheck {
	f := factsOf(in)
	missing := []string{}
	recs := []string{}

	switch target {
	case Option1a:
		if !f.fuelConsumption {
			missing = append(missing, "Actual fuel consumption data")
		}
		if !f.makeModel {
			missing = append(missing, "Vehicle make and model")
		}
	case Option1b:
		if !f.actualDistance {
			missing = append(missing, "Actual distance traveled")
		}
		if !f.makeModel {
			missing = append(missing, "Vehicle make and model")
		}
		if f.electric && !f.efficiency {
			missing = append(missing, "Vehicle efficiency (kWh/100km) for electric vehicle")
		}
	case Option2a, Option2b:
		if !f.makeModel {
			missing = append(missing, "Vehicle make and model")
		}
		if f.source == loan.DistanceUnknown {
			missing = append(missing, "Statistical distance data source")
		}
	case Option3a:
		if !f.category {
			missing = append(missing, "Vehicle category/type")
		}
	case Option3b:
		recs = append(recs, "Consider collecting vehicle type data to improve to Option 3a")
	}

	if in.OriginationDate == nil {
		recs = append(recs, "Add loan origination date for proper temporal attribution")
	}
	if in.EstimatedDistanceKm == DefaultDistanceKm {
		recs = append(recs, "Collect actual distance data to improve data quality")
	}

	return TargetCheck{Valid: len(missing) == 0, MissingRequirements: missing, Recommendations: recs}
}

type Level struct {
	Name        string `json:"level"`
	Description string `json:"description"`
	Compliance  string `json:"compliance"`
}

var levels = [...]Level{
	{"Level 1 - Verified Actual", "Asset-specific measured data with high confidence", "excellent"},
	{"Level 2 - Partially Verified", "Mix of asset-specific and statistical data", "good"},
	{"Level 3 - Estimated Proxy", "Representative proxy data with reasonable confidence", "acceptable"},
	{"Level 4 - Estimated Average", "Average proxy data with limited confidence", "needs-improvement"},
	{"Level 5 - Very Estimated", "Highly uncertain data with very limited confidence", "poor"},
}

// DescribeScore maps a score to its level. Out-of-range scores are clamped.
func DescribeScore(score int) Level {
	return levels[min(max(score, 1), maxScore)-1]
}

// ParseOption accepts option codes in any case.
func ParseOption(s string) (Option, bool) {
	o := Option(strings.ToLower(strings.TrimSpace(s)))
	return o, o.Valid()
}
