package emissionfactor

import (
	"errors"
	"strings"
)

var ErrNoMatch = errors.New("no emission factor for asset/fuel combination")

// Factor is a read-only reference row.
// Table: emission_factors
type Factor struct {
	ID              uint64 `gorm:"primaryKey;column:id" json:"-" yaml:"-"`
	VehicleCategory string `gorm:"size:64;not null;index:idx_emission_factors_lookup,priority:1" json:"vehicle_category" yaml:"vehicle_category"`
	FuelType        string `gorm:"size:32;not null;index:idx_emission_factors_lookup,priority:2" json:"fuel_type" yaml:"fuel_type"`
	EngineSizeRange string `gorm:"size:32" json:"engine_size_range" yaml:"engine_size_range"`
	Country         string `gorm:"size:8" json:"country,omitempty" yaml:"country"`
	Region          string `gorm:"size:64" json:"region,omitempty" yaml:"region"`
	GeographicScope string `gorm:"size:64" json:"geographic_scope" yaml:"geographic_scope"`

	KgCO2PerKm          float64  `gorm:"column:kg_co2_per_km" json:"kg_co2_per_km" yaml:"kg_co2_per_km"`
	ElectricityKWhPerKm *float64 `gorm:"column:electricity_kwh_per_km" json:"electricity_kwh_per_km,omitempty" yaml:"electricity_kwh_per_km"`
	GridKgCO2PerKWh     *float64 `gorm:"column:grid_kg_co2_per_kwh" json:"grid_kg_co2_per_kwh,omitempty" yaml:"grid_kg_co2_per_kwh"`

	// Baseline PCAF tier the factor supports on its own.
	DataQualityLevel int    `json:"data_quality_level" yaml:"data_quality_level"`
	PCAFOption       string `gorm:"column:pcaf_option;size:2" json:"pcaf_option" yaml:"pcaf_option"`
	TemporalScope    string `gorm:"size:16" json:"temporal_scope" yaml:"temporal_scope"`
	Source           string `gorm:"size:128" json:"source" yaml:"source"`
}

func (Factor) TableName() string { return "emission_factors" }

// PerKm is the effective kg CO2 per km. Electric rows with both consumption
// and a grid intensity are derived from them; everything else uses the
// direct factor.
func (f Factor) PerKm() float64 {
	if f.ElectricityKWhPerKm != nil && f.GridKgCO2PerKWh != nil {
		return *f.ElectricityKWhPerKm * *f.GridKgCO2PerKWh
	}
	return f.KgCO2PerKm
}

// Query identifies the asset being financed. Category and fuel are
// mandatory; engine size and geography only refine the choice.
type Query struct {
	VehicleCategory string
	FuelType        string
	EngineSize      string
	Country         string
	Region          string
}

const anyBand = "all"

// Best picks the most specific candidate for q: category and fuel must
// match, then an exact engine band beats "all", and an exact country beats
// a region, which beats a global row. Rows for another engine band or
// another geography never match. Ties keep table order.
func Best(candidates []Factor, q Query) (*Factor, bool) {
	best, bestScore := -1, -1
	for i, f := range candidates {
		if !strings.EqualFold(f.VehicleCategory, q.VehicleCategory) || !strings.EqualFold(f.FuelType, q.FuelType) {
			continue
		}
		if conflicts(f.EngineSizeRange, q.EngineSize) || conflicts(f.Country, q.Country) || conflicts(f.Region, q.Region) {
			continue
		}
		score := 0
		switch {
		case q.EngineSize != "" && strings.EqualFold(f.EngineSizeRange, q.EngineSize):
			score += 4
		case f.EngineSizeRange == "" || strings.EqualFold(f.EngineSizeRange, anyBand):
			score += 2
		}
		switch {
		case q.Country != "" && strings.EqualFold(f.Country, q.Country):
			score += 3
		case q.Region != "" && strings.EqualFold(f.Region, q.Region):
			score += 2
		case f.Country == "" && f.Region == "":
			score++
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, false
	}
	out := candidates[best]
	return &out, true
}

// conflicts reports whether a row scoped to have contradicts a query asking
// for want. Unscoped rows ("" or "all") and unspecified queries never do.
func conflicts(have, want string) bool {
	if have == "" || strings.EqualFold(have, anyBand) || want == "" {
		return false
	}
	return !strings.EqualFold(have, want)
}
