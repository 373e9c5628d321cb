package intake

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/emissionfactor"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/quality"
	"pcaf-attribution/internal/domain/uow"
	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/infrastructure/metrics"
	"pcaf-attribution/pkg/id"

	"github.com/phuslu/log"
)

type Usecase struct {
	uow     uow.UnitOfWork
	loans   loan.Repository
	factors emissionfactor.Repository
	log     *log.Logger
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, factors emissionfactor.Repository, logger *log.Logger) *Usecase {
	return &Usecase{
		uow:     tx,
		loans:   loans,
		factors: factors,
		log:     logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func nonNegative(name string, v *float64) error {
	if v != nil && (!finite(*v) || *v < 0) {
		return loan.Validationf("%s must be a non-negative number", name)
	}
	return nil
}

func validate(in CreateLoanInput) error {
	switch {
	case !finite(in.Principal) || in.Principal <= 0:
		return loan.Validationf("principal must be positive")
	case !finite(in.AssetValue) || in.AssetValue < 0:
		return loan.Validationf("asset_value must be a non-negative number")
	case !finite(in.InterestRate) || in.InterestRate < 0:
		return loan.Validationf("interest_rate must be a non-negative number")
	case in.TermYears <= 0:
		return loan.Validationf("term_years must be positive")
	case strings.TrimSpace(in.VehicleCategory) == "":
		return loan.Validationf("vehicle_category is required")
	case strings.TrimSpace(in.FuelType) == "":
		return loan.Validationf("fuel_type is required")
	}
	switch in.DistanceSource {
	case loan.DistanceUnknown, loan.DistancePrimary, loan.DistanceLocalStatistical, loan.DistanceRegionalStatistical:
	default:
		return loan.Validationf("unknown distance_source %q", in.DistanceSource)
	}
	for name, v := range map[string]*float64{
		"outstanding_balance":     in.OutstandingBalance,
		"borrower_revenue":        in.BorrowerRevenue,
		"actual_fuel_consumption": in.ActualFuelConsumption,
		"actual_distance_km":      in.ActualDistanceKm,
		"efficiency_kwh_100km":    in.EfficiencyKWh100km,
		"estimated_distance_km":   in.EstimatedDistanceKm,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}
	return nil
}

// distanceOf prefers a measured distance over the estimate.
func distanceOf(actual *float64, estimated float64) float64 {
	if actual != nil && *actual > 0 {
		return *actual
	}
	return estimated
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := amortization.DateOnly(*t)
	return &d
}

// Create classifies the loan, estimates its emissions from the reference
// table, computes its initial attribution and stores it together with the
// first history entry.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	dto, err := u.create(ctx, in)
	if err != nil {
		metrics.IncIntake(metrics.ResultError)
		return nil, err
	}
	metrics.IncIntake(metrics.ResultSuccess)
	return dto, nil
}

func (u *Usecase) create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	factor, err := u.factors.Lookup(ctx, emissionfactor.Query{
		VehicleCategory: strings.TrimSpace(in.VehicleCategory),
		FuelType:        strings.TrimSpace(in.FuelType),
		EngineSize:      strings.TrimSpace(in.EngineSize),
		Country:         strings.TrimSpace(in.Country),
		Region:          strings.TrimSpace(in.Region),
	})
	if errors.Is(err, emissionfactor.ErrNoMatch) {
		return nil, loan.Validationf("no emission factor for %s/%s", in.VehicleCategory, in.FuelType)
	}
	if err != nil {
		return nil, err
	}

	now := u.now()
	l := &loan.Loan{
		LoanID:                strings.TrimSpace(in.LoanID),
		BorrowerID:            strings.TrimSpace(in.BorrowerID),
		BorrowerRevenue:       in.BorrowerRevenue,
		Principal:             in.Principal,
		AssetValue:            in.AssetValue,
		InterestRate:          in.InterestRate,
		TermYears:             in.TermYears,
		OriginationDate:       dateOnly(in.OriginationDate),
		ReportingDate:         dateOnly(in.ReportingDate),
		VehicleCategory:       strings.TrimSpace(in.VehicleCategory),
		FuelType:              strings.TrimSpace(in.FuelType),
		EngineSize:            strings.TrimSpace(in.EngineSize),
		Country:               strings.TrimSpace(in.Country),
		Region:                strings.TrimSpace(in.Region),
		VehicleMake:           strings.TrimSpace(in.VehicleMake),
		VehicleModel:          strings.TrimSpace(in.VehicleModel),
		ActualFuelConsumption: in.ActualFuelConsumption,
		ActualDistanceKm:      in.ActualDistanceKm,
		EfficiencyKWh100km:    in.EfficiencyKWh100km,
		EstimatedDistanceKm:   quality.DefaultDistanceKm,
		DistanceSource:        in.DistanceSource,
		EmissionFactorKgKm:    factor.PerKm(),
		EmissionFactorSource:  factor.Source,
		CreatedAt:             now,
		LastCalculatedAt:      &now,
	}
	if l.LoanID == "" {
		l.LoanID = id.NewID32()
	}
	if in.EstimatedDistanceKm != nil && *in.EstimatedDistanceKm > 0 {
		l.EstimatedDistanceKm = *in.EstimatedDistanceKm
	}

	a := quality.Classify(quality.InputFromLoan(l))
	l.PCAFOption = string(a.Option)
	l.QualityScore = a.Score
	l.QualityDrivers = a.Drivers

	// tCO2e per year
	l.AnnualEmissions = distanceOf(l.ActualDistanceKm, l.EstimatedDistanceKm) * l.EmissionFactorKgKm / 1000

	asOf := amortization.DateOnly(now)
	if l.ReportingDate != nil {
		asOf = *l.ReportingDate
	}
	if in.OutstandingBalance != nil {
		l.ApplyAttribution(*in.OutstandingBalance, amortization.Factor(*in.OutstandingBalance, l.AssetValue))
	} else {
		terms := amortization.LoanTerms(l)
		if err := terms.Validate(); err != nil {
			return nil, loan.Validationf("%v", err)
		}
		l.ApplyAttribution(amortization.BalanceAsOfDate(amortization.Calculate(terms), asOf, nil))
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return r.History.Append(ctx, &attribution.History{
			LoanID:             l.LoanID,
			ReportingDate:      asOf,
			OutstandingBalance: l.OutstandingBalance,
			AssetValue:         l.AssetValue,
			AttributionFactor:  l.AttributionFactor,
			FinancedEmissions:  l.FinancedEmissions,
			AnnualEmissions:    l.AnnualEmissions,
			Reason:             attribution.ReasonScheduled,
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Str("loan_id", l.LoanID).
		Str("pcaf_option", l.PCAFOption).
		Int("quality_score", l.QualityScore).
		Float64("attribution_factor", l.AttributionFactor).
		Float64("financed_emissions", l.FinancedEmissions).
		Msg("loan created")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Quality reclassifies the stored loan. A non-empty target adds the list of
// requirements the loan is missing for that option.
func (u *Usecase) Quality(ctx context.Context, loanID, target string) (*QualityDTO, error) {
	var opt quality.Option
	if target != "" {
		var ok bool
		if opt, ok = quality.ParseOption(target); !ok {
			return nil, loan.Validationf("unknown PCAF option %q", target)
		}
	}
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	in := quality.InputFromLoan(l)
	a := quality.Classify(in)
	out := &QualityDTO{LoanID: l.LoanID, Assessment: a, Level: quality.DescribeScore(a.Score)}
	if target != "" {
		check := quality.ValidateForTarget(in, opt)
		out.Target, out.Check = &opt, &check
	}
	return out, nil
}
