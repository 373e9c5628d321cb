package http

import (
	"net/http"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/usecase/intake"
	"pcaf-attribution/internal/usecase/lifecycle"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	intake    *intake.Usecase
	lifecycle *lifecycle.Usecase
}

func NewLoanHandler(in *intake.Usecase, lc *lifecycle.Usecase) *LoanHandler {
	return &LoanHandler{intake: in, lifecycle: lc}
}

type createLoanReq struct {
	LoanID          string   `json:"loan_id"          validate:"omitempty,max=64"`
	BorrowerID      string   `json:"borrower_id"      validate:"omitempty,max=64"`
	BorrowerRevenue *float64 `json:"borrower_revenue" validate:"omitempty,gte=0"`

	Principal          float64  `json:"principal"           validate:"required,gt=0,dec2"`
	OutstandingBalance *float64 `json:"outstanding_balance" validate:"omitempty,gte=0,dec2"`
	AssetValue         float64  `json:"asset_value"         validate:"gte=0,dec2"`
	InterestRate       float64  `json:"interest_rate"       validate:"gte=0,lte=100"`
	TermYears          int      `json:"term_years"          validate:"required,gte=1,lte=50"`
	OriginationDate    string   `json:"origination_date"    validate:"omitempty,datetime=2006-01-02"`
	ReportingDate      string   `json:"reporting_date"      validate:"omitempty,datetime=2006-01-02"`

	VehicleCategory string `json:"vehicle_category" validate:"required,max=64"`
	FuelType        string `json:"fuel_type"        validate:"required,max=32"`
	EngineSize      string `json:"engine_size"      validate:"max=32"`
	Country         string `json:"country"          validate:"max=8"`
	Region          string `json:"region"           validate:"max=64"`
	VehicleMake     string `json:"vehicle_make"     validate:"max=64"`
	VehicleModel    string `json:"vehicle_model"    validate:"max=64"`

	ActualFuelConsumption *float64 `json:"actual_fuel_consumption" validate:"omitempty,gte=0"`
	ActualDistanceKm      *float64 `json:"actual_distance_km"      validate:"omitempty,gte=0"`
	EfficiencyKWh100km    *float64 `json:"efficiency_kwh_100km"    validate:"omitempty,gte=0"`
	EstimatedDistanceKm   *float64 `json:"estimated_distance_km"   validate:"omitempty,gte=0"`
	DistanceSource        string   `json:"distance_source"         validate:"omitempty,oneof=primary local_statistical regional_statistical"`
}

func (r createLoanReq) input() intake.CreateLoanInput {
	return intake.CreateLoanInput{
		LoanID:                r.LoanID,
		BorrowerID:            r.BorrowerID,
		BorrowerRevenue:       r.BorrowerRevenue,
		Principal:             r.Principal,
		OutstandingBalance:    r.OutstandingBalance,
		AssetValue:            r.AssetValue,
		InterestRate:          r.InterestRate,
		TermYears:             r.TermYears,
		OriginationDate:       parseDate(r.OriginationDate),
		ReportingDate:         parseDate(r.ReportingDate),
		VehicleCategory:       r.VehicleCategory,
		FuelType:              r.FuelType,
		EngineSize:            r.EngineSize,
		Country:               r.Country,
		Region:                r.Region,
		VehicleMake:           r.VehicleMake,
		VehicleModel:          r.VehicleModel,
		ActualFuelConsumption: r.ActualFuelConsumption,
		ActualDistanceKm:      r.ActualDistanceKm,
		EfficiencyKWh100km:    r.EfficiencyKWh100km,
		EstimatedDistanceKm:   r.EstimatedDistanceKm,
		DistanceSource:        loan.DistanceSource(r.DistanceSource),
	}
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.intake.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.intake.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type asOfReq struct {
	AsOf string `query:"as_of" json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	var req asOfReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.lifecycle.Schedule(c.Request().Context(), c.Param("loan_id"), dateOrZero(req.AsOf))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type qualityReq struct {
	Target string `query:"target" validate:"omitempty,pcafoption"`
}

func (h *LoanHandler) GetQuality(c echo.Context) error {
	var req qualityReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.intake.Quality(c.Request().Context(), c.Param("loan_id"), req.Target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Recalculate is the manual trigger; history rows are tagged manual_adjustment.
func (h *LoanHandler) Recalculate(c echo.Context) error {
	var req asOfReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.lifecycle.RecalculateBalance(c.Request().Context(), c.Param("loan_id"), dateOrZero(req.AsOf), attribution.ReasonManualAdjustment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type historyReq struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to"   validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) GetHistory(c echo.Context) error {
	var req historyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	entries, err := h.lifecycle.History(c.Request().Context(), c.Param("loan_id"), dateOrZero(req.From), dateOrZero(req.To))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id": c.Param("loan_id"),
		"entries": entries,
	})
}
