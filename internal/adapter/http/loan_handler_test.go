package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pcaf-attribution/internal/adapter/repository/memory"
	"pcaf-attribution/internal/domain/emissionfactor"
	domain "pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/testutil/loanmock"
	"pcaf-attribution/internal/usecase/intake"
	"pcaf-attribution/internal/usecase/lifecycle"
	"pcaf-attribution/internal/usecase/portfolio"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// newAPI serves every route over an in-memory store.
func newAPI(t *testing.T) *echo.Echo {
	t.Helper()
	table, err := emissionfactor.DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable: %v", err)
	}
	store := memory.NewStore()
	repos := store.Repos()
	lc := lifecycle.NewUsecase(store, repos, nil, nil, 2)

	e := newEchoWithValidator()
	Routes{
		Health:    NewHandler(nil),
		Loans:     NewLoanHandler(intake.NewUsecase(store, repos.Loans, table, nil), lc),
		Events:    NewEventHandler(lc),
		Portfolio: NewPortfolioHandler(portfolio.NewUsecase(repos.Loans, nil), lc),
	}.Register(e)
	return e
}

func do(e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, target, mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func carLoanBody() map[string]any {
	return map[string]any{
		"loan_id":            "LN-1",
		"borrower_id":        "B-1",
		"principal":          30000,
		"asset_value":        35000,
		"interest_rate":      5,
		"term_years":         5,
		"origination_date":   "2024-01-01",
		"reporting_date":     "2025-01-01",
		"vehicle_category":   "passenger_car",
		"fuel_type":          "gasoline",
		"engine_size":        "1.5-2.0L",
		"vehicle_make":       "Toyota",
		"vehicle_model":      "Corolla",
		"actual_distance_km": 12000,
		"distance_source":    "primary",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

// -------- tests --------

func TestCreateLoan_Success(t *testing.T) {
	e := newAPI(t)

	rec := do(e, stdhttp.MethodPost, "/loans", carLoanBody())
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var got intake.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.LoanID != "LN-1" || got.PCAFOption != "1b" || got.QualityScore != 1 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.AttributionFactor <= 0 || got.AttributionFactor > 1 {
		t.Fatalf("factor out of range: %v", got.AttributionFactor)
	}

	rec = do(e, stdhttp.MethodGet, "/loans/LN-1", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := newAPI(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"principal":`)) // broken JSON
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if er := decodeError(t, rec); er.Error != "invalid body" {
		t.Fatalf("error = %q, want %q", er.Error, "invalid body")
	}
}

func TestCreateLoan_ValidationError(t *testing.T) {
	e := newAPI(t)

	body := carLoanBody()
	body["principal"] = 30000.123
	body["term_years"] = 0
	body["fuel_type"] = ""
	body["origination_date"] = "01/02/2024"
	body["distance_source"] = "guess"

	rec := do(e, stdhttp.MethodPost, "/loans", body)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	er := decodeError(t, rec)
	if er.Error != "validation failed" {
		t.Fatalf("error = %q, want %q", er.Error, "validation failed")
	}
	for field, msg := range map[string]string{
		"principal":        "at most 2 decimal places",
		"term_years":       "is required",
		"fuel_type":        "is required",
		"origination_date": "YYYY-MM-DD",
		"distance_source":  "must be one of",
	} {
		if !containsFieldMsg(er.Details, field, msg) {
			t.Fatalf("missing %s detail (%q): %+v", field, msg, er.Details)
		}
	}
}

func TestCreateLoan_NoEmissionFactor(t *testing.T) {
	e := newAPI(t)

	body := carLoanBody()
	body["vehicle_category"] = "airship"
	rec := do(e, stdhttp.MethodPost, "/loans", body)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if er := decodeError(t, rec); !strings.Contains(er.Error, "no emission factor") {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	e := newAPI(t)

	rec := do(e, stdhttp.MethodGet, "/loans/xxx", nil)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if er := decodeError(t, rec); !strings.Contains(er.Error, "xxx") {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestScheduleQualityAndHistory(t *testing.T) {
	e := newAPI(t)
	if rec := do(e, stdhttp.MethodPost, "/loans", carLoanBody()); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := do(e, stdhttp.MethodGet, "/loans/LN-1/schedule?as_of=2024-06-15", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("schedule status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var sched lifecycle.ScheduleDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(sched.Entries) != 60 || sched.MonthlyPayment != 566.14 {
		t.Fatalf("unexpected schedule: %d entries, payment %v", len(sched.Entries), sched.MonthlyPayment)
	}

	if rec := do(e, stdhttp.MethodGet, "/loans/LN-1/schedule?as_of=tomorrow", nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad as_of status = %d, want 422", rec.Code)
	}

	rec = do(e, stdhttp.MethodGet, "/loans/LN-1/quality?target=1a", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("quality status = %d", rec.Code)
	}
	var q intake.QualityDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &q)
	if q.Check == nil || q.Check.Valid {
		t.Fatalf("unexpected quality: %+v", q)
	}
	if rec := do(e, stdhttp.MethodGet, "/loans/LN-1/quality?target=9z", nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad target status = %d, want 422", rec.Code)
	}

	if rec := do(e, stdhttp.MethodPost, "/loans/LN-1/recalculate", map[string]string{"as_of": "2025-03-01"}); rec.Code != stdhttp.StatusOK {
		t.Fatalf("recalculate status = %d; body=%s", rec.Code, rec.Body.String())
	}

	rec = do(e, stdhttp.MethodGet, "/loans/LN-1/history?from=2025-01-01&to=2025-12-31", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var hist struct {
		Entries []struct {
			Reason string `json:"calculation_reason"`
		} `json:"entries"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &hist)
	if len(hist.Entries) != 2 || hist.Entries[0].Reason != "scheduled" || hist.Entries[1].Reason != "manual_adjustment" {
		t.Fatalf("unexpected history: %s", rec.Body.String())
	}

	if rec := do(e, stdhttp.MethodGet, "/loans/LN-1/history?from=2025-12-31&to=2025-01-01", nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("inverted range status = %d, want 422", rec.Code)
	}
}

func TestPortfolio_InternalErrorIsHidden(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{ListFn: func(context.Context) ([]domain.Loan, error) {
		return nil, errors.New("dial tcp 10.0.0.7:3306: connection refused")
	}}
	h := NewPortfolioHandler(portfolio.NewUsecase(repo, nil), nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/portfolio", nil)
	rec := httptest.NewRecorder()
	if err := h.Summary(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if er := decodeError(t, rec); er.Error != "internal error" {
		t.Fatalf("error = %q leaks internals", er.Error)
	}
}
