package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"

	"pcaf-attribution/internal/usecase/lifecycle"
)

func TestPortfolioRoutes(t *testing.T) {
	e := newAPI(t)

	rec := do(e, stdhttp.MethodGet, "/portfolio", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("empty summary status = %d", rec.Code)
	}
	var empty struct {
		TotalLoans      int      `json:"total_loans"`
		WDQS            float64  `json:"wdqs"`
		Recommendations []string `json:"recommendations"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &empty)
	if empty.TotalLoans != 0 || empty.WDQS != 0 || empty.Recommendations == nil {
		t.Fatalf("unexpected empty summary: %s", rec.Body.String())
	}

	for _, id := range []string{"LN-1", "LN-2"} {
		body := carLoanBody()
		body["loan_id"] = id
		if rec := do(e, stdhttp.MethodPost, "/loans", body); rec.Code != stdhttp.StatusCreated {
			t.Fatalf("create %s status = %d", id, rec.Code)
		}
	}

	rec = do(e, stdhttp.MethodPost, "/portfolio/recalculate", map[string]string{"as_of": "2025-06-01"})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("batch status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var batch lifecycle.BatchResult
	_ = json.Unmarshal(rec.Body.Bytes(), &batch)
	if batch.Total != 2 || batch.Succeeded != 2 || batch.Failed != 0 {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	rec = do(e, stdhttp.MethodGet, "/portfolio", nil)
	var summary struct {
		TotalLoans           int     `json:"total_loans"`
		WDQS                 float64 `json:"wdqs"`
		CompliancePercentage float64 `json:"compliance_percentage"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &summary)
	if summary.TotalLoans != 2 || summary.WDQS != 1 || summary.CompliancePercentage != 100 {
		t.Fatalf("unexpected summary: %s", rec.Body.String())
	}

	if rec := do(e, stdhttp.MethodDelete, "/portfolio", nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if rec := do(e, stdhttp.MethodGet, "/loans/LN-1", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("after reset status = %d, want 404", rec.Code)
	}
}

func TestOptions(t *testing.T) {
	e := newAPI(t)

	rec := do(e, stdhttp.MethodGet, "/pcaf/options", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var opts []struct {
		Option string `json:"option"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(opts) != 6 || opts[0].Option != "1a" || opts[0].Name == "" || opts[5].Option != "3b" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
