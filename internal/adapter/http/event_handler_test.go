package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"pcaf-attribution/internal/usecase/lifecycle"
)

func TestRecordEvent(t *testing.T) {
	e := newAPI(t)
	if rec := do(e, stdhttp.MethodPost, "/loans", carLoanBody()); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := do(e, stdhttp.MethodPost, "/loans/LN-1/events", map[string]any{
		"event_type": "partial_payment",
		"event_date": "2025-01-15",
		"amount":     5000,
		"note":       "bonus payment",
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var impact lifecycle.EventImpactDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &impact); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if impact.EventType != "partial_payment" || impact.NewFactor >= impact.PreviousFactor || impact.FinancedEmissionsChange >= 0 {
		t.Fatalf("unexpected impact: %+v", impact)
	}

	rec = do(e, stdhttp.MethodGet, "/loans/LN-1/events", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Events []json.RawMessage `json:"events"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(list.Events))
	}
}

func TestRecordEvent_Rejects(t *testing.T) {
	e := newAPI(t)
	if rec := do(e, stdhttp.MethodPost, "/loans", carLoanBody()); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	cases := []struct {
		name   string
		target string
		body   map[string]any
		code   int
	}{
		{"unknown type", "/loans/LN-1/events", map[string]any{"event_type": "write_off", "event_date": "2025-01-01"}, stdhttp.StatusUnprocessableEntity},
		{"missing date", "/loans/LN-1/events", map[string]any{"event_type": "default"}, stdhttp.StatusUnprocessableEntity},
		{"partial without amount", "/loans/LN-1/events", map[string]any{"event_type": "partial_payment", "event_date": "2025-01-01"}, stdhttp.StatusUnprocessableEntity},
		{"negative amount", "/loans/LN-1/events", map[string]any{"event_type": "refinance", "event_date": "2025-01-01", "amount": -10}, stdhttp.StatusUnprocessableEntity},
		{"unknown loan", "/loans/LN-404/events", map[string]any{"event_type": "default", "event_date": "2025-01-01"}, stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(e, stdhttp.MethodPost, tc.target, tc.body); rec.Code != tc.code {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tc.code, rec.Body.String())
			}
		})
	}
}

func TestRecordEvent_MissingPathParam(t *testing.T) {
	e := newEchoWithValidator()
	h := NewEventHandler(nil)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans//events", nil)
	rec := httptest.NewRecorder()
	if err := h.RecordEvent(e.NewContext(req, rec)); err != nil {
		t.Fatalf("RecordEvent error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
