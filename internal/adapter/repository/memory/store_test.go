package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestStore_LoanCRUD(t *testing.T) {
	s := NewStore()
	r := s.Repos()
	ctx := context.Background()

	if err := r.Loans.Create(ctx, &loan.Loan{LoanID: "A", Principal: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Loans.Create(ctx, &loan.Loan{LoanID: "A"}); !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("duplicate: want ErrValidation, got %v", err)
	}
	if _, err := r.Loans.GetByLoanID(ctx, "B"); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("missing: want ErrNotFound, got %v", err)
	}

	got, err := r.Loans.GetByLoanID(ctx, "A")
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	got.Principal = 200
	// returned records are copies
	again, _ := r.Loans.GetByLoanID(ctx, "A")
	if again.Principal != 100 {
		t.Fatalf("store mutated through returned pointer")
	}
	if err := r.Loans.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, _ = r.Loans.GetByLoanID(ctx, "A")
	if again.Principal != 200 {
		t.Fatalf("Save not applied")
	}

	ids, _ := r.Loans.ListLoanIDs(ctx)
	if len(ids) != 1 || ids[0] != "A" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestStore_TxRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sentinel := errors.New("stop")

	err := s.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, &loan.Loan{LoanID: "A"}); err != nil {
			return err
		}
		if err := r.Events.Append(ctx, &lifecycle.Event{LoanID: "A", Type: lifecycle.Default, EventDate: day(2025, 1, 1)}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}

	r := s.Repos()
	if _, err := r.Loans.GetByLoanID(ctx, "A"); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("loan survived rollback: %v", err)
	}
	events, _ := r.Events.ListByLoanID(ctx, "A")
	if len(events) != 0 {
		t.Fatalf("events survived rollback: %d", len(events))
	}
}

func TestStore_WithinLoanTx_NotFound(t *testing.T) {
	s := NewStore()
	err := s.WithinLoanTx(context.Background(), "nope", func(uow.Repos, *loan.Loan) error { return nil })
	if !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_EventsAndHistoryOrdering(t *testing.T) {
	s := NewStore()
	r := s.Repos()
	ctx := context.Background()

	for _, d := range []time.Time{day(2025, 5, 1), day(2024, 2, 1), day(2025, 1, 1)} {
		_ = r.Events.Append(ctx, &lifecycle.Event{LoanID: "A", Type: lifecycle.PartialPayment, EventDate: d})
		_ = r.History.Append(ctx, &attribution.History{LoanID: "A", ReportingDate: d, Reason: attribution.ReasonScheduled})
	}

	events, _ := r.Events.ListByLoanID(ctx, "A")
	if !events[0].EventDate.Equal(day(2024, 2, 1)) || !events[2].EventDate.Equal(day(2025, 5, 1)) {
		t.Fatalf("events not in date order: %+v", events)
	}

	hist, _ := r.History.ListByLoanID(ctx, "A", day(2025, 1, 1), time.Time{})
	if len(hist) != 2 || !hist[0].ReportingDate.Equal(day(2025, 1, 1)) {
		t.Fatalf("unexpected history: %+v", hist)
	}

	_ = r.History.DeleteAll(ctx)
	_ = r.Events.DeleteAll(ctx)
	_ = r.Loans.DeleteAll(ctx)
	hist, _ = r.History.ListByLoanID(ctx, "A", time.Time{}, time.Time{})
	if len(hist) != 0 {
		t.Fatalf("history not cleared")
	}
}
