package eventmock

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/lifecycle"
)

var (
	_ lifecycle.Repository   = (*Events)(nil)
	_ attribution.Repository = (*History)(nil)
)

// Events is a function-backed mock that satisfies lifecycle.Repository.
type Events struct {
	AppendFn       func(ctx context.Context, e *lifecycle.Event) error
	ListByLoanIDFn func(ctx context.Context, loanID string) ([]lifecycle.Event, error)
	DeleteAllFn    func(ctx context.Context) error
}

func (m *Events) Append(ctx context.Context, e *lifecycle.Event) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *Events) ListByLoanID(ctx context.Context, loanID string) ([]lifecycle.Event, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Events) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx)
	}
	return nil
}

// History is a function-backed mock that satisfies attribution.Repository.
type History struct {
	AppendFn       func(ctx context.Context, h *attribution.History) error
	ListByLoanIDFn func(ctx context.Context, loanID string, from, to time.Time) ([]attribution.History, error)
	DeleteAllFn    func(ctx context.Context) error
}

func (m *History) Append(ctx context.Context, h *attribution.History) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, h)
	}
	return nil
}

func (m *History) ListByLoanID(ctx context.Context, loanID string, from, to time.Time) ([]attribution.History, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID, from, to)
	}
	return nil, nil
}

func (m *History) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx)
	}
	return nil
}
