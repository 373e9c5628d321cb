package memory

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"
)

type LoanRepository struct {
	s    *Store
	inTx bool
}

var _ loan.Repository = (*LoanRepository)(nil)

func (r *LoanRepository) Create(_ context.Context, l *loan.Loan) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.loans[l.LoanID]; ok {
			return loan.Validationf("loan %s already exists", l.LoanID)
		}
		now := time.Now().UTC()
		l.ID = st.id()
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		l.UpdatedAt = now
		st.loans[l.LoanID] = *l
		st.order = append(st.order, l.LoanID)
		return nil
	})
}

func (r *LoanRepository) GetByLoanID(_ context.Context, loanID string) (*loan.Loan, error) {
	var out *loan.Loan
	err := r.s.run(r.inTx, func(st *state) error {
		l, ok := st.loans[loanID]
		if !ok {
			return loan.NotFoundf(loanID)
		}
		out = &l
		return nil
	})
	return out, err
}

// GetByLoanIDForUpdate is GetByLoanID; the transaction already holds the store lock.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *LoanRepository) List(_ context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	err := r.s.run(r.inTx, func(st *state) error {
		out = make([]loan.Loan, 0, len(st.order))
		for _, id := range st.order {
			out = append(out, st.loans[id])
		}
		return nil
	})
	return out, err
}

func (r *LoanRepository) ListLoanIDs(_ context.Context) ([]string, error) {
	var out []string
	err := r.s.run(r.inTx, func(st *state) error {
		out = append([]string(nil), st.order...)
		return nil
	})
	return out, err
}

func (r *LoanRepository) Save(_ context.Context, l *loan.Loan) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.loans[l.LoanID]; !ok {
			l.ID = st.id()
			st.order = append(st.order, l.LoanID)
		}
		l.UpdatedAt = time.Now().UTC()
		st.loans[l.LoanID] = *l
		return nil
	})
}

func (r *LoanRepository) DeleteAll(_ context.Context) error {
	return r.s.run(r.inTx, func(st *state) error {
		st.loans = map[string]loan.Loan{}
		st.order = nil
		return nil
	})
}

type EventRepository struct {
	s    *Store
	inTx bool
}

var _ lifecycle.Repository = (*EventRepository)(nil)

func (r *EventRepository) Append(_ context.Context, e *lifecycle.Event) error {
	return r.s.run(r.inTx, func(st *state) error {
		e.ID = st.id()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		st.events = append(st.events, *e)
		return nil
	})
}

func (r *EventRepository) ListByLoanID(_ context.Context, loanID string) ([]lifecycle.Event, error) {
	var out []lifecycle.Event
	err := r.s.run(r.inTx, func(st *state) error {
		for _, e := range st.events {
			if e.LoanID == loanID {
				out = append(out, e)
			}
		}
		return nil
	})
	lifecycle.SortByDate(out)
	return out, err
}

func (r *EventRepository) DeleteAll(_ context.Context) error {
	return r.s.run(r.inTx, func(st *state) error {
		st.events = nil
		return nil
	})
}

type HistoryRepository struct {
	s    *Store
	inTx bool
}

var _ attribution.Repository = (*HistoryRepository)(nil)

func (r *HistoryRepository) Append(_ context.Context, h *attribution.History) error {
	return r.s.run(r.inTx, func(st *state) error {
		h.ID = st.id()
		if h.CreatedAt.IsZero() {
			h.CreatedAt = time.Now().UTC()
		}
		st.history = append(st.history, *h)
		return nil
	})
}

func (r *HistoryRepository) ListByLoanID(_ context.Context, loanID string, from, to time.Time) ([]attribution.History, error) {
	var out []attribution.History
	err := r.s.run(r.inTx, func(st *state) error {
		for _, h := range st.history {
			if h.LoanID != loanID {
				continue
			}
			if !from.IsZero() && h.ReportingDate.Before(from) {
				continue
			}
			if !to.IsZero() && h.ReportingDate.After(to) {
				continue
			}
			out = append(out, h)
		}
		return nil
	})
	attribution.SortByDate(out)
	return out, err
}

func (r *HistoryRepository) DeleteAll(_ context.Context) error {
	return r.s.run(r.inTx, func(st *state) error {
		st.history = nil
		return nil
	})
}
