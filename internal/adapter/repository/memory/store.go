// Package memory keeps loans, events and history in process memory. It backs
// the service when DB_DRIVER=memory and is the store used by usecase tests.
package memory

import (
	"context"
	"sync"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
)

type state struct {
	loans   map[string]loan.Loan
	order   []string
	events  []lifecycle.Event
	history []attribution.History
	nextID  uint64
}

func (s *state) clone() state {
	out := state{
		loans:   make(map[string]loan.Loan, len(s.loans)),
		order:   append([]string(nil), s.order...),
		events:  append([]lifecycle.Event(nil), s.events...),
		history: append([]attribution.History(nil), s.history...),
		nextID:  s.nextID,
	}
	for k, v := range s.loans {
		out.loans[k] = v
	}
	return out
}

func (s *state) id() uint64 {
	s.nextID++
	return s.nextID
}

// Store is safe for concurrent use. Transactions serialize on a single
// lock and roll back by restoring a snapshot.
type Store struct {
	mu sync.Mutex
	st state
}

var _ uow.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: state{loans: map[string]loan.Loan{}}}
}

// Repos returns repositories that take the store lock on every call.
func (s *Store) Repos() uow.Repos {
	return uow.Repos{
		Loans:   &LoanRepository{s: s},
		Events:  &EventRepository{s: s},
		History: &HistoryRepository{s: s},
	}
}

func (s *Store) reposInTx() uow.Repos {
	return uow.Repos{
		Loans:   &LoanRepository{s: s, inTx: true},
		Events:  &EventRepository{s: s, inTx: true},
		History: &HistoryRepository{s: s, inTx: true},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(s.reposInTx()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return s.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// run executes fn under the store lock unless the caller already holds it.
func (s *Store) run(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.st)
}
