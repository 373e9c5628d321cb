package factormock

import (
	"context"

	domain "pcaf-attribution/internal/domain/emissionfactor"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	LookupFn func(ctx context.Context, q domain.Query) (*domain.Factor, error)
	AllFn    func(ctx context.Context) ([]domain.Factor, error)
}

func (m *Repo) Lookup(ctx context.Context, q domain.Query) (*domain.Factor, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, q)
	}
	return nil, context.Canceled
}

func (m *Repo) All(ctx context.Context) ([]domain.Factor, error) {
	if m.AllFn != nil {
		return m.AllFn(ctx)
	}
	return nil, context.Canceled
}
