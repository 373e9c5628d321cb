package emissionfactor

import "context"

type Repository interface {
	// Lookup returns ErrNoMatch when no row covers the category/fuel pair.
	Lookup(ctx context.Context, q Query) (*Factor, error)
	All(ctx context.Context) ([]Factor, error)
}
