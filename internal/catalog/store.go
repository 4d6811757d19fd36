package catalog

import (
	"context"
	"fmt"
)

// Source supplies the product list the Catalog is built from.
type Source interface {
	List(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

// Seeder is a writable Source backend.
type Seeder interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, products []Product) error
}

// SeedIfEmpty inserts products when s holds none and reports how many were
// written. A populated store is left alone.
func SeedIfEmpty(ctx context.Context, s Seeder, products []Product) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	if err := s.Insert(ctx, products); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	return len(products), nil
}
