package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresSource) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, price, category, image_url, in_stock,
			       featured, discount, rating, created_at
			FROM products
			ORDER BY created_at ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresSource) Count(ctx context.Context) (int, error) {
	var n int
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n)
	})
	return n, err
}

// Insert writes products in one transaction. Existing ids are skipped.
func (s *PostgresSource) Insert(ctx context.Context, products []Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, name, description, price, category, image_url, in_stock,
			                      featured, discount, rating, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range products {
			_, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Description, p.Price, string(p.Category), p.ImageURL, p.InStock,
				nullable(p.Featured), nullable(p.Discount), nullable(p.Rating), p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert product %s: %w", p.ID, err)
			}
		}
		return tx.Commit()
	})
}

// nullable maps an absent Opt to SQL NULL.
func nullable[T any](o Opt[T]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func scanProduct(rows *sql.Rows) (Product, error) {
	var (
		p        Product
		category string
		featured sql.NullBool
		discount sql.NullInt32
		rating   sql.NullFloat64
	)

	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.ImageURL, &p.InStock,
		&featured, &discount, &rating, &p.CreatedAt,
	)
	if err != nil {
		return Product{}, err
	}

	p.Category = Category(category)
	if featured.Valid {
		p.Featured = Some(featured.Bool)
	}
	if discount.Valid {
		p.Discount = Some(int(discount.Int32))
	}
	if rating.Valid {
		p.Rating = Some(rating.Float64)
	}
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
