package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

type PostgresDirectory struct {
	db   *sql.DB
	cost int
}

func NewPostgresDirectory(db *sql.DB, cost int) *PostgresDirectory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PostgresDirectory{db: db, cost: cost}
}

func (s *PostgresDirectory) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresDirectory) Create(ctx context.Context, id Identity, password string) error {
	id.Email = normalizeEmail(id.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, name, email, pass_hash, role)
			VALUES ($1, $2, $3, $4, $5)
		`, id.ID, id.Name, id.Email, hash, string(id.Role))

		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	})
}

func (s *PostgresDirectory) Verify(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)

	var (
		u    User
		role string
	)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, email, pass_hash, role
			FROM users
			WHERE email = $1
		`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Hash, &role)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, err
	}
	u.Role = Role(role)

	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return u.Identity, nil
}

func (s *PostgresDirectory) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
			normalizeEmail(email),
		).Scan(&exists)
	})
	return exists, err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
