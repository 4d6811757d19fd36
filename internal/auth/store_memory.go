package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type MemDirectory struct {
	mu      sync.RWMutex
	cost    int
	byEmail map[string]User
}

// NewMemDirectory hashes passwords with the given bcrypt cost; 0 means
// bcrypt.DefaultCost.
func NewMemDirectory(cost int) *MemDirectory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &MemDirectory{cost: cost, byEmail: make(map[string]User)}
}

type demoUser struct {
	Identity
	password string
}

var demoUsers = []demoUser{
	{Identity: Identity{ID: "1", Name: "Admin User", Email: "admin@cricnagar.com", Role: RoleAdmin}, password: "admin123"},
	{Identity: Identity{ID: "2", Name: "Test Customer", Email: "customer@example.com", Role: RoleCustomer}, password: "customer123"},
}

// NewDemoDirectory returns a directory holding the storefront's demo accounts.
func NewDemoDirectory(cost int) (*MemDirectory, error) {
	d := NewMemDirectory(cost)
	if _, err := SeedDemoUsers(context.Background(), d); err != nil {
		return nil, err
	}
	return d, nil
}

// SeedDemoUsers creates the demo accounts in dir, skipping any whose email
// is already taken. It returns how many were created.
func SeedDemoUsers(ctx context.Context, dir Directory) (int, error) {
	n := 0
	for _, u := range demoUsers {
		err := dir.Create(ctx, u.Identity, u.password)
		if errors.Is(err, ErrEmailExists) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("seed %s: %w", u.Email, err)
		}
		n++
	}
	return n, nil
}

func (s *MemDirectory) Ping(ctx context.Context) error { return nil }

func (s *MemDirectory) Create(ctx context.Context, id Identity, password string) error {
	id.Email = normalizeEmail(id.Email)

	s.mu.RLock()
	_, exists := s.byEmail[id.Email]
	s.mu.RUnlock()
	if exists {
		return ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[id.Email]; ok {
		return ErrEmailExists
	}
	s.byEmail[id.Email] = User{Identity: id, Hash: hash}
	return nil
}

func (s *MemDirectory) Verify(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	u, ok := s.byEmail[email]
	s.mu.RUnlock()

	if !ok {
		return Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return u.Identity, nil
}

func (s *MemDirectory) Exists(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[normalizeEmail(email)]
	return ok, nil
}
