package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CricNagar/internal/notify"
	"CricNagar/internal/storage"
)

// SessionKey is the client storage key holding the serialized identity.
const SessionKey = "cricnagar-user"

const DefaultLatency = 1 * time.Second

type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type SessionDeps struct {
	KV        storage.KV
	Directory Directory
	Notifier  notify.Notifier
	Log       *zap.Logger

	// Latency is the simulated round trip of Login and Register.
	Latency time.Duration
	Sleep   func(time.Duration)
}

// Session holds at most one authenticated identity for a client context.
type Session struct {
	mu      sync.Mutex
	user    Identity
	authed  bool
	pending int

	kv       storage.KV
	dir      Directory
	notifier notify.Notifier
	log      *zap.Logger
	latency  time.Duration
	sleep    func(time.Duration)
}

// OpenSession restores a previously saved identity. A corrupt record is
// deleted and the session starts anonymous.
func OpenSession(ctx context.Context, deps SessionDeps) *Session {
	s := &Session{
		kv:       deps.KV,
		dir:      deps.Directory,
		notifier: deps.Notifier,
		log:      deps.Log,
		latency:  deps.Latency,
		sleep:    deps.Sleep,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}

	s.rehydrate(ctx)
	return s
}

func (s *Session) rehydrate(ctx context.Context) {
	if s.kv == nil {
		return
	}

	raw, ok, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		s.log.Warn("read saved session failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err == nil && id.ID != "" && id.Email != "" && id.Role.Valid() {
		s.user, s.authed = id, true
		return
	}

	s.log.Warn("discarding saved session", zap.ByteString("raw", raw))
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		s.log.Warn("delete saved session failed", zap.Error(err))
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.pending > 0:
		return StateAuthenticating
	case s.authed:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.authed
}

func (s *Session) IsAdmin() bool {
	id, ok := s.Current()
	return ok && id.Role == RoleAdmin
}

// Login verifies the credentials after the simulated latency. On failure
// the existing session, if any, is left untouched.
func (s *Session) Login(ctx context.Context, email, password string) (Identity, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Identity{}, ErrMissingFields
	}

	s.begin()
	defer s.end()

	ctx = context.WithoutCancel(ctx)
	s.sleep(s.latency)

	id, err := s.dir.Verify(ctx, email, password)
	if errors.Is(err, ErrInvalidCredentials) {
		s.notifier.Notify(notify.Failure("Login failed", "Invalid email or password"))
		return Identity{}, err
	}
	if err != nil {
		return Identity{}, fmt.Errorf("verify credentials: %w", err)
	}

	s.establish(ctx, id)
	s.notifier.Notify(notify.Info("Login successful", "Welcome back, "+id.Name+"!"))
	return id, nil
}

// Register creates a customer identity and makes it the active session.
func (s *Session) Register(ctx context.Context, name, email, password string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Identity{}, ErrMissingFields
	}

	s.begin()
	defer s.end()

	ctx = context.WithoutCancel(ctx)
	s.sleep(s.latency)

	id := Identity{
		ID:    "user-" + uuid.NewString(),
		Name:  name,
		Email: normalizeEmail(email),
		Role:  RoleCustomer,
	}

	// Exists skips the password hash for known emails; Create still
	// enforces uniqueness against concurrent registrations.
	taken, err := s.dir.Exists(ctx, id.Email)
	if err == nil && taken {
		err = ErrEmailExists
	} else if err == nil {
		err = s.dir.Create(ctx, id, password)
	}
	if errors.Is(err, ErrEmailExists) {
		s.notifier.Notify(notify.Failure("Registration failed", "Email already in use"))
		return Identity{}, err
	}
	if err != nil {
		return Identity{}, fmt.Errorf("register user: %w", err)
	}

	s.establish(ctx, id)
	s.notifier.Notify(notify.Info("Registration successful", "Welcome, "+name+"!"))
	return id, nil
}

// Logout always succeeds.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user, s.authed = Identity{}, false
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.Delete(ctx, SessionKey); err != nil {
			s.log.Error("delete saved session failed", zap.Error(err))
		}
	}
	s.notifier.Notify(notify.Info("Logged out", "You have been logged out successfully"))
}

func (s *Session) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

func (s *Session) establish(ctx context.Context, id Identity) {
	s.mu.Lock()
	s.user, s.authed = id, true
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(id)
	if err == nil {
		err = s.kv.Set(ctx, SessionKey, raw)
	}
	if err != nil {
		s.log.Error("save session failed", zap.Error(err))
	}
}
