package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"CricNagar/internal/notify"
	"CricNagar/internal/storage"
)

type sessionFixture struct {
	kv  *storage.MemKV
	dir *MemDirectory
	rec *notify.Recorder
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	dir, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)
	return &sessionFixture{kv: storage.NewMemKV(), dir: dir, rec: &notify.Recorder{}}
}

func (f *sessionFixture) open(t *testing.T) *Session {
	t.Helper()
	return OpenSession(context.Background(), SessionDeps{
		KV:        f.kv,
		Directory: f.dir,
		Notifier:  f.rec,
		Log:       zap.NewNop(),
	})
}

// ============================================
// Login
// ============================================

func TestSession_LoginAdmin(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	assert.Equal(t, StateAnonymous, s.State())

	id, err := s.Login(ctx, "admin@cricnagar.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, id.Role)
	assert.Equal(t, "Admin User", id.Name)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.True(t, s.IsAdmin())

	raw, ok, _ := f.kv.Get(ctx, SessionKey)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "admin123")
	assert.NotContains(t, strings.ToLower(string(raw)), "password")

	notices := f.rec.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Welcome back, Admin User!", notices[0].Description)
}

func TestSession_LoginWrongPasswordKeepsAnonymous(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	_, err := s.Login(context.Background(), "admin@cricnagar.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StateAnonymous, s.State())

	_, ok, _ := f.kv.Get(context.Background(), SessionKey)
	assert.False(t, ok)

	notices := f.rec.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.VariantDestructive, notices[0].Variant)
}

func TestSession_LoginPasswordMustMatchExactly(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	for _, pw := range []string{" admin123 ", "admin123\n", "ADMIN123"} {
		_, err := s.Login(ctx, "admin@cricnagar.com", pw)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "password %q", pw)
	}
	assert.Equal(t, StateAnonymous, s.State())

	_, err := s.Login(ctx, " Admin@CricNagar.com ", "admin123")
	assert.NoError(t, err, "emails are normalized, passwords are not")
}

func TestSeedDemoUsers_SkipsExisting(t *testing.T) {
	dir, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	n, err := SeedDemoUsers(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, n)

	fresh := NewMemDirectory(bcrypt.MinCost)
	n, err = SeedDemoUsers(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	id, err := fresh.Verify(context.Background(), "customer@example.com", "customer123")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, id.Role)
}

func TestSession_FailedLoginKeepsPriorSession(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "customer@example.com", "customer123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "admin@cricnagar.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	id, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "customer@example.com", id.Email)
	assert.False(t, s.IsAdmin())
}

func TestSession_LoginRequiresFields(t *testing.T) {
	s := newFixture(t).open(t)

	_, err := s.Login(context.Background(), " ", "x")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSession_AuthenticatingWhileLatencyRuns(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})

	s := OpenSession(context.Background(), SessionDeps{
		KV:        f.kv,
		Directory: f.dir,
		Latency:   time.Second,
		Sleep: func(d time.Duration) {
			assert.Equal(t, time.Second, d)
			close(entered)
			<-release
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Login(ctx, "admin@cricnagar.com", "admin123")
		done <- err
	}()

	<-entered
	assert.Equal(t, StateAuthenticating, s.State())
	_, ok := s.Current()
	assert.False(t, ok)

	cancel()
	close(release)
	require.NoError(t, <-done, "a started login runs to completion")
	assert.Equal(t, StateAuthenticated, s.State())
}

// ============================================
// Register
// ============================================

func TestSession_Register(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	id, err := s.Register(ctx, "New Player", "Player@Example.com", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id.ID, "user-"))
	assert.Equal(t, RoleCustomer, id.Role)
	assert.Equal(t, "player@example.com", id.Email)
	assert.Equal(t, StateAuthenticated, s.State())

	ok, err := f.dir.Exists(ctx, "player@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	s.Logout(ctx)
	back, err := s.Login(ctx, "player@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, id, back)
}

func TestSession_RegisterExistingEmailFails(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "customer@example.com", "customer123")
	require.NoError(t, err)
	before, _ := s.Current()

	_, err = s.Register(ctx, "Impostor", "admin@cricnagar.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailExists)

	after, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, before, after)
}

// ============================================
// Logout / rehydrate
// ============================================

func TestSession_Logout(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "admin@cricnagar.com", "admin123")
	require.NoError(t, err)

	s.Logout(ctx)
	s.Logout(ctx)

	assert.Equal(t, StateAnonymous, s.State())
	_, ok, _ := f.kv.Get(ctx, SessionKey)
	assert.False(t, ok)
}

func TestSession_RehydratesSavedIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.open(t).Login(ctx, "admin@cricnagar.com", "admin123")
	require.NoError(t, err)

	again := f.open(t)
	id, ok := again.Current()
	assert.True(t, ok)
	assert.Equal(t, "1", id.ID)
	assert.True(t, again.IsAdmin())
}

func TestSession_CorruptSavedIdentityIsDiscarded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"unknown role", `{"id":"9","email":"x@y.z","role":"root"}`},
		{"missing id", `{"email":"x@y.z","role":"admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.kv.Set(ctx, SessionKey, []byte(tt.raw)))

			s := f.open(t)
			assert.Equal(t, StateAnonymous, s.State())

			_, ok, _ := f.kv.Get(ctx, SessionKey)
			assert.False(t, ok, "corrupt record is removed")
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "authenticating", StateAuthenticating.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
