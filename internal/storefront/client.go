package storefront

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CricNagar/internal/auth"
	"CricNagar/internal/cart"
	"CricNagar/internal/catalog"
	"CricNagar/internal/notify"
	"CricNagar/internal/storage"
)

const (
	ClientCookie = "cricnagar-client"
	ClientHeader = "X-Client-Id"

	clientCookieMaxAge = 30 * 24 * 60 * 60
)

// ClientContext is everything one browser owns: its cart, its session,
// its admin workspace and the notices raised since the last response.
type ClientContext struct {
	ID      string
	Cart    *cart.Store
	Session *auth.Session
	Notices *notify.Recorder

	catalog       *catalog.Catalog
	workspaceOnce sync.Once
	workspace     *catalog.Workspace

	mu       sync.Mutex
	lastUsed time.Time
}

// Workspace returns the admin product list, created from the catalog on
// first use.
func (c *ClientContext) Workspace() *catalog.Workspace {
	c.workspaceOnce.Do(func() {
		c.workspace = catalog.NewWorkspace(c.catalog)
	})
	return c.workspace
}

func (c *ClientContext) touch(now time.Time) {
	c.mu.Lock()
	c.lastUsed = now
	c.mu.Unlock()
}

func (c *ClientContext) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

type ContextDeps struct {
	KV        storage.KV
	Directory auth.Directory
	Catalog   *catalog.Catalog
	Log       *zap.Logger

	AuthLatency time.Duration
	Sleep       func(time.Duration)
	Now         func() time.Time
}

// Contexts creates and caches one ClientContext per client id. Contexts
// are rehydrated from client storage when first seen.
type Contexts struct {
	mu      sync.Mutex
	clients map[string]*ClientContext
	deps    ContextDeps
}

func NewContexts(deps ContextDeps) *Contexts {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.KV == nil {
		deps.KV = storage.NewMemKV()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Contexts{
		clients: make(map[string]*ClientContext),
		deps:    deps,
	}
}

// Get returns the context for id, opening it if needed. Rehydration runs
// outside the registry lock; if two requests race to open the same id the
// first one stored wins.
func (cs *Contexts) Get(ctx context.Context, id string) *ClientContext {
	if cc, ok := cs.lookup(id); ok {
		return cc
	}

	opened := cs.open(ctx, id)

	cs.mu.Lock()
	cc, ok := cs.clients[id]
	if !ok {
		cc = opened
		cs.clients[id] = cc
	}
	cs.mu.Unlock()

	cc.touch(cs.deps.Now())
	return cc
}

func (cs *Contexts) lookup(id string) (*ClientContext, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cc, ok := cs.clients[id]
	if ok {
		cc.touch(cs.deps.Now())
	}
	return cc, ok
}

func (cs *Contexts) open(ctx context.Context, id string) *ClientContext {
	log := cs.deps.Log.With(zap.String("client_id", id))
	kv := storage.ForClient(cs.deps.KV, id)
	rec := &notify.Recorder{}
	notifier := notify.Multi(rec, notify.LogNotifier{Log: log})

	return &ClientContext{
		ID: id,
		Cart: cart.Open(ctx, cart.Deps{
			KV:       kv,
			Notifier: notifier,
			Log:      log,
		}),
		Session: auth.OpenSession(ctx, auth.SessionDeps{
			KV:        kv,
			Directory: cs.deps.Directory,
			Notifier:  notifier,
			Log:       log,
			Latency:   cs.deps.AuthLatency,
			Sleep:     cs.deps.Sleep,
		}),
		Notices: rec,
		catalog: cs.deps.Catalog,
	}
}

func (cs *Contexts) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.clients)
}

// Sweep forgets contexts unused for longer than idle. Their cart and
// session stay in client storage and come back on the next request.
func (cs *Contexts) Sweep(idle time.Duration) int {
	cutoff := cs.deps.Now().Add(-idle)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	n := 0
	for id, cc := range cs.clients {
		if cc.idleSince().Before(cutoff) {
			delete(cs.clients, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (cs *Contexts) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := cs.Sweep(idle); n > 0 {
				cs.deps.Log.Debug("swept idle clients", zap.Int("count", n))
			}
		}
	}
}

type ctxKey string

const clientKey ctxKey = "client"

func ClientFromContext(ctx context.Context) (*ClientContext, bool) {
	cc, ok := ctx.Value(clientKey).(*ClientContext)
	return cc, ok
}

// WithClient resolves the caller's client id from the X-Client-Id header
// or the cookie, issuing a fresh one when neither holds a valid id, and
// attaches the ClientContext to the request.
func WithClient(cs *Contexts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := clientID(r)
			if !ok {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   clientCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(ClientHeader, id)

			cc := cs.Get(r.Context(), id)
			ctx := context.WithValue(r.Context(), clientKey, cc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientID(r *http.Request) (string, bool) {
	if v := r.Header.Get(ClientHeader); validClientID(v) {
		return v, true
	}
	if c, err := r.Cookie(ClientCookie); err == nil && validClientID(c.Value) {
		return c.Value, true
	}
	return "", false
}

func validClientID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
