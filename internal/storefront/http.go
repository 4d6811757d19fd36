package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CricNagar/internal/auth"
	"CricNagar/internal/catalog"
	"CricNagar/internal/notify"
	"CricNagar/internal/order"
	"CricNagar/internal/storage"
	"CricNagar/pkg/kit"
)

const (
	readyTimeout = 2 * time.Second

	relatedLimit = 4

	loginLimit    = 5
	registerLimit = 3
	limitWindow   = time.Minute
)

type Server struct {
	Catalog *catalog.Catalog
	Source  catalog.Source
	Clients *Contexts
	Orders  *order.Service

	JWT       *auth.TokenMaker
	TokenTTL  time.Duration
	KV        storage.KV
	Directory auth.Directory

	Log     *zap.Logger
	Metrics *Metrics

	LoginLimiter    *kit.IPRateLimiter
	RegisterLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.LoginLimiter == nil {
		s.LoginLimiter = kit.NewIPRateLimiter(loginLimit, limitWindow)
	}
	if s.RegisterLimiter == nil {
		s.RegisterLimiter = kit.NewIPRateLimiter(registerLimit, limitWindow)
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Get("/categories", s.categories)
	r.Get("/products", s.listProducts)
	r.Get("/products/featured", s.featuredProducts)
	r.Get("/products/{id}", s.getProduct)

	r.With(AuthJWT(s.JWT)).Get("/auth/whoami", s.whoami)

	r.Group(func(cr chi.Router) {
		cr.Use(WithClient(s.Clients))

		cr.Get("/cart", s.getCart)
		cr.Post("/cart/items", s.addCartItem)
		cr.Put("/cart/items/{id}", s.updateCartItem)
		cr.Delete("/cart/items/{id}", s.removeCartItem)
		cr.Delete("/cart", s.clearCart)

		cr.With(s.LoginLimiter.Middleware).Post("/auth/login", s.login)
		cr.With(s.RegisterLimiter.Middleware).Post("/auth/register", s.register)
		cr.Post("/auth/logout", s.logout)
		cr.Get("/auth/session", s.session)

		cr.Route("/admin", func(ar chi.Router) {
			ar.Use(RequireAdmin)
			ar.Get("/products", s.adminListProducts)
			ar.Post("/products", s.adminAddProduct)
			ar.Delete("/products/{id}", s.adminRemoveProduct)
		})

		cr.Post("/checkout", s.checkout)
		cr.Get("/orders/{id}", s.getOrder)
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"catalog", s.Source.Ping},
		{"storage", s.KV.Ping},
		{"users", s.Directory.Ping},
		{"orders", s.Orders.Store.Ping},
	}
	for _, c := range checks {
		if err := c.ping(ctx); err != nil {
			s.Log.Warn("readyz failed: "+c.name, zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, c.name+" not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// client returns the request's ClientContext. WithClient guarantees one on
// every route that calls it.
func client(r *http.Request) *ClientContext {
	cc, _ := ClientFromContext(r.Context())
	return cc
}

// withNotices is the envelope for responses that may carry notices.
type withNotices struct {
	Notices []notify.Notice `json:"notices"`
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status int, msg string, cc *ClientContext) {
	kit.WriteError(w, r, status, msg, withNotices{Notices: cc.Notices.Drain()})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.Log.Error(msg, zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
