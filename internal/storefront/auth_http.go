package storefront

import (
	"errors"
	"net/http"

	"CricNagar/internal/auth"
	"CricNagar/pkg/kit"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	User        auth.Identity `json:"user"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	State       auth.State    `json:"state"`
	withNotices
}

type sessionResp struct {
	State   auth.State     `json:"state"`
	User    *auth.Identity `json:"user"`
	IsAdmin bool           `json:"is_admin"`
	withNotices
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	cc := client(r)

	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	id, err := cc.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.Metrics.authAttempt("login", outcome(err))
		s.writeAuthError(w, r, cc, err)
		return
	}
	s.Metrics.authAttempt("login", "ok")
	s.writeAuthenticated(w, r, http.StatusOK, cc, id)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	cc := client(r)

	var req registerReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	id, err := cc.Session.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.Metrics.authAttempt("register", outcome(err))
		s.writeAuthError(w, r, cc, err)
		return
	}
	s.Metrics.authAttempt("register", "ok")
	s.writeAuthenticated(w, r, http.StatusCreated, cc, id)
}

func (s *Server) writeAuthenticated(w http.ResponseWriter, r *http.Request, status int, cc *ClientContext, id auth.Identity) {
	tok, err := s.JWT.New(id, s.TokenTTL)
	if err != nil {
		s.serverError(w, r, "issue token failed", err)
		return
	}
	kit.WriteJSON(w, status, authResp{
		User:        id,
		AccessToken: tok,
		TokenType:   "Bearer",
		State:       cc.Session.State(),
		withNotices: withNotices{Notices: cc.Notices.Drain()},
	})
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, cc *ClientContext, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		s.writeFailure(w, r, http.StatusBadRequest, err.Error(), cc)
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.writeFailure(w, r, http.StatusUnauthorized, "invalid email or password", cc)
	case errors.Is(err, auth.ErrEmailExists):
		s.writeFailure(w, r, http.StatusConflict, "email already in use", cc)
	default:
		s.serverError(w, r, "auth failed", err)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return "invalid"
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrEmailExists):
		return "declined"
	default:
		return "error"
	}
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	cc.Session.Logout(r.Context())
	s.writeSession(w, cc)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, client(r))
}

func (s *Server) writeSession(w http.ResponseWriter, cc *ClientContext) {
	resp := sessionResp{
		State:       cc.Session.State(),
		IsAdmin:     cc.Session.IsAdmin(),
		withNotices: withNotices{Notices: cc.Notices.Drain()},
	}
	if id, ok := cc.Session.Current(); ok {
		resp.User = &id
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

// whoami echoes the identity carried by the bearer token. It does not
// consult any client context.
func (s *Server) whoami(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())
	kit.WriteJSON(w, http.StatusOK, id)
}
