// Package server is the HTTP edge of the token handler: the middleware
// pipeline, the login/callback/logout routes and the dynamic proxy that
// forwards everything else upstream with the session's access token
// attached.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-token-handler/cookiesecret"
	"github.com/jrsteele09/go-token-handler/internal/config"
	"github.com/jrsteele09/go-token-handler/oidc"
	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
)

// IDTokenVerifier checks a provider-issued id token against the provider's
// published keys before it is trusted and stored.
type IDTokenVerifier interface {
	Verify(ctx context.Context, raw string) (jwtlib.MapClaims, error)
}

type Server struct {
	env             string // Environment (e.g., "DEV", "production")
	mux             *http.ServeMux
	routes          []string
	config          config.Config
	manager         *sessions.Manager
	sessions        sessions.Repo
	secrets         cookiesecret.Repo
	oidcClient      oidc.Client
	idTokenVerifier IDTokenVerifier
	proxy           http.Handler
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithIDTokenVerifier enables verify-before-trust of id tokens returned by
// the code exchange.
func WithIDTokenVerifier(verifier IDTokenVerifier) Option {
	return func(s *Server) {
		s.idTokenVerifier = verifier
	}
}

func New(cfg config.Config, manager *sessions.Manager, sessionRepo sessions.Repo, secretRepo cookiesecret.Repo, oidcClient oidc.Client, options ...Option) (*Server, error) {
	if manager == nil {
		return nil, errors.New("[Server.New] session manager is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[Server.New] session repo is required")
	}
	if secretRepo == nil {
		return nil, errors.New("[Server.New] cookie secret repo is required")
	}
	if oidcClient == nil {
		return nil, errors.New("[Server.New] oidc client is required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		manager:    manager,
		sessions:   sessionRepo,
		secrets:    secretRepo,
		oidcClient: oidcClient,
	}
	s.env = cfg.GetEnv()

	for _, opt := range options {
		opt(s)
	}

	s.proxy = s.newProxy()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	pipeline := []func(http.HandlerFunc) http.HandlerFunc{
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.CookiesMiddleware,
		s.GeolocationMiddleware,
		s.BotScoreMiddleware,
	}

	s.RegisterRouteFunc("GET "+s.config.GetLoginPath(), ChainMiddleware(s.LoginHandler(), pipeline...))
	s.RegisterRouteFunc("GET "+s.config.GetCallbackPath(), ChainMiddleware(s.CallbackHandler(), pipeline...))
	s.RegisterRouteFunc("GET "+s.config.GetLogoutPath(), ChainMiddleware(s.LogoutHandler(), pipeline...))

	// Everything else goes upstream: cross-origin mutations are gated,
	// then the Authorization header is injected when a usable session
	// rides along.
	s.RegisterRouteFunc("/", ChainMiddleware(s.ProxyHandler(), append(pipeline, s.CsrfGateMiddleware, s.AuthSessionMiddleware)...))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
