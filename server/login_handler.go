package server

import (
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-token-handler/cookiesecret"
	"github.com/jrsteele09/go-token-handler/oidc"
	"github.com/jrsteele09/go-token-handler/token"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts an authorization round trip: a fresh state and a fresh
// per-attempt signing secret, the secret stored keyed by state, the state set
// as a signed cookie and the browser redirected to the provider. The cookie
// is only written once the authorization URL is known to be buildable.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		secretValue := uuid.NewString()
		now := time.Now()

		if err := s.secrets.Upsert(r.Context(), state, cookiesecret.NewSecret(secretValue, now)); err != nil {
			log.Err(err).Msg("failed to store login secret")
			http.Error(w, "login unavailable", http.StatusInternalServerError)
			return
		}

		authURL, err := s.oidcClient.AuthorizationURL(oidc.AuthorizationURLOptions{
			State:      state,
			ScreenHint: screenHintFromQuery(r.URL.Query().Get("screen_hint")),
			LoginHint:  r.URL.Query().Get("login_hint"),
		})
		if err != nil {
			log.Err(err).Msg("failed to build authorization url")
			http.Error(w, "login unavailable", http.StatusInternalServerError)
			return
		}

		s.setStateCookie(w, s.stateCookieValue(state, sanitizeRedirect(r.URL.Query().Get("redirect")), secretValue, now))
		http.Redirect(w, r, authURL, http.StatusMovedPermanently)
	}
}

// stateCookieValue signs the state (and optional post-login redirect) with
// the per-attempt secret. Signing failure degrades to the raw state value
// rather than blocking login; the callback accepts both forms.
func (s *Server) stateCookieValue(state, redirect, secretValue string, now time.Time) string {
	claims := jwtlib.MapClaims{
		"state": state,
		"exp":   now.Add(cookiesecret.DefaultTTL).Unix(),
	}
	if redirect != "" {
		claims["redirect"] = redirect
	}

	signed, err := token.Sign(claims, []byte(secretValue), token.HS256)
	if err != nil {
		log.Err(err).Msg("state cookie signing failed, falling back to unsigned state")
		return state
	}
	return signed
}

// sanitizeRedirect keeps only same-origin relative targets for the
// post-login redirect. Absolute URLs, protocol-relative paths and backslash
// tricks are discarded so a crafted login link cannot bounce a freshly
// authenticated user to another site.
func sanitizeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") {
		return ""
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}
	return target
}

func screenHintFromQuery(value string) oidc.ScreenHint {
	switch value {
	case "sign-up", "signup":
		return oidc.ScreenHintSignUp
	case "sign-in", "signin", "login":
		return oidc.ScreenHintSignIn
	default:
		return ""
	}
}
