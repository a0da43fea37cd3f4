package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-token-handler/oidc"
	"github.com/jrsteele09/go-token-handler/token"
	"github.com/rs/zerolog/log"
)

// CallbackHandler finishes the authorization round trip. Any failure, from a
// provider error parameter to a state mismatch to a rejected code exchange,
// redirects to the configured error page without leaking provider detail
// into the redirect target.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if providerError := query.Get("error"); providerError != "" {
			log.Warn().Str("error", providerError).Msg("provider returned an authorization error")
			s.errorRedirect(w, r)
			return
		}

		code := query.Get("code")
		state := query.Get("state")
		if code == "" || state == "" {
			s.errorRedirect(w, r)
			return
		}

		secret, err := s.secrets.FindByID(r.Context(), state)
		if err != nil || secret == nil {
			s.errorRedirect(w, r)
			return
		}

		// One attempt per state: the secret is consumed whether or not the
		// rest of the callback succeeds, so a replayed state always fails.
		if err := s.secrets.Delete(r.Context(), state); err != nil {
			log.Err(err).Msg("failed to consume login secret")
		}

		if secret.Expired(time.Now()) {
			s.errorRedirect(w, r)
			return
		}

		redirect, ok := s.verifyStateCookie(CookieValue(r.Context(), stateCookieName), state, secret.Value)
		if !ok {
			log.Warn().Msg("state cookie mismatch on callback")
			s.errorRedirect(w, r)
			return
		}
		// The claim was sanitized at login, but the redirect only ever
		// leaves this handler as a same-origin relative path.
		if redirect = sanitizeRedirect(redirect); redirect == "" {
			redirect = s.config.GetPostLoginRedirectURL()
		}

		sessionState, err := s.oidcClient.ExchangeCode(r.Context(), oidc.ExchangeOptions{Code: code})
		if err != nil {
			log.Err(err).Msg("code exchange failed")
			s.errorRedirect(w, r)
			return
		}

		if s.idTokenVerifier != nil && sessionState.IDToken != "" {
			if _, err := s.idTokenVerifier.Verify(r.Context(), sessionState.IDToken); err != nil {
				log.Err(err).Msg("id token verification failed")
				s.errorRedirect(w, r)
				return
			}
		}

		sessionID := uuid.NewString()
		if err := s.sessions.Upsert(r.Context(), sessionID, sessionState); err != nil {
			log.Err(err).Msg("failed to store session")
			s.errorRedirect(w, r)
			return
		}

		s.clearStateCookie(w)
		s.setSessionCookie(w, sessionID)
		http.Redirect(w, r, redirect, http.StatusMovedPermanently)
	}
}

// verifyStateCookie checks the state cookie against the per-attempt secret.
// A signed cookie must verify and carry the expected state; the unsigned
// fallback form is accepted when it equals the state verbatim. Returns the
// post-login redirect carried in the signed cookie, if any.
func (s *Server) verifyStateCookie(cookieValue, state, secretValue string) (string, bool) {
	if cookieValue == "" {
		return "", false
	}
	if cookieValue == state {
		return "", true
	}

	if !token.Valid(cookieValue, []byte(secretValue), token.VerifyOptions{Algorithm: token.HS256}) {
		return "", false
	}
	claims, err := token.Decode(cookieValue)
	if err != nil {
		return "", false
	}
	if claims["state"] != state {
		return "", false
	}

	redirect, _ := claims["redirect"].(string)
	return redirect, true
}

func (s *Server) errorRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.config.GetErrorRedirectURL(), http.StatusMovedPermanently)
}
