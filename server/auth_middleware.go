package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// AuthSessionMiddleware resolves the session cookie into an Authorization
// header for the proxied request. Every absence condition passes through
// unauthenticated: no cookie, no stored session, no access token, or a
// failed refresh. The middleware never rejects a request itself; a missing
// bearer token is the upstream application's concern.
func (s *Server) AuthSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := CookieValue(r.Context(), s.config.GetSessionCookieName())
		if sessionID == "" {
			next(w, r)
			return
		}

		state, err := s.manager.Authenticate(r.Context(), sessionID)
		if err != nil {
			log.Err(err).Msg("session authentication failed, proceeding unauthenticated")
			next(w, r)
			return
		}
		if state == nil || state.AccessToken == "" {
			next(w, r)
			return
		}

		r.Header.Set("Authorization", "Bearer "+state.AccessToken)
		next(w, r)
	}
}
