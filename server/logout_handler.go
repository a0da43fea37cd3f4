package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler deletes the session behind the session cookie. No cookie is
// a 400; a repository failure is a 500; success is an empty 204 with the
// cookie cleared.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := CookieValue(r.Context(), s.config.GetSessionCookieName())
		if sessionID == "" {
			http.Error(w, "no session", http.StatusBadRequest)
			return
		}

		if err := s.manager.Logout(r.Context(), sessionID); err != nil {
			log.Err(err).Msg("logout failed")
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}

		s.clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
