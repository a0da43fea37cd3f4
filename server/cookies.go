package server

import (
	"context"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyCookies stores the request's parsed cookie map.
const ContextKeyCookies ContextKey = "cookies"

const (
	stateCookieName   = "oauth.state"
	stateCookieMaxAge = 600 // seconds
)

// CookiesMiddleware parses the Cookie header once into an immutable
// name->value map. Downstream stages read cookies from the context instead
// of re-parsing headers.
func (s *Server) CookiesMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookieMap := make(map[string]string)
		for _, cookie := range r.Cookies() {
			if _, exists := cookieMap[cookie.Name]; !exists {
				cookieMap[cookie.Name] = cookie.Value
			}
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyCookies, cookieMap)))
	}
}

// CookieValue reads a cookie from the map installed by CookiesMiddleware.
func CookieValue(ctx context.Context, name string) string {
	cookieMap, ok := ctx.Value(ContextKeyCookies).(map[string]string)
	if !ok {
		return ""
	}
	return cookieMap[name]
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    sessionID,
		Path:     "/",
		Domain:   s.config.GetCookieDomain(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		Domain:   s.config.GetCookieDomain(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) setStateCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/",
		Domain:   s.config.GetCookieDomain(),
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.config.GetCookieDomain(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
