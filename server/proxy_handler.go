package server

import (
	"net"
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog/log"
)

// newProxy builds the single-hop reverse proxy. The upstream scheme, hostname
// and port come from configuration; an unset hostname keeps the inbound host
// and leaves the Host header alone. The upstream fetch is cancelled with the
// inbound request's context.
func (s *Server) newProxy() http.Handler {
	scheme := s.config.GetProxyScheme()
	hostname := s.config.GetProxyHostname()
	port := s.config.GetProxyPort()

	director := func(req *http.Request) {
		req.URL.Scheme = scheme

		host := req.Host
		if hostname != "" {
			host = hostname
			// Only an explicit hostname override rewrites the Host header.
			req.Host = hostname
		}
		if port != "" {
			if bare, _, err := net.SplitHostPort(host); err == nil {
				host = bare
			}
			host = net.JoinHostPort(host, port)
		}
		req.URL.Host = host
	}

	return &httputil.ReverseProxy{
		Director: director,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Err(err).Str("path", r.URL.Path).Msg("upstream request failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}

// ProxyHandler streams the (possibly header-rewritten) request upstream.
func (s *Server) ProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.proxy.ServeHTTP(w, r)
	}
}
