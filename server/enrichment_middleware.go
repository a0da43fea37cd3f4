package server

import "net/http"

// geoHeaders maps edge-platform geolocation metadata onto the headers the
// upstream application reads.
var geoHeaders = map[string]string{
	"Cf-Ipcountry":   "X-Geo-Country",
	"Cf-Ipcity":      "X-Geo-City",
	"Cf-Iplatitude":  "X-Geo-Latitude",
	"Cf-Iplongitude": "X-Geo-Longitude",
	"Cf-Timezone":    "X-Geo-Timezone",
}

var botHeaders = map[string]string{
	"Cf-Bot-Score":    "X-Bot-Score",
	"Cf-Verified-Bot": "X-Verified-Bot",
}

// GeolocationMiddleware copies platform geolocation metadata onto X-Geo-*
// request headers. Requests without the metadata pass through untouched.
func (s *Server) GeolocationMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return copyHeadersMiddleware(next, geoHeaders)
}

// BotScoreMiddleware copies platform bot-management metadata onto the bot
// score headers. Requests without the metadata pass through untouched.
func (s *Server) BotScoreMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return copyHeadersMiddleware(next, botHeaders)
}

func copyHeadersMiddleware(next http.HandlerFunc, mapping map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for source, target := range mapping {
			if value := r.Header.Get(source); value != "" {
				r.Header.Set(target, value)
			}
		}
		next(w, r)
	}
}
