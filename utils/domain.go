package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// GetDomain returns the registrable domain of the request origin, used to
// scope the identity cookie.
func GetDomain(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	if origin == "" {
		return ""
	}
	if !strings.HasPrefix(origin, "http") {
		origin = "https://" + origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	// Hostname() drops any ":port" suffix
	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		// covers "localhost" or "example.com"
		return host
	}
	// take the last two labels: "example.com"
	n := len(parts)
	return parts[n-2] + "." + parts[n-1]
}
