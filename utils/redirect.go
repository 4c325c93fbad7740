package utils

import (
	"fmt"
	"net/http"
	"net/url"
)

// CallbackPath is the fixed path the provider redirects back to.
const CallbackPath = "/integrations/callback"

// oauthParams are the redirect query parameters that must never survive past
// callback handling; leaving them in place re-processes the code on refresh.
var oauthParams = []string{"code", "error", "state", "session_state"}

// StripOAuthParams removes OAuth redirect parameters from a URL, leaving all
// other query parameters intact. Returns the input unchanged when it does not
// parse.
func StripOAuthParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range oauthParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// HasOAuthParams reports whether the URL carries an authorization code or a
// provider error indicator.
func HasOAuthParams(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	q := u.Query()
	return q.Get("code") != "" || q.Get("error") != ""
}

// DefaultRedirectURI derives a redirect URI from the request origin plus the
// fixed callback path. Used when no redirect URI is configured explicitly.
func DefaultRedirectURI(r *http.Request) string {
	return Origin(r) + CallbackPath
}

// Origin reconstructs the externally visible origin of the request, trusting
// forwarding headers when present (e.g. behind Nginx).
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	host := r.Host
	if fwdHost := r.Header.Get("X-Forwarded-Host"); fwdHost != "" {
		host = fwdHost
		if r.Header.Get("X-Forwarded-Proto") == "" {
			scheme = "https"
		}
	}
	return fmt.Sprintf("%s://%s", scheme, host)
}

// FullURL reconstructs the externally visible URL of the request.
func FullURL(r *http.Request) string {
	return Origin(r) + r.RequestURI
}
