// Package security provides request screening middleware.
package security

import (
	"net/http"
	"net/url"
	"strings"
)

// probePrefixes are paths only scanners ask for. Nothing under them is
// ever served.
var probePrefixes = []string{
	"/.env",
	"/.git/",
	"/.htaccess",
	"/.htpasswd",
	"/admin/",
	"/cgi-bin/",
	"/phpinfo",
	"/phpmyadmin",
	"/server-status",
	"/web-inf/",
	"/wp-admin",
	"/wp-content",
	"/wp-includes",
	"/wp-login",
	"/xmlrpc.php",
}

// traversalMarkers indicate path traversal or null byte injection.
var traversalMarkers = []string{
	"../",
	"..\\",
	"..%2f",
	"..%5c",
	"%2e%2e",
	"%00",
	"\x00",
}

// allowedMethods are the methods any route answers to.
var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodOptions: true,
}

// Suspicious reports whether a request path looks like a probe or a
// traversal attempt. Both the raw and the decoded path are checked.
func Suspicious(u *url.URL) bool {
	candidates := []string{strings.ToLower(u.Path)}
	if u.RawPath != "" {
		candidates = append(candidates, strings.ToLower(u.RawPath))
	}
	if decoded, err := url.PathUnescape(u.EscapedPath()); err == nil {
		candidates = append(candidates, strings.ToLower(decoded))
	}

	for _, p := range candidates {
		for _, prefix := range probePrefixes {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
		for _, m := range traversalMarkers {
			if strings.Contains(p, m) {
				return true
			}
		}
	}
	return false
}

// Filter rejects scanner probes with 404 and unsupported methods with 405.
func Filter(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowedMethods[r.Method] {
				w.Header().Set("Allow", "GET, HEAD, POST, OPTIONS")
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			if Suspicious(r.URL) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBody caps request bodies at maxKB kilobytes. Frame packets are a
// few hundred bytes.
func LimitBody(maxKB int) func(http.Handler) http.Handler {
	maxBytes := int64(maxKB) * 1024

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
