package middleware

import (
	"net/http"
	"path"
	"strings"
)

// Normalize standardizes request fields coming through proxies (Vercel/Cloudflare)
//   - trims whitespace around URL.Path and collapses "//" and "/./" segments
//   - restores scheme/host from forwarding headers for logs and redirects
func Normalize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.URL.Path = cleanPath(r.URL.Path)
			if r.URL.RawPath != "" {
				r.URL.RawPath = ""
			}

			// Restore scheme/host for downstream consumers
			if xfproto := r.Header.Get("X-Forwarded-Proto"); xfproto != "" {
				r.URL.Scheme = strings.ToLower(strings.TrimSpace(xfproto))
			}
			if xfhost := r.Header.Get("X-Forwarded-Host"); xfhost != "" {
				r.Host = strings.TrimSpace(xfhost)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cleanPath keeps a trailing slash so chi's StripSlashes still sees it
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	trailing := len(p) > 1 && strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)
	if trailing && p != "/" {
		p += "/"
	}
	return p
}
