package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowedHeaders = "Content-Type, X-Request-ID"
	corsAllowedMethods = "GET, POST, DELETE, OPTIONS"
)

// CORS provides an allowlist-based CORS middleware for the chat widget.
// "*" echoes any Origin back and a "*.example.com" entry matches any
// subdomain of example.com.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := OriginMatcher(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" && allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
				w.Header().Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OriginMatcher reports whether an Origin header value is on the allowlist,
// using the same rules as CORS.
func OriginMatcher(allowedOrigins []string) func(origin string) bool {
	allowAny := false
	exact := map[string]struct{}{}
	var wildcards []wildcardOrigin
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch {
		case origin == "":
		case origin == "*":
			allowAny = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://*")
			wildcards = append(wildcards, wildcardOrigin{scheme: scheme + "://", suffix: host})
		default:
			exact[origin] = struct{}{}
		}
	}

	return func(origin string) bool {
		if allowAny {
			return true
		}
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, wc := range wildcards {
			if strings.HasPrefix(origin, wc.scheme) && strings.HasSuffix(origin, wc.suffix) {
				return true
			}
		}
		return false
	}
}

type wildcardOrigin struct {
	scheme string
	suffix string
}
