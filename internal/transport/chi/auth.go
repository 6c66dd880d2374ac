package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware accepts requests carrying one of apiKeys as a Bearer token.
// With no non-empty key configured, authentication is disabled.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, problem := bearerToken(r.Header.Get("Authorization"))
			if problem != "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, problem)
				return
			}
			if !validKey(keys, token) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token, or returns a client-facing reason it is absent.
func bearerToken(header string) (token []byte, problem string) {
	if header == "" {
		return nil, "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, "authorization header must use Bearer scheme"
	}
	return []byte(header[len(prefix):]), ""
}

// validKey compares against every key in constant time.
func validKey(keys [][]byte, token []byte) bool {
	ok := 0
	for _, k := range keys {
		ok |= subtle.ConstantTimeCompare(k, token)
	}
	return ok == 1
}
