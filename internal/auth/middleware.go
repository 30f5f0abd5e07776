package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/af-corp/scribe/internal/httputil"
)

// StaticKeySet validates presented API keys against a fixed set of SHA-256
// digests loaded from configuration.
type StaticKeySet struct {
	hashes []string
}

func NewStaticKeySet(hashes []string) *StaticKeySet {
	return &StaticKeySet{hashes: hashes}
}

// Validate reports whether key matches any configured digest. Comparison is
// constant-time per entry.
func (s *StaticKeySet) Validate(key string) bool {
	digest := HashKey(key)
	ok := false
	for _, h := range s.hashes {
		if subtle.ConstantTimeCompare([]byte(digest), []byte(h)) == 1 {
			ok = true
		}
	}
	return ok
}

// Middleware returns chi middleware that authenticates requests via Bearer token.
func Middleware(keys *StaticKeySet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteAuthError(w, reqID, "Missing Authorization header. Use: Authorization: Bearer <api-key>")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				httputil.WriteAuthError(w, reqID, "Invalid Authorization format. Use: Authorization: Bearer <api-key>")
				return
			}
			if token == "" {
				httputil.WriteAuthError(w, reqID, "Empty API key")
				return
			}

			if !keys.Validate(token) {
				slog.Warn("auth failed: key not recognized", "key_prefix", KeyPrefix(token))
				httputil.WriteAuthError(w, reqID, "Invalid API key")
				return
			}

			info := &Info{KeyID: HashKey(token)[:12]}
			ctx := ContextWithInfo(r.Context(), info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
