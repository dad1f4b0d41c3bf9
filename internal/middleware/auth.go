package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rigpilot/rigpilot/internal/config"
)

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health": true,
}

// Authenticator verifies bearer credentials against the configured
// secret. The secret may be a plaintext password or a bcrypt hash
// written by "rigpilot init"; when both are set the hash wins.
type Authenticator struct {
	password     string
	passwordHash string
}

// NewAuthenticator builds an Authenticator from server configuration.
func NewAuthenticator(cfg config.Server) *Authenticator {
	return &Authenticator{
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
	}
}

// Configured reports whether any secret is set. An unconfigured
// gateway rejects every authenticated request rather than running open.
func (a *Authenticator) Configured() bool {
	return a.password != "" || a.passwordHash != ""
}

// Verify checks the presented token in constant time.
func (a *Authenticator) Verify(token string) bool {
	if a.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(token)) == nil
	}
	if a.password == "" {
		return false
	}
	want := sha256.Sum256([]byte(a.password))
	got := sha256.Sum256([]byte(token))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

// Auth returns middleware that validates the Authorization bearer token
// on every request except the public paths. A gateway without a
// configured secret answers 403 to everything; a wrong or missing token
// answers 401.
func Auth(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if !a.Configured() {
				http.Error(w, `{"error":"server password not configured"}`, http.StatusForbidden)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || !a.Verify(token) {
				http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
