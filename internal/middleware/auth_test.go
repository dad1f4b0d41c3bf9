package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/rigpilot/rigpilot/internal/config"
	"github.com/rigpilot/rigpilot/internal/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthNoSecretRejectsAll(t *testing.T) {
	a := middleware.NewAuthenticator(config.Server{})
	handler := middleware.Auth(a)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", http.NoBody)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for unconfigured secret", rec.Code)
	}
}

func TestAuthWrongToken(t *testing.T) {
	a := middleware.NewAuthenticator(config.Server{Password: "correct"})
	handler := middleware.Auth(a)(okHandler())

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong token", "Bearer wrong"},
		{"not bearer", "Basic correct"},
		{"empty bearer", "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mcp", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthValidToken(t *testing.T) {
	a := middleware.NewAuthenticator(config.Server{Password: "correct"})
	handler := middleware.Auth(a)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", http.NoBody)
	req.Header.Set("Authorization", "Bearer correct")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := middleware.NewAuthenticator(config.Server{PasswordHash: string(hash)})

	if !a.Verify("hunter2") {
		t.Error("correct password rejected against bcrypt hash")
	}
	if a.Verify("hunter3") {
		t.Error("wrong password accepted against bcrypt hash")
	}
}

func TestAuthHashWinsOverPlaintext(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := middleware.NewAuthenticator(config.Server{
		Password:     "from-plaintext",
		PasswordHash: string(hash),
	})

	if !a.Verify("from-hash") {
		t.Error("hash secret rejected")
	}
	if a.Verify("from-plaintext") {
		t.Error("plaintext secret accepted even though a hash is configured")
	}
}

func TestAuthHealthExempt(t *testing.T) {
	a := middleware.NewAuthenticator(config.Server{})
	handler := middleware.Auth(a)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without credentials", rec.Code)
	}
}
