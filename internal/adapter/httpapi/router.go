// Package httpapi provides the network transport: a chi router serving
// the unauthenticated health probe and the authenticated MCP SSE
// endpoints.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rigpilot/rigpilot/internal/middleware"
)

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Auth    *middleware.Authenticator
	SSE     http.Handler
	Message http.Handler
	Version string
	// Tracing wraps the router in otelhttp instrumentation.
	Tracing bool
}

// NewRouter assembles the HTTP routes. Everything except /health sits
// behind bearer authentication.
func NewRouter(rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Auth(rc.Auth))

	r.Get("/health", healthHandler(rc.Version))
	r.Handle("/mcp", rc.SSE)
	r.Handle("/mcp/messages", rc.Message)

	if rc.Tracing {
		return otelhttp.NewHandler(r, "rigpilot")
	}
	return r
}

// healthHandler reports liveness and the build version. It is public:
// monitors probe it without credentials.
func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version,
		})
	}
}

// NewServer builds the http.Server. Read and write timeouts stay zero
// because the SSE stream is long-lived; only header reads are bounded.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
