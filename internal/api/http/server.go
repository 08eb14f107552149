package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Server exposes the HTTP transport for the bridge: the metrics
// exposition endpoint and a liveness probe.
type Server struct {
	router chi.Router
}

// NewServer constructs a chi based HTTP server serving the provided
// metric gatherer.
func NewServer(gatherer prometheus.Gatherer) *Server {
	router := chi.NewRouter()
	registerRoutes(router, gatherer)

	return &Server{router: router}
}

// Router returns the configured chi router for reuse in tests or
// external HTTP servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
