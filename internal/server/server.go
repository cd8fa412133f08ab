package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eventra-io/eventra/internal/actor"
	"github.com/eventra-io/eventra/internal/dispatch"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/otel"
	"github.com/eventra-io/eventra/internal/scope"
	"github.com/eventra-io/eventra/internal/store"
	"github.com/eventra-io/eventra/internal/tool"
)

const defaultTimeout = 30 * time.Second

// Server holds all dependencies for the HTTP API.
type Server struct {
	router     *chi.Mux
	store      *store.Store
	builder    *scope.Builder
	dispatcher *dispatch.Dispatcher
	catalogs   tool.Catalogs
	limiter    *actor.Limiter
	apiKeys    map[string]identity.Identity
	startTime  time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLimiter sets the per-actor rate limiter.
func WithLimiter(l *actor.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// NewServer builds a Server with the required dependencies and
// optional Option(s). apiKeys maps API key -> acting identity.
func NewServer(
	st *store.Store,
	builder *scope.Builder,
	dispatcher *dispatch.Dispatcher,
	catalogs tool.Catalogs,
	apiKeys map[string]identity.Identity,
	opts ...Option,
) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		store:      st,
		builder:    builder,
		dispatcher: dispatcher,
		catalogs:   catalogs,
		apiKeys:    apiKeys,
		startTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.apiKeys == nil {
		s.apiKeys = make(map[string]identity.Identity)
	}
	return s
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.MiddlewareWithStatus())

	// Unauthenticated
	r.Get("/health", s.handleHealth)
	r.Get("/v1/health", s.handleHealth)

	// Authenticated API group
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.apiKeys))
		r.Use(RateLimitMiddleware(s.limiter))
		r.Use(middleware.Timeout(defaultTimeout))

		r.Get("/v1/tools", s.handleToolsList)
		r.Post("/v1/context", s.handleContext)
		r.Post("/v1/tools/execute", s.handleToolExecute)
	})

	return r
}
