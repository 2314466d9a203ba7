package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-session-gateway/internal/domain/ports/repository"
)

// Server is the read-only admin surface: session records, transcripts,
// health and prometheus metrics. API routes sit behind the JWT guard.
type Server struct {
	store repository.SessionRepository
	auth  *AuthManager
	log   *zerolog.Logger
}

func NewServer(store repository.SessionRepository, auth *AuthManager, logger *zerolog.Logger) *Server {
	return &Server{store: store, auth: auth, log: logger}
}

// Register attaches all admin routes to the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(s.authMiddleware)
		api.Get("/sessions/{sessionID}", sessionGetHandler(s.store))
		api.Get("/sessions/{sessionID}/events", sessionEventsHandler(s.store))
	})
}

// authMiddleware requires a valid admin bearer token on API routes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.log.Error().Msg("admin JWT secret is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
