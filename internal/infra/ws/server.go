// File: internal/infra/ws/server.go
package ws

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-session-gateway/internal/infra/logging"
	"ai-session-gateway/internal/usecase"
)

// Server owns the websocket surface: one connection per session instance,
// addressed by a path-embedded session id. Each accepted connection runs its
// lifecycle controller to completion inside the handler goroutine, so the
// post-disconnect summary finishes before the handler returns.
type Server struct {
	uc       usecase.SessionUseCase
	upgrader websocket.Upgrader
	log      *zerolog.Logger
}

func NewServer(uc usecase.SessionUseCase, logger *zerolog.Logger) *Server {
	return &Server{
		uc: uc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger,
	}
}

// Register attaches the websocket route to the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/ws/session/{sessionID}", s.handleSession)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	ctx := logging.WithSessionID(r.Context(), sessionID)
	ctx = logging.WithConnID(ctx, uuid.NewString())
	log := logging.With(ctx, s.log)
	log.Debug().Msg("ws connected")

	if err := s.uc.Run(ctx, sessionID, newConnTransport(conn)); err != nil {
		log.Error().Err(err).Msg("session run failed")
		return
	}
	log.Debug().Msg("ws handler finished")
}
