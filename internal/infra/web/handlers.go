package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/domain/ports/repository"
)

// Handler for fetching one session record (including the final summary).
func sessionGetHandler(store repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "sessionID")

		s, err := store.FindSession(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

// Handler for fetching a session's full transcript in store order.
func sessionEventsHandler(store repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "sessionID")

		events, err := store.ListEvents(ctx, id)
		if err != nil {
			http.Error(w, "Failed to list events", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(events)
	}
}
