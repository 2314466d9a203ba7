package repository

import (
	"context"
	"time"

	"ai-session-gateway/internal/domain/model"
)

// SessionRepository is the port for the durable record store: one mutable
// session row plus an append-only event log per session id. Session ids
// partition the data, so independent sessions may write concurrently.
type SessionRepository interface {
	// UpsertSession creates the session record or, when it already exists,
	// overwrites start_time only. Idempotent per id.
	UpsertSession(ctx context.Context, id string, startTime time.Time) error

	// AppendEvent appends one immutable event. Failures must surface to the
	// caller; an event is never written twice for the same turn.
	AppendEvent(ctx context.Context, ev *model.SessionEvent) error

	// ListEvents returns all events of a session ordered by creation time
	// ascending (ULID id as tie-break).
	ListEvents(ctx context.Context, sessionID string) ([]model.SessionEvent, error)

	// CloseSession sets end_time and summary on the existing record.
	CloseSession(ctx context.Context, id string, endTime time.Time, summary string) error

	FindSession(ctx context.Context, id string) (*model.Session, error)
}
