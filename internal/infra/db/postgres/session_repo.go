// File: internal/infra/db/postgres/session_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/domain/model"
	"ai-session-gateway/internal/domain/ports/repository"
	"ai-session-gateway/internal/infra/redis"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo persists sessions and their append-only event log. Session ids
// partition all writes, so concurrent sessions never contend on rows.
// The cache is optional and only fronts FindSession reads.
type SessionRepo struct {
	pool  *pgxpool.Pool
	cache *redis.SessionCache
}

func NewSessionRepo(pool *pgxpool.Pool, cache *redis.SessionCache) *SessionRepo {
	return &SessionRepo{pool: pool, cache: cache}
}

func (r *SessionRepo) UpsertSession(ctx context.Context, id string, startTime time.Time) error {
	const q = `
INSERT INTO sessions (id, start_time)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET start_time = EXCLUDED.start_time;`
	if _, err := r.pool.Exec(ctx, q, id, startTime); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, id)
	}
	return nil
}

func (r *SessionRepo) AppendEvent(ctx context.Context, ev *model.SessionEvent) error {
	const q = `
INSERT INTO session_events (id, session_id, event_type, content, tokens, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := r.pool.Exec(ctx, q, ev.ID, ev.SessionID, string(ev.Type), ev.Content, ev.Tokens, ev.CreatedAt); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (r *SessionRepo) ListEvents(ctx context.Context, sessionID string) ([]model.SessionEvent, error) {
	const q = `
SELECT id, session_id, event_type, content, tokens, created_at
FROM session_events
WHERE session_id = $1
ORDER BY created_at ASC, id ASC;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []model.SessionEvent
	for rows.Next() {
		var ev model.SessionEvent
		var typ string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &typ, &ev.Content, &ev.Tokens, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = model.EventType(typ)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *SessionRepo) CloseSession(ctx context.Context, id string, endTime time.Time, summary string) error {
	const q = `UPDATE sessions SET end_time = $2, summary = $3 WHERE id = $1;`
	ct, err := r.pool.Exec(ctx, q, id, endTime, summary)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, id)
	}
	return nil
}

func (r *SessionRepo) FindSession(ctx context.Context, id string) (*model.Session, error) {
	if r.cache != nil {
		if s, err := r.cache.Get(ctx, id); err == nil && s != nil {
			return s, nil
		}
	}

	const q = `SELECT id, start_time, end_time, summary FROM sessions WHERE id = $1;`
	var s model.Session
	if err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Summary); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Store(ctx, &s)
	}
	return &s, nil
}
