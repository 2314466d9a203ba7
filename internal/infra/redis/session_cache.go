package redis

import (
	"context"
	"encoding/json"
	"time"

	"ai-session-gateway/internal/domain/model"
)

// SessionCache fronts session record reads for the admin API. Entries are
// deleted whenever the record changes, so stale summaries never survive a
// CloseSession.
type SessionCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionCache(client RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) Store(ctx context.Context, session *model.Session) error {
	key := "session:" + session.ID
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}

func (c *SessionCache) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	key := "session:" + sessionID
	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "session:"+sessionID)
}
