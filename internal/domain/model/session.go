package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType enumerates the kinds of durable session events.
type EventType string

const (
	EventUserMessage EventType = "user_message"
	EventAIMessage   EventType = "ai_message"
)

// Session is the durable record spanning one or more connections under the
// same identifier. EndTime and Summary stay nil until the session is closed.
type Session struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Summary   *string    `json:"summary,omitempty"`
}

// SessionEvent is one immutable entry in the append-only session log.
// IDs are ULIDs so events with equal created_at keep insertion order.
type SessionEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"event_type"`
	Content   string    `json:"content"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSessionEvent(sessionID string, typ EventType, content string, tokens int) *SessionEvent {
	return &SessionEvent{
		ID:        ulid.Make().String(),
		SessionID: sessionID,
		Type:      typ,
		Content:   content,
		Tokens:    tokens,
		CreatedAt: time.Now().UTC(),
	}
}
