//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/domain/model"
)

func TestUpsertSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepo(testPool, nil)

	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	if err := repo.UpsertSession(ctx, "it-upsert", first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.CloseSession(ctx, "it-upsert", time.Now().UTC(), "old summary"); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reconnect: start_time is overwritten, summary survives.
	second := time.Now().UTC().Truncate(time.Millisecond)
	if err := repo.UpsertSession(ctx, "it-upsert", second); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	s, err := repo.FindSession(ctx, "it-upsert")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !s.StartTime.Equal(second) {
		t.Errorf("start_time = %v, want %v", s.StartTime, second)
	}
	if s.Summary == nil || *s.Summary != "old summary" {
		t.Errorf("summary = %v, want preserved", s.Summary)
	}
}

func TestAppendAndListEventsKeepOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepo(testPool, nil)

	if err := repo.UpsertSession(ctx, "it-order", time.Now().UTC()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		typ := model.EventUserMessage
		if i%2 == 1 {
			typ = model.EventAIMessage
		}
		if err := repo.AppendEvent(ctx, model.NewSessionEvent("it-order", typ, c, i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.ListEvents(ctx, "it-order")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != len(contents) {
		t.Fatalf("events = %d, want %d", len(events), len(contents))
	}
	for i, ev := range events {
		if ev.Content != contents[i] {
			t.Errorf("event[%d] = %q, want %q", i, ev.Content, contents[i])
		}
	}
}

func TestCloseSessionUnknownID(t *testing.T) {
	repo := NewSessionRepo(testPool, nil)
	err := repo.CloseSession(context.Background(), "it-missing", time.Now().UTC(), "s")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
