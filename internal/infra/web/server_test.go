package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/domain/model"
)

// fakeStore is a minimal read-side stub for the admin API.
type fakeStore struct {
	sessions map[string]*model.Session
	events   map[string][]model.SessionEvent
}

func (f *fakeStore) UpsertSession(ctx context.Context, id string, startTime time.Time) error {
	return nil
}
func (f *fakeStore) AppendEvent(ctx context.Context, ev *model.SessionEvent) error { return nil }
func (f *fakeStore) CloseSession(ctx context.Context, id string, endTime time.Time, summary string) error {
	return nil
}

func (f *fakeStore) ListEvents(ctx context.Context, sessionID string) ([]model.SessionEvent, error) {
	return f.events[sessionID], nil
}

func (f *fakeStore) FindSession(ctx context.Context, id string) (*model.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func newTestServer(t *testing.T) (*httptest.Server, *AuthManager) {
	t.Helper()
	summary := "they talked"
	store := &fakeStore{
		sessions: map[string]*model.Session{
			"s1": {ID: "s1", StartTime: time.Now(), Summary: &summary},
		},
		events: map[string][]model.SessionEvent{
			"s1": {
				{ID: "01", SessionID: "s1", Type: model.EventUserMessage, Content: "hi"},
				{ID: "02", SessionID: "s1", Type: model.EventAIMessage, Content: "hello"},
			},
		},
	}
	auth := NewAuthManager("test-admin-jwt-secret-please-change", time.Minute)
	logger := zerolog.Nop()
	r := chi.NewRouter()
	NewServer(store, auth, &logger).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, auth
}

func TestAuthGuard(t *testing.T) {
	srv, auth := newTestServer(t)

	t.Run("no token -> 401", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/sessions/s1")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("bearer but invalid jwt -> 401", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sessions/s1", nil)
		req.Header.Set("Authorization", "Bearer invalid.jwt.token")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("valid bearer jwt -> 200", func(t *testing.T) {
		tok, err := auth.Mint()
		if err != nil {
			t.Fatal(err)
		}
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sessions/s1", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var s model.Session
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			t.Fatal(err)
		}
		if s.ID != "s1" || s.Summary == nil || *s.Summary != "they talked" {
			t.Errorf("session = %+v", s)
		}
	})
}

func TestSessionEventsEndpoint(t *testing.T) {
	srv, auth := newTestServer(t)
	tok, _ := auth.Mint()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sessions/s1/events", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var events []model.SessionEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Content != "hi" || events[1].Content != "hello" {
		t.Errorf("events = %+v", events)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, auth := newTestServer(t)
	tok, _ := auth.Mint()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sessions/missing", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthUnguarded(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
