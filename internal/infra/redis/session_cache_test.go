package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-session-gateway/internal/domain/model"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) FlushDB(ctx context.Context) error {
	f.data = map[string]string{}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func TestSessionCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewSessionCache(newFakeRedis(), time.Minute)

	summary := "done"
	end := time.Now().UTC().Truncate(time.Second)
	s := &model.Session{ID: "s1", StartTime: end.Add(-time.Minute), EndTime: &end, Summary: &summary}

	if err := cache.Store(ctx, s); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := cache.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "s1" || got.Summary == nil || *got.Summary != "done" {
		t.Errorf("cached session = %+v", got)
	}

	if err := cache.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cache.Get(ctx, "s1"); err == nil {
		t.Error("expected miss after delete")
	}
}
