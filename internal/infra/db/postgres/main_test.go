//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

var testPool *pgxpool.Pool

const testSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ,
	summary TEXT
);
CREATE TABLE IF NOT EXISTS session_events (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	event_type TEXT NOT NULL,
	content TEXT NOT NULL,
	tokens INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
TRUNCATE session_events, sessions;
`

// TestMain connects to the database named by TEST_DATABASE_URL and prepares
// a clean schema. Run with: go test -tags integration ./internal/infra/db/...
func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		log.Println("TEST_DATABASE_URL not set; skipping postgres integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	pool, err := NewPgxPool(ctx, url, 5)
	if err != nil {
		log.Fatalf("connect test db: %v", err)
	}
	if _, err := pool.Exec(ctx, testSchema); err != nil {
		log.Fatalf("prepare test schema: %v", err)
	}
	testPool = pool

	code := m.Run()
	pool.Close()
	os.Exit(code)
}
