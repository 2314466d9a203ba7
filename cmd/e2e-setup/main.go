package main

import (
	"context"
	"flag"
	"log"

	"ai-session-gateway/internal/config"
	"ai-session-gateway/internal/infra/db/postgres"
	"ai-session-gateway/internal/infra/redis"
)

const schema = `
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

CREATE INDEX IF NOT EXISTS idx_session_events_session
	ON session_events (session_id, created_at, id);
`

// This script sets up a clean, predictable database state for manual
// end-to-end testing against a real backend.
func main() {
	ctx := context.Background()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	wipe := flag.Bool("wipe", false, "truncate existing session data")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	log.Println("[1/3] Ensuring schema...")
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	if *wipe {
		log.Println("[2/3] Wiping session data...")
		if _, err := pool.Exec(ctx, `TRUNCATE session_events, sessions;`); err != nil {
			log.Fatalf("failed to truncate: %v", err)
		}
	} else {
		log.Println("[2/3] Keeping existing session data (pass -wipe to truncate)")
	}

	if cfg.Redis.URL != "" {
		log.Println("[3/3] Wiping Redis cache...")
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisClient.Close()
		if err := redisClient.FlushDB(ctx); err != nil {
			log.Fatalf("failed to flush redis: %v", err)
		}
	} else {
		log.Println("[3/3] Redis disabled, skipping cache wipe")
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
