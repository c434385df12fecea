package store

import (
	"context"
	"fmt"
)

// schema creates the three record tables. The uniqueness constraint on
// users.token_hash is what lets the identity resolver recover from the
// check-then-insert race on first contact.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		token_hash     TEXT NOT NULL UNIQUE,
		is_anonymous   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_active    TIMESTAMPTZ NOT NULL DEFAULT now(),
		email          TEXT UNIQUE,
		password_hash  TEXT,
		name           TEXT,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS history_entries (
		id                     TEXT PRIMARY KEY,
		user_id                TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		timestamp              TIMESTAMPTZ NOT NULL DEFAULT now(),
		analysis_type          TEXT NOT NULL,
		query                  TEXT NOT NULL,
		analysis               JSONB NOT NULL,
		is_comparison_analysis BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_entries_user_ts
		ON history_entries (user_id, timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS comparison_entries (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		timestamp        TIMESTAMPTZ NOT NULL DEFAULT now(),
		products         JSONB NOT NULL,
		comparison_notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comparison_entries_user_ts
		ON comparison_entries (user_id, timestamp DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
