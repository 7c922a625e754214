// In file: internal/store/postgres.go
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// InitSchema creates the tables if they do not exist yet. Idempotent, safe
// to run on every startup.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id UUID PRIMARY KEY,
			topic TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			research_brief TEXT NOT NULL DEFAULT '',
			article TEXT NOT NULL DEFAULT '',
			repurposed JSONB,
			media JSONB,
			metrics JSONB,
			last_error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id SERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			score INT NOT NULL DEFAULT 0,
			first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (title)
		)`,
		`CREATE TABLE IF NOT EXISTS publish_records (
			id SERIAL PRIMARY KEY,
			campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			post_url TEXT NOT NULL DEFAULT '',
			last_error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
