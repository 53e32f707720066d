package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the portal tables if needed. applications.code carries
// a unique index so tracking-code generation can rely on the database to
// reject collisions, and document rows cascade with their application.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'customer',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS services (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	required_documents TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL,
	user_id TEXT NOT NULL,
	service_id TEXT NOT NULL,
	status TEXT NOT NULL,
	remarks TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_code ON applications(code);
CREATE INDEX IF NOT EXISTS idx_applications_user ON applications(user_id);
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	application_id TEXT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	label TEXT NOT NULL,
	file_url TEXT NOT NULL,
	object_key TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_application ON documents(application_id);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
